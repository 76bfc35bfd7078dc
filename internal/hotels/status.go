package hotels

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) IsValid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

// IsCheckoutTarget reports whether a room may be released into this status at checkout
func (s RoomStatus) IsCheckoutTarget() bool {
	return s == RoomStatusAvailable || s == RoomStatusMaintenance
}
