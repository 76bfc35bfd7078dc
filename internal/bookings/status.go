package bookings

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked-in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// BlocksRoom reports whether a booking in this status occupies its dates
func (s Status) BlocksRoom() bool {
	return s != StatusCancelled && s != StatusCompleted
}

func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsInHouse covers the statuses a room POS treats as the room's current booking
func (s Status) IsInHouse() bool {
	return s == StatusCheckedIn || s == StatusConfirmed
}

func (s Status) CanCheckIn() bool {
	return s == StatusConfirmed
}

// CanCheckOut also admits confirmed stays so a no-show can be closed from the folio once its check-in day has come
func (s Status) CanCheckOut() bool {
	return s.IsInHouse()
}

type ChargeType string

const (
	ChargeRoomService ChargeType = "room-service"
	ChargeLaundry     ChargeType = "laundry"
	ChargeOther       ChargeType = "other"
)

func (t ChargeType) IsValid() bool {
	switch t {
	case ChargeRoomService, ChargeLaundry, ChargeOther:
		return true
	}
	return false
}
