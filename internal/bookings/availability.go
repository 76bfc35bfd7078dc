package bookings

import (
	"fmt"
	"time"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDateRange, s)
	}
	return t, nil
}

// DateOf truncates an instant to its calendar date in loc, returned as UTC midnight
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StayEnd is the exclusive end of the occupied interval; a same-day stay still holds the room for one night
func StayEnd(checkIn, checkOut time.Time) time.Time {
	if minEnd := checkIn.Add(day); checkOut.Before(minEnd) {
		return minEnd
	}
	return checkOut
}

// Overlaps tests two half-open intervals [s1,e1) and [s2,e2)
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Conflicts reports whether b holds its room during the stay [from, to)
func (b Booking) Conflicts(from, to time.Time) bool {
	if !b.Status.BlocksRoom() {
		return false
	}
	return Overlaps(b.CheckIn, StayEnd(b.CheckIn, b.CheckOut), from, StayEnd(from, to))
}

// IsRoomAvailable is false for rooms under maintenance and for rooms with a blocking booking in [from, to)
func IsRoomAvailable(room hotels.Room, bookings []Booking, from, to time.Time) bool {
	if room.Status == hotels.RoomStatusMaintenance {
		return false
	}
	for _, b := range bookings {
		if b.RoomID == room.ID && b.Conflicts(from, to) {
			return false
		}
	}
	return true
}

// ComputeRoomStatus is the date-aware status shown on the room board
func ComputeRoomStatus(room hotels.Room, bookings []Booking, from, to time.Time) hotels.RoomStatus {
	if IsRoomAvailable(room, bookings, from, to) {
		return hotels.RoomStatusAvailable
	}
	if room.Status == hotels.RoomStatusMaintenance {
		return hotels.RoomStatusMaintenance
	}
	return hotels.RoomStatusOccupied
}

// ActiveBookingFor returns the first checked-in or confirmed booking of the room, in slice order
func ActiveBookingFor(roomID uuid.UUID, bookings []Booking) (Booking, bool) {
	for _, b := range bookings {
		if b.RoomID == roomID && b.Status.IsInHouse() {
			return b, true
		}
	}
	return Booking{}, false
}
