package bookings

import (
	"math"
	"time"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
)

// Nights rounds a partial day up; it may be zero or negative for malformed ranges
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// RoomTotal bills at least one night
func RoomTotal(price float64, nights int) float64 {
	if nights < 1 {
		nights = 1
	}
	return price * float64(nights)
}

// StayForm is the shared guest form applied to every room of a batch
type StayForm struct {
	GuestName      string
	Email          string
	Phone          string
	IDProof        string
	CheckIn        time.Time
	CheckOut       time.Time
	GuestCount     int
	AdvancePayment float64
}

// PlanBookings builds one booking per room. Guests are split rounding up, the advance is split evenly.
// When the stay starts today the bookings are checked in at now.
func PlanBookings(outletID uuid.UUID, rooms []hotels.Room, form StayForm, today, now time.Time) []Booking {
	if len(rooms) == 0 {
		return nil
	}
	n := len(rooms)
	guests := int(math.Ceil(float64(form.GuestCount) / float64(n)))
	if guests < 1 {
		guests = 1
	}
	advance := form.AdvancePayment / float64(n)
	nights := Nights(form.CheckIn, form.CheckOut)
	arrivingToday := form.CheckIn.Equal(today)

	out := make([]Booking, 0, n)
	for _, room := range rooms {
		b := Booking{
			ID:             uuid.New(),
			OutletID:       outletID,
			RoomID:         room.ID,
			GuestName:      form.GuestName,
			Email:          form.Email,
			Phone:          form.Phone,
			IDProof:        form.IDProof,
			CheckIn:        form.CheckIn,
			CheckOut:       form.CheckOut,
			Status:         StatusConfirmed,
			GuestCount:     guests,
			TotalPrice:     RoomTotal(room.Price, nights),
			AdvancePayment: advance,
			FolioCharges:   []FolioCharge{},
		}
		if arrivingToday {
			at := now
			b.Status = StatusCheckedIn
			b.CheckedInAt = &at
		}
		out = append(out, b)
	}
	return out
}
