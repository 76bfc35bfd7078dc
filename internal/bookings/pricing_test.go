package bookings

import (
	"testing"
	"time"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomTotal(t *testing.T) {
	assert.Equal(t, 300.0, RoomTotal(100, 3))
	assert.Equal(t, 100.0, RoomTotal(100, 0))
	assert.Equal(t, 100.0, RoomTotal(100, -2))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date(t, "2026-04-01"), date(t, "2026-04-04")))
	assert.Equal(t, 0, Nights(date(t, "2026-04-01"), date(t, "2026-04-01")))
	assert.Equal(t, 1, Nights(date(t, "2026-04-01"), date(t, "2026-04-01").Add(2*time.Hour)))
}

func TestPlanBookingsSplitsGuestsAndAdvance(t *testing.T) {
	outletID := uuid.New()
	rooms := []hotels.Room{
		{ID: uuid.New(), Number: "101", Price: 100},
		{ID: uuid.New(), Number: "102", Price: 150},
	}
	form := StayForm{
		GuestName:      "Asha",
		CheckIn:        date(t, "2026-06-10"),
		CheckOut:       date(t, "2026-06-13"),
		GuestCount:     3,
		AdvancePayment: 200,
	}

	planned := PlanBookings(outletID, rooms, form, date(t, "2026-06-01"), time.Now())

	require.Len(t, planned, 2)
	for i, b := range planned {
		assert.NotEqual(t, uuid.Nil, b.ID)
		assert.Equal(t, outletID, b.OutletID)
		assert.Equal(t, rooms[i].ID, b.RoomID)
		assert.Equal(t, 2, b.GuestCount)
		assert.Equal(t, 100.0, b.AdvancePayment)
		assert.Equal(t, StatusConfirmed, b.Status)
		assert.Nil(t, b.CheckedInAt)
	}
	assert.Equal(t, 300.0, planned[0].TotalPrice)
	assert.Equal(t, 450.0, planned[1].TotalPrice)
}

func TestPlanBookingsArrivingToday(t *testing.T) {
	today := date(t, "2026-06-10")
	now := today.Add(9 * time.Hour)
	rooms := []hotels.Room{{ID: uuid.New(), Price: 80}}
	form := StayForm{CheckIn: today, CheckOut: today, GuestCount: 1}

	planned := PlanBookings(uuid.New(), rooms, form, today, now)

	require.Len(t, planned, 1)
	assert.Equal(t, StatusCheckedIn, planned[0].Status)
	require.NotNil(t, planned[0].CheckedInAt)
	assert.Equal(t, now, *planned[0].CheckedInAt)
	assert.Equal(t, 80.0, planned[0].TotalPrice, "same-day stay bills one night")
}

func TestPlanBookingsUnevenAdvance(t *testing.T) {
	rooms := []hotels.Room{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}
	planned := PlanBookings(uuid.New(), rooms, StayForm{GuestCount: 1, AdvancePayment: 100,
		CheckIn: date(t, "2026-01-01"), CheckOut: date(t, "2026-01-02")}, date(t, "2025-12-01"), time.Now())

	require.Len(t, planned, 3)
	assert.InDelta(t, 33.333, planned[0].AdvancePayment, 0.001)
	assert.Equal(t, 1, planned[2].GuestCount)
}
