package bookings

import (
	"bytes"
	"testing"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteBookingsXLSX(t *testing.T) {
	b := Booking{
		ID:             uuid.New(),
		RoomID:         uuid.New(),
		Room:           &hotels.Room{Number: "204"},
		GuestName:      "Ravi",
		CheckIn:        date(t, "2026-02-01"),
		CheckOut:       date(t, "2026-02-04"),
		Status:         StatusCompleted,
		GuestCount:     2,
		TotalPrice:     300,
		AdvancePayment: 100,
		FolioCharges:   []FolioCharge{{Total: 50}, {Total: 120}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookingsXLSX([]Booking{b}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportColumns, rows[0])
	assert.Equal(t, "204", rows[1][1])
	assert.Equal(t, "Ravi", rows[1][2])
	assert.Equal(t, "2026-02-01", rows[1][5])
	assert.Equal(t, "3", rows[1][7])
	assert.Equal(t, "370", rows[1][13])
}
