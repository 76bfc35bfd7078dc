package bookings

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"Booking ID", "Room", "Guest", "Phone", "Email", "Check-in", "Check-out", "Nights",
	"Status", "Guests", "Room Rent", "Charges", "Advance", "Balance", "Amount Due", "Refund Due",
}

// sheetWriter appends rows to a single worksheet
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheetWriter(name string) *sheetWriter {
	f := excelize.NewFile()
	if len(name) > 31 {
		name = name[:31]
	}
	f.SetSheetName("Sheet1", name)
	return &sheetWriter{file: f, sheet: name, row: 1}
}

func (w *sheetWriter) writeHeader(columns []string) error {
	if err := w.writeRow(toValues(columns)); err != nil {
		return err
	}
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = w.file.SetCellStyle(w.sheet, start, end, style)
	}
	return nil
}

func (w *sheetWriter) writeRow(values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func toValues(columns []string) []interface{} {
	out := make([]interface{}, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}

// WriteBookingsXLSX renders bookings with their folio totals as a workbook
func WriteBookingsXLSX(bookings []Booking, out io.Writer) error {
	w := newSheetWriter("Bookings")
	defer w.file.Close()

	if err := w.writeHeader(exportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, b := range bookings {
		room := b.RoomID.String()
		if b.Room != nil {
			room = b.Room.Number
		}
		settlement := Settle(CalculateTotalBill(b))
		err := w.writeRow([]interface{}{
			b.ID.String(),
			room,
			b.GuestName,
			b.Phone,
			b.Email,
			b.CheckIn.Format(DateLayout),
			b.CheckOut.Format(DateLayout),
			Nights(b.CheckIn, b.CheckOut),
			string(b.Status),
			b.GuestCount,
			b.TotalPrice,
			ChargesTotal(b.FolioCharges),
			b.AdvancePayment,
			settlement.Balance,
			settlement.AmountDue,
			settlement.RefundDue,
		})
		if err != nil {
			return fmt.Errorf("write booking %s: %w", b.ID, err)
		}
	}

	return w.file.Write(out)
}
