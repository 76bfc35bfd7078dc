package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeTotal(t *testing.T) {
	assert.Equal(t, 240.0, ChargeTotal(2, 120, false))
	assert.Equal(t, 290.0, ChargeTotal(2, 120, true))
	assert.Equal(t, 50.0, ChargeTotal(1, 0, true))
}

func TestCalculateTotalBill(t *testing.T) {
	b := Booking{
		TotalPrice:     300,
		AdvancePayment: 100,
		FolioCharges:   []FolioCharge{{Total: 50}, {Total: 120}},
	}
	assert.Equal(t, 370.0, CalculateTotalBill(b))
}

func TestCalculateTotalBillIsNotClamped(t *testing.T) {
	b := Booking{TotalPrice: 100, AdvancePayment: 250}
	assert.Equal(t, -150.0, CalculateTotalBill(b))
}

func TestSettle(t *testing.T) {
	assert.Equal(t, Settlement{Balance: 370, AmountDue: 370, RefundDue: 0}, Settle(370))
	assert.Equal(t, Settlement{Balance: -150, AmountDue: 0, RefundDue: 150}, Settle(-150))
	assert.Equal(t, Settlement{}, Settle(0))
}
