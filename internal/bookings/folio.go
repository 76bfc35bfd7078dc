package bookings

import "math"

// ExpressSurcharge is the flat fee added to an express folio charge
const ExpressSurcharge = 50.0

func ChargeTotal(quantity int, price float64, express bool) float64 {
	total := float64(quantity) * price
	if express {
		total += ExpressSurcharge
	}
	return total
}

func ChargesTotal(charges []FolioCharge) float64 {
	var sum float64
	for _, c := range charges {
		sum += c.Total
	}
	return sum
}

// CalculateTotalBill is rent plus incidentals minus the advance. A negative result means the hotel owes the guest.
func CalculateTotalBill(b Booking) float64 {
	return b.TotalPrice + ChargesTotal(b.FolioCharges) - b.AdvancePayment
}

// Settlement splits a raw balance into what the guest owes and what is refunded
type Settlement struct {
	Balance   float64 `json:"balance"`
	AmountDue float64 `json:"amount_due"`
	RefundDue float64 `json:"refund_due"`
}

func Settle(balance float64) Settlement {
	return Settlement{
		Balance:   balance,
		AmountDue: math.Max(balance, 0),
		RefundDue: math.Max(-balance, 0),
	}
}
