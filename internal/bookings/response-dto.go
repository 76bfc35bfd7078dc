package bookings

import (
	"outletdesk/internal/hotels"
)

// RoomAvailability is a room as seen on the board for a date range
type RoomAvailability struct {
	hotels.Room
	ComputedStatus hotels.RoomStatus `json:"computed_status"`
}

type AvailabilityResponse struct {
	From        string             `json:"from"`
	To          string             `json:"to"`
	Nights      int                `json:"nights"`
	Available   []RoomAvailability `json:"available"`
	Unavailable []RoomAvailability `json:"unavailable"`
}

type RoomEstimate struct {
	RoomID     string  `json:"room_id"`
	RoomNumber string  `json:"room_number"`
	Price      float64 `json:"price"`
	Total      float64 `json:"total"`
	GuestCount int     `json:"guest_count"`
	Advance    float64 `json:"advance"`
}

type EstimateResponse struct {
	Nights         int            `json:"nights"`
	BilledNights   int            `json:"billed_nights"`
	Rooms          []RoomEstimate `json:"rooms"`
	GrandTotal     float64        `json:"grand_total"`
	AdvancePayment float64        `json:"advance_payment"`
	Settlement
}

type FolioResponse struct {
	Booking      Booking `json:"booking"`
	Nights       int     `json:"nights"`
	RoomRent     float64 `json:"room_rent"`
	ChargesTotal float64 `json:"charges_total"`
	TotalBill    float64 `json:"total_bill"`
	Settlement
}

func newFolio(b Booking) *FolioResponse {
	if b.FolioCharges == nil {
		b.FolioCharges = []FolioCharge{}
	}
	bill := CalculateTotalBill(b)
	return &FolioResponse{
		Booking:      b,
		Nights:       Nights(b.CheckIn, b.CheckOut),
		RoomRent:     b.TotalPrice,
		ChargesTotal: ChargesTotal(b.FolioCharges),
		TotalBill:    bill,
		Settlement:   Settle(bill),
	}
}
