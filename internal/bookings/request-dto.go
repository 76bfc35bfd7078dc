package bookings

// CreateBookingRequest books the same stay in one or more rooms
type CreateBookingRequest struct {
	RoomIDs        []string `json:"room_ids" binding:"required,min=1,max=50,dive,uuid"`
	GuestName      string   `json:"guest_name" binding:"required,min=1,max=120"`
	Email          string   `json:"email" binding:"omitempty,email"`
	Phone          string   `json:"phone" binding:"required,min=5,max=20"`
	IDProof        string   `json:"id_proof" binding:"max=120"`
	CheckIn        string   `json:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut       string   `json:"check_out" binding:"required,datetime=2006-01-02"`
	GuestCount     int      `json:"guest_count" binding:"required,min=1,max=500"`
	AdvancePayment float64  `json:"advance_payment" binding:"gte=0"`
}

type AddChargeRequest struct {
	Type     ChargeType `json:"type" binding:"required,oneof=room-service laundry other"`
	Item     string     `json:"item" binding:"required,min=1,max=200"`
	Quantity int        `json:"quantity" binding:"required,min=1"`
	Price    float64    `json:"price" binding:"gte=0"`
	Express  bool       `json:"express"`
}

type ExtendStayRequest struct {
	CheckOut string `json:"check_out" binding:"required,datetime=2006-01-02"`
}

type CheckoutRequest struct {
	RoomStatus string `json:"room_status" binding:"omitempty,oneof=available maintenance"`
	Note       string `json:"note" binding:"max=500"`
}

// AvailabilityQuery is bound from ?from=&to=&category_id=&capacity=2,3&sort=price_asc
type AvailabilityQuery struct {
	From       string `form:"from" binding:"required,datetime=2006-01-02"`
	To         string `form:"to" binding:"required,datetime=2006-01-02"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Capacity   string `form:"capacity"`
	Sort       string `form:"sort" binding:"omitempty,oneof=price_asc price_desc"`
}

type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed checked-in completed cancelled"`
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
