package bookings

import (
	"time"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
)

// Booking is one room for one stay. CheckIn and CheckOut are calendar dates at UTC midnight.
type Booking struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OutletID       uuid.UUID  `gorm:"type:uuid;index;not null" json:"outlet_id"`
	RoomID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"room_id"`
	GuestName      string     `gorm:"not null" json:"guest_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	IDProof        string     `json:"id_proof"`
	CheckIn        time.Time  `gorm:"type:date;not null" json:"check_in"`
	CheckOut       time.Time  `gorm:"type:date;not null;check:check_out >= check_in" json:"check_out"`
	Status         Status     `gorm:"type:varchar(20);index;not null;default:'confirmed'" json:"status"`
	GuestCount     int        `gorm:"not null;check:guest_count >= 1" json:"guest_count"`
	TotalPrice     float64    `gorm:"not null;check:total_price >= 0" json:"total_price"`
	AdvancePayment float64    `gorm:"not null;default:0;check:advance_payment >= 0" json:"advance_payment"`
	CheckedInAt    *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt   *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	FolioCharges []FolioCharge `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;" json:"folio_charges"`
	Room         *hotels.Room  `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT;" json:"room,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

type FolioCharge struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	Type      ChargeType `gorm:"type:varchar(20);not null" json:"type"`
	Item      string     `gorm:"not null" json:"item"`
	Quantity  int        `gorm:"not null;check:quantity >= 1" json:"quantity"`
	Price     float64    `gorm:"not null;check:price >= 0" json:"price"`
	Express   bool       `gorm:"not null;default:false" json:"express"`
	Total     float64    `gorm:"not null" json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}

func (FolioCharge) TableName() string {
	return "folio_charges"
}
