package outlets

import (
	"time"

	"github.com/google/uuid"
)

type OutletType string

const (
	OutletTypeHotel      OutletType = "hotel"
	OutletTypeRestaurant OutletType = "restaurant"
	OutletTypeTravel     OutletType = "travel"
)

func (t OutletType) IsValid() bool {
	switch t {
	case OutletTypeHotel, OutletTypeRestaurant, OutletTypeTravel:
		return true
	}
	return false
}

type Outlet struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BusinessName string     `json:"business_name" gorm:"not null"`
	Type         OutletType `json:"type" gorm:"type:varchar(20);not null;index"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Outlet) TableName() string {
	return "outlets"
}

// UserOutlet grants a user access to an outlet; its ID is the dashboard's user_role_id
type UserOutlet struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_outlet"`
	OutletID  uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_outlet"`
	CreatedAt time.Time `json:"created_at"`

	Outlet *Outlet `json:"outlet,omitempty" gorm:"foreignKey:OutletID"`
}

func (UserOutlet) TableName() string {
	return "user_outlets"
}

// Store keys of the dashboard's persisted client state
const (
	StoreAuth   = "auth-store"
	StoreOutlet = "outlet-store"
)

func IsValidStore(store string) bool {
	return store == StoreAuth || store == StoreOutlet
}
