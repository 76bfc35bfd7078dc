package hotels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID    uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;uniqueIndex:idx_category_outlet_name"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_category_outlet_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "room_categories"
}

type Amenity struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID    uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;uniqueIndex:idx_amenity_outlet_name"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_amenity_outlet_name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Amenity) TableName() string {
	return "amenities"
}

// Room is a bookable unit. Status is housekeeping state, not date availability.
type Room struct {
	ID              uuid.UUID                      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID        uuid.UUID                      `json:"outlet_id" gorm:"type:uuid;not null;uniqueIndex:idx_room_outlet_number;index"`
	CategoryID      uuid.UUID                      `json:"category_id" gorm:"type:uuid;not null;index"`
	Number          string                         `json:"number" gorm:"not null;uniqueIndex:idx_room_outlet_number"`
	Price           float64                        `json:"price" gorm:"not null;check:price >= 0"`
	Capacity        int                            `json:"capacity" gorm:"not null;check:capacity >= 1"`
	Status          RoomStatus                     `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	AmenityIDs      datatypes.JSONSlice[uuid.UUID] `json:"amenity_ids" gorm:"type:jsonb"`
	MaintenanceNote string                         `json:"maintenance_note,omitempty"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`

	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Room) TableName() string {
	return "rooms"
}
