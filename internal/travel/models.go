package travel

import (
	"time"

	"github.com/google/uuid"
)

type VehicleType string

const (
	VehicleTypeBus   VehicleType = "bus"
	VehicleTypeCar   VehicleType = "car"
	VehicleTypeVan   VehicleType = "van"
	VehicleTypeTruck VehicleType = "truck"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusInactive    VehicleStatus = "inactive"
)

type Vehicle struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID     uuid.UUID     `json:"outlet_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_vehicle_outlet_registration"`
	Name         string        `json:"name" gorm:"not null"`
	Type         VehicleType   `json:"type" gorm:"type:varchar(20);not null"`
	Registration string        `json:"registration" gorm:"not null;uniqueIndex:idx_vehicle_outlet_registration"`
	Capacity     int           `json:"capacity" gorm:"not null;check:capacity >= 1"`
	Status       VehicleStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID  uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}
