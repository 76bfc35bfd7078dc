package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Module is a vertical of the dashboard a user may open
type Module string

const (
	ModuleHotel      Module = "hotel"
	ModuleRestaurant Module = "restaurant"
	ModuleTravel     Module = "travel"
)

type User struct {
	ID        uuid.UUID                   `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FullName  string                      `json:"fullname" gorm:"not null"`
	Email     string                      `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string                      `json:"phone"`
	Password  string                      `json:"-" gorm:"not null"`
	Role      Role                        `json:"role" gorm:"type:varchar(20);not null;default:'STAFF'"`
	Avatar    string                      `json:"avatar,omitempty"`
	Modules   datatypes.JSONSlice[Module] `json:"modules" gorm:"type:jsonb"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}

// HasModule reports whether the user may open the given vertical
func (u *User) HasModule(m Module) bool {
	for _, mod := range u.Modules {
		if mod == m {
			return true
		}
	}
	return false
}

// NormalizeEmail is the stored form of a login e-mail
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
