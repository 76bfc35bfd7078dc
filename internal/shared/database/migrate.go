package database

import (
	"fmt"

	"outletdesk/internal/bookings"
	"outletdesk/internal/hotels"
	"outletdesk/internal/outlets"
	"outletdesk/internal/restaurants"
	"outletdesk/internal/travel"
	"outletdesk/internal/users"

	"gorm.io/gorm"
)

// Migrate creates extensions, tables and the constraints AutoMigrate cannot express
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	err := db.AutoMigrate(
		&users.User{},
		&outlets.Outlet{},
		&outlets.UserOutlet{},
		&hotels.Category{},
		&hotels.Amenity{},
		&hotels.Room{},
		&bookings.Booking{},
		&bookings.FolioCharge{},
		&restaurants.MenuCategory{},
		&restaurants.MenuSubCategory{},
		&restaurants.MenuItem{},
		&restaurants.Order{},
		&restaurants.OrderItem{},
		&restaurants.OrderSequence{},
		&travel.Vehicle{},
		&travel.Contact{},
	)
	if err != nil {
		return err
	}

	return MigrateConstraints(db)
}
