package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"outletdesk/internal/hotels"
	"outletdesk/internal/outlets"
	"outletdesk/internal/restaurants"
	"outletdesk/internal/shared/config"
	"outletdesk/internal/shared/database"
	"outletdesk/internal/travel"
	"outletdesk/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	file := flag.String("file", "", "seed YAML file (defaults to the embedded demo data)")
	keep := flag.Bool("keep", false, "do not truncate existing tables first")
	flag.Parse()

	_ = godotenv.Load()
	fmt.Println("Starting Outlet Desk database seeder...")

	seed, err := LoadSeedFile(*file)
	if err != nil {
		log.Fatalf("Failed to load seed data: %v", err)
	}

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	if !*keep {
		fmt.Println("\nCleaning database...")
		if err := seeder.CleanDatabase(); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
	}

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(context.Background(), seed); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\nSeeding completed. Log in with any seeded user, e.g. admin@example.com / password")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"order_items",
		"orders",
		"order_sequences",
		"menu_items",
		"menu_sub_categories",
		"menu_categories",
		"folio_charges",
		"bookings",
		"rooms",
		"amenities",
		"room_categories",
		"vehicles",
		"contacts",
		"user_outlets",
		"outlets",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll writes the whole file in one transaction and then drops cached views
func (s *Seeder) SeedAll(ctx context.Context, seed *SeedFile) error {
	err := s.db.PostgreSQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userIDs, err := seedUsers(tx, seed.Users)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		for _, o := range seed.Outlets {
			if err := seedOutlet(tx, o, userIDs); err != nil {
				return fmt.Errorf("failed to seed outlet %s: %w", o.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to clear Redis cache: %v", err)
	}
	return nil
}

func seedUsers(tx *gorm.DB, list []SeedUser) (map[string]uuid.UUID, error) {
	fmt.Println("  Seeding users...")
	ids := make(map[string]uuid.UUID, len(list))

	for _, u := range list {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		seedName := strings.SplitN(u.Email, "@", 2)[0]
		user := users.User{
			FullName: u.Name,
			Email:    users.NormalizeEmail(u.Email),
			Password: string(hashed),
			Role:     u.Role,
			Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seedName,
			Modules:  datatypes.JSONSlice[users.Module](u.Modules),
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		ids[u.Email] = user.ID
		fmt.Printf("    Created user: %s (%s)\n", user.Email, user.Role)
	}
	return ids, nil
}

func seedOutlet(tx *gorm.DB, o SeedOutlet, userIDs map[string]uuid.UUID) error {
	outlet := outlets.Outlet{BusinessName: o.Name, Type: o.Type, Address: o.Address}
	if err := tx.Create(&outlet).Error; err != nil {
		return err
	}
	fmt.Printf("  Created outlet: %s (%s)\n", outlet.BusinessName, outlet.Type)

	for _, email := range o.Members {
		if err := tx.Create(&outlets.UserOutlet{UserID: userIDs[email], OutletID: outlet.ID}).Error; err != nil {
			return fmt.Errorf("failed to add member %s: %w", email, err)
		}
	}

	switch o.Type {
	case outlets.OutletTypeHotel:
		return seedHotel(tx, outlet.ID, o)
	case outlets.OutletTypeRestaurant:
		return seedRestaurant(tx, outlet.ID, o)
	case outlets.OutletTypeTravel:
		return seedTravel(tx, outlet.ID, o)
	}
	return nil
}

func seedHotel(tx *gorm.DB, outletID uuid.UUID, o SeedOutlet) error {
	categoryIDs := make(map[string]uuid.UUID)
	for _, c := range o.Categories {
		category := hotels.Category{OutletID: outletID, Name: c.Name, Description: c.Description}
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("failed to create category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = category.ID
	}

	amenityIDs := make(map[string]uuid.UUID)
	for _, a := range o.Amenities {
		amenity := hotels.Amenity{OutletID: outletID, Name: a.Name, Description: a.Description, Icon: a.Icon}
		if err := tx.Create(&amenity).Error; err != nil {
			return fmt.Errorf("failed to create amenity %s: %w", a.Name, err)
		}
		amenityIDs[a.Name] = amenity.ID
	}

	for _, r := range o.Rooms {
		room := hotels.Room{
			OutletID:        outletID,
			CategoryID:      categoryIDs[r.Category],
			Number:          r.Number,
			Price:           r.Price,
			Capacity:        r.Capacity,
			Status:          r.Status,
			MaintenanceNote: r.Note,
		}
		if room.Status == "" {
			room.Status = hotels.RoomStatusAvailable
		}
		for _, a := range r.Amenities {
			room.AmenityIDs = append(room.AmenityIDs, amenityIDs[a])
		}
		if err := tx.Create(&room).Error; err != nil {
			return fmt.Errorf("failed to create room %s: %w", r.Number, err)
		}
	}
	fmt.Printf("    %d categories, %d amenities, %d rooms\n", len(o.Categories), len(o.Amenities), len(o.Rooms))
	return nil
}

func seedRestaurant(tx *gorm.DB, outletID uuid.UUID, o SeedOutlet) error {
	categoryIDs := make(map[string]uuid.UUID)
	subIDs := make(map[string]uuid.UUID)
	for _, c := range o.MenuCategories {
		category := restaurants.MenuCategory{OutletID: outletID, Name: c.Name, Description: c.Description}
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("failed to create menu category %s: %w", c.Name, err)
		}
		categoryIDs[c.Name] = category.ID
		for _, sc := range c.SubCategories {
			sub := restaurants.MenuSubCategory{OutletID: outletID, CategoryID: category.ID, Name: sc.Name, Description: sc.Description}
			if err := tx.Create(&sub).Error; err != nil {
				return fmt.Errorf("failed to create menu sub-category %s: %w", sc.Name, err)
			}
			subIDs[c.Name+"/"+sc.Name] = sub.ID
		}
	}

	for _, m := range o.Menu {
		item := restaurants.MenuItem{
			OutletID:    outletID,
			Name:        m.Name,
			Price:       m.Price,
			DietaryTags: datatypes.JSONSlice[string](m.Dietary),
			Available:   true,
		}
		if id, ok := categoryIDs[m.Category]; ok {
			item.CategoryID = &id
		}
		if id, ok := subIDs[m.Category+"/"+m.SubCategory]; ok {
			item.SubCategoryID = &id
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create menu item %s: %w", m.Name, err)
		}
	}
	fmt.Printf("    %d menu categories, %d menu items\n", len(o.MenuCategories), len(o.Menu))
	return nil
}

func seedTravel(tx *gorm.DB, outletID uuid.UUID, o SeedOutlet) error {
	for _, v := range o.Vehicles {
		vehicle := travel.Vehicle{
			OutletID:     outletID,
			Name:         v.Name,
			Type:         v.Type,
			Registration: strings.ToUpper(v.Registration),
			Capacity:     v.Capacity,
			Status:       v.Status,
		}
		if vehicle.Status == "" {
			vehicle.Status = travel.VehicleStatusActive
		}
		if err := tx.Create(&vehicle).Error; err != nil {
			return fmt.Errorf("failed to create vehicle %s: %w", v.Registration, err)
		}
	}
	for _, c := range o.Contacts {
		contact := travel.Contact{OutletID: outletID, Name: c.Name, Role: c.Role, Phone: c.Phone, Email: c.Email}
		if err := tx.Create(&contact).Error; err != nil {
			return fmt.Errorf("failed to create contact %s: %w", c.Name, err)
		}
	}
	fmt.Printf("    %d vehicles, %d contacts\n", len(o.Vehicles), len(o.Contacts))
	return nil
}
