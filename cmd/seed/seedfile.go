package main

import (
	_ "embed"
	"fmt"
	"os"

	"outletdesk/internal/hotels"
	"outletdesk/internal/outlets"
	"outletdesk/internal/travel"
	"outletdesk/internal/users"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type SeedFile struct {
	Users   []SeedUser   `yaml:"users"`
	Outlets []SeedOutlet `yaml:"outlets"`
}

type SeedUser struct {
	Email    string         `yaml:"email"`
	Name     string         `yaml:"name"`
	Password string         `yaml:"password"`
	Role     users.Role     `yaml:"role"`
	Modules  []users.Module `yaml:"modules"`
}

type SeedOutlet struct {
	Name    string             `yaml:"name"`
	Type    outlets.OutletType `yaml:"type"`
	Address string             `yaml:"address"`
	Members []string           `yaml:"members"`

	Categories []SeedNamed `yaml:"categories"`
	Amenities  []SeedNamed `yaml:"amenities"`
	Rooms      []SeedRoom  `yaml:"rooms"`

	MenuCategories []SeedMenuCategory `yaml:"menu_categories"`
	Menu           []SeedMenuItem     `yaml:"menu"`

	Vehicles []SeedVehicle `yaml:"vehicles"`
	Contacts []SeedContact `yaml:"contacts"`
}

type SeedNamed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type SeedRoom struct {
	Number    string            `yaml:"number"`
	Category  string            `yaml:"category"`
	Price     float64           `yaml:"price"`
	Capacity  int               `yaml:"capacity"`
	Status    hotels.RoomStatus `yaml:"status"`
	Note      string            `yaml:"note"`
	Amenities []string          `yaml:"amenities"`
}

type SeedMenuCategory struct {
	Name          string      `yaml:"name"`
	Description   string      `yaml:"description"`
	SubCategories []SeedNamed `yaml:"sub_categories"`
}

type SeedMenuItem struct {
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	SubCategory string   `yaml:"sub_category"`
	Price       float64  `yaml:"price"`
	Dietary     []string `yaml:"dietary"`
}

type SeedVehicle struct {
	Name         string               `yaml:"name"`
	Type         travel.VehicleType   `yaml:"type"`
	Registration string               `yaml:"registration"`
	Capacity     int                  `yaml:"capacity"`
	Status       travel.VehicleStatus `yaml:"status"`
}

type SeedContact struct {
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

// LoadSeedFile reads path, or the embedded demo data when path is empty
func LoadSeedFile(path string) (*SeedFile, error) {
	data := defaultSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}
	return ParseSeedFile(data)
}

func ParseSeedFile(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}
	return &f, nil
}

// Validate checks cross references: members must be seeded users, rooms must
// name a category and amenities of their own outlet.
func (f *SeedFile) Validate() error {
	emails := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("user[%d]: email and password are required", i)
		}
		if !users.IsValidRole(string(u.Role)) {
			return fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
		if emails[u.Email] {
			return fmt.Errorf("user %s: duplicate email", u.Email)
		}
		emails[u.Email] = true
	}

	for _, o := range f.Outlets {
		if !o.Type.IsValid() {
			return fmt.Errorf("outlet %s: unknown type %q", o.Name, o.Type)
		}
		for _, m := range o.Members {
			if !emails[m] {
				return fmt.Errorf("outlet %s: member %s is not a seeded user", o.Name, m)
			}
		}

		categories := names(o.Categories)
		amenities := names(o.Amenities)
		for _, r := range o.Rooms {
			if !categories[r.Category] {
				return fmt.Errorf("outlet %s room %s: unknown category %q", o.Name, r.Number, r.Category)
			}
			for _, a := range r.Amenities {
				if !amenities[a] {
					return fmt.Errorf("outlet %s room %s: unknown amenity %q", o.Name, r.Number, a)
				}
			}
			if r.Capacity < 1 || r.Price < 0 {
				return fmt.Errorf("outlet %s room %s: capacity must be >= 1 and price >= 0", o.Name, r.Number)
			}
		}

		subs := make(map[string]map[string]bool, len(o.MenuCategories))
		for _, c := range o.MenuCategories {
			subs[c.Name] = names(c.SubCategories)
		}
		for _, m := range o.Menu {
			if m.Category == "" {
				if m.SubCategory != "" {
					return fmt.Errorf("outlet %s menu item %s: sub-category without a category", o.Name, m.Name)
				}
				continue
			}
			known, ok := subs[m.Category]
			if !ok {
				return fmt.Errorf("outlet %s menu item %s: unknown menu category %q", o.Name, m.Name, m.Category)
			}
			if m.SubCategory != "" && !known[m.SubCategory] {
				return fmt.Errorf("outlet %s menu item %s: unknown sub-category %q in %s", o.Name, m.Name, m.SubCategory, m.Category)
			}
		}
	}
	return nil
}

func names(items []SeedNamed) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it.Name] = true
	}
	return m
}
