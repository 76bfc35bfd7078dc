package travel

import (
	"context"
	"strings"

	"outletdesk/internal/shared/utils/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListVehicles(ctx context.Context, outletID uuid.UUID, query VehicleQuery) ([]Vehicle, error)
	GetVehicle(ctx context.Context, outletID, id uuid.UUID) (*Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle *Vehicle) error
	UpdateVehicle(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, outletID, id uuid.UUID) error

	ListContacts(ctx context.Context, outletID uuid.UUID, search string) ([]Contact, error)
	GetContact(ctx context.Context, outletID, id uuid.UUID) (*Contact, error)
	CreateContact(ctx context.Context, contact *Contact) error
	UpdateContact(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Contact, error)
	DeleteContact(ctx context.Context, outletID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListVehicles(ctx context.Context, outletID uuid.UUID, query VehicleQuery) ([]Vehicle, error) {
	db := r.db.WithContext(ctx).Where("outlet_id = ?", outletID)
	if query.Type != "" {
		db = db.Where("type = ?", query.Type)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(registration) LIKE ?", like, like)
	}

	var vehicles []Vehicle
	err := db.Order("name ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *repository) GetVehicle(ctx context.Context, outletID, id uuid.UUID) (*Vehicle, error) {
	return scope.First[Vehicle](ctx, r.db, outletID, id, ErrVehicleNotFound)
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle *Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *repository) UpdateVehicle(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Vehicle, error) {
	return scope.Update[Vehicle](ctx, r.db, outletID, id, updates, ErrVehicleNotFound)
}

func (r *repository) DeleteVehicle(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[Vehicle](ctx, r.db, outletID, id, ErrVehicleNotFound)
}

func (r *repository) ListContacts(ctx context.Context, outletID uuid.UUID, search string) ([]Contact, error) {
	db := r.db.WithContext(ctx).Where("outlet_id = ?", outletID)
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(role) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var contacts []Contact
	err := db.Order("name ASC").Find(&contacts).Error
	return contacts, err
}

func (r *repository) GetContact(ctx context.Context, outletID, id uuid.UUID) (*Contact, error) {
	return scope.First[Contact](ctx, r.db, outletID, id, ErrContactNotFound)
}

func (r *repository) CreateContact(ctx context.Context, contact *Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *repository) UpdateContact(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Contact, error) {
	return scope.Update[Contact](ctx, r.db, outletID, id, updates, ErrContactNotFound)
}

func (r *repository) DeleteContact(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[Contact](ctx, r.db, outletID, id, ErrContactNotFound)
}
