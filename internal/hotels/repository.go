package hotels

import (
	"context"
	"errors"

	"outletdesk/internal/shared/utils/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListCategories(ctx context.Context, outletID uuid.UUID) ([]Category, error)
	GetCategory(ctx context.Context, outletID, id uuid.UUID) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	UpdateCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Category, error)
	DeleteCategory(ctx context.Context, outletID, id uuid.UUID) error
	CountRoomsInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error)

	ListAmenities(ctx context.Context, outletID uuid.UUID) ([]Amenity, error)
	GetAmenity(ctx context.Context, outletID, id uuid.UUID) (*Amenity, error)
	CountAmenities(ctx context.Context, outletID uuid.UUID, ids []uuid.UUID) (int64, error)
	CreateAmenity(ctx context.Context, amenity *Amenity) error
	UpdateAmenity(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Amenity, error)
	DeleteAmenity(ctx context.Context, outletID, id uuid.UUID) error

	ListRooms(ctx context.Context, outletID uuid.UUID) ([]Room, error)
	GetRoom(ctx context.Context, outletID, id uuid.UUID) (*Room, error)
	CreateRoom(ctx context.Context, room *Room) error
	UpdateRoom(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Room, error)
	DeleteRoom(ctx context.Context, outletID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Categories

func (r *repository) ListCategories(ctx context.Context, outletID uuid.UUID) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Where("outlet_id = ?", outletID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *repository) GetCategory(ctx context.Context, outletID, id uuid.UUID) (*Category, error) {
	return scope.First[Category](ctx, r.db, outletID, id, ErrCategoryNotFound)
}

func (r *repository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) UpdateCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Category, error) {
	return scope.Update[Category](ctx, r.db, outletID, id, updates, ErrCategoryNotFound)
}

func (r *repository) DeleteCategory(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[Category](ctx, r.db, outletID, id, ErrCategoryNotFound)
}

func (r *repository) CountRoomsInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Room{}).
		Where("outlet_id = ? AND category_id = ?", outletID, categoryID).
		Count(&count).Error
	return count, err
}

// Amenities

func (r *repository) ListAmenities(ctx context.Context, outletID uuid.UUID) ([]Amenity, error) {
	var amenities []Amenity
	err := r.db.WithContext(ctx).Where("outlet_id = ?", outletID).Order("name ASC").Find(&amenities).Error
	return amenities, err
}

func (r *repository) GetAmenity(ctx context.Context, outletID, id uuid.UUID) (*Amenity, error) {
	return scope.First[Amenity](ctx, r.db, outletID, id, ErrAmenityNotFound)
}

func (r *repository) CountAmenities(ctx context.Context, outletID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Amenity{}).
		Where("outlet_id = ? AND id IN ?", outletID, ids).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateAmenity(ctx context.Context, amenity *Amenity) error {
	return r.db.WithContext(ctx).Create(amenity).Error
}

func (r *repository) UpdateAmenity(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Amenity, error) {
	return scope.Update[Amenity](ctx, r.db, outletID, id, updates, ErrAmenityNotFound)
}

func (r *repository) DeleteAmenity(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[Amenity](ctx, r.db, outletID, id, ErrAmenityNotFound)
}

// Rooms

func (r *repository) ListRooms(ctx context.Context, outletID uuid.UUID) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("outlet_id = ?", outletID).
		Order("number ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *repository) GetRoom(ctx context.Context, outletID, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("outlet_id = ? AND id = ?", outletID, id).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *repository) UpdateRoom(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Room, error) {
	result := r.db.WithContext(ctx).Model(&Room{}).Where("outlet_id = ? AND id = ?", outletID, id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRoomNotFound
	}
	return r.GetRoom(ctx, outletID, id)
}

func (r *repository) DeleteRoom(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[Room](ctx, r.db, outletID, id, ErrRoomNotFound)
}
