package outlets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserOutlet, int64, error)
	FindMembership(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error)
	CreateOutlet(ctx context.Context, outlet *Outlet) error
	AddMember(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserOutlet, int64, error) {
	var (
		memberships []UserOutlet
		total       int64
	)

	query := r.db.WithContext(ctx).Model(&UserOutlet{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Outlet").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&memberships).Error
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

func (r *repository) FindMembership(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error) {
	var membership UserOutlet
	err := r.db.WithContext(ctx).
		Preload("Outlet").
		Where("user_id = ? AND outlet_id = ?", userID, outletID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return &membership, nil
}

func (r *repository) CreateOutlet(ctx context.Context, outlet *Outlet) error {
	return r.db.WithContext(ctx).Create(outlet).Error
}

func (r *repository) AddMember(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error) {
	membership := &UserOutlet{UserID: userID, OutletID: outletID}
	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}
