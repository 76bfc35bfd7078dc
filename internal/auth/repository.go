package auth

import (
	"context"
	"errors"

	"outletdesk/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads and updates desk accounts. E-mails are passed in normalized form.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*users.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) (*users.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *repository) first(q *gorm.DB) (*users.User, error) {
	var user users.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) (*users.User, error) {
	result := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"full_name": fullName, "phone": phone})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}
