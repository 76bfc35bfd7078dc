// Package scope holds gorm lookups for catalogue rows that belong to exactly one outlet.
package scope

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// First loads the outlet's row with the given id, returning notFound when there is none
func First[T any](ctx context.Context, db *gorm.DB, outletID, id uuid.UUID, notFound error) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("outlet_id = ? AND id = ?", outletID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &row, nil
}

func Update[T any](ctx context.Context, db *gorm.DB, outletID, id uuid.UUID, updates map[string]interface{}, notFound error) (*T, error) {
	var model T
	result := db.WithContext(ctx).Model(&model).Where("outlet_id = ? AND id = ?", outletID, id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, notFound
	}
	return First[T](ctx, db, outletID, id, notFound)
}

func Delete[T any](ctx context.Context, db *gorm.DB, outletID, id uuid.UUID, notFound error) error {
	var model T
	result := db.WithContext(ctx).Where("outlet_id = ? AND id = ?", outletID, id).Delete(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// Count counts the outlet's rows of T matching column = value
func Count[T any](ctx context.Context, db *gorm.DB, outletID uuid.UUID, column string, value interface{}) (int64, error) {
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where("outlet_id = ? AND "+column+" = ?", outletID, value).
		Count(&count).Error
	return count, err
}
