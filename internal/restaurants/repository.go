package restaurants

import (
	"context"
	"errors"
	"strings"

	"outletdesk/internal/shared/utils/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderMutateFunc edits an order inside the row lock; items are not rewritten
type OrderMutateFunc func(o *Order) error

type Repository interface {
	ListMenuCategories(ctx context.Context, outletID uuid.UUID) ([]MenuCategory, error)
	GetMenuCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuCategory, error)
	CreateMenuCategory(ctx context.Context, category *MenuCategory) error
	UpdateMenuCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuCategory, error)
	DeleteMenuCategory(ctx context.Context, outletID, id uuid.UUID) error
	ListMenuSubCategories(ctx context.Context, outletID uuid.UUID, categoryID *uuid.UUID) ([]MenuSubCategory, error)
	GetMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuSubCategory, error)
	CreateMenuSubCategory(ctx context.Context, sub *MenuSubCategory) error
	UpdateMenuSubCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuSubCategory, error)
	DeleteMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) error
	CountItemsInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error)
	CountSubCategoriesInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error)
	CountItemsInSubCategory(ctx context.Context, outletID, subCategoryID uuid.UUID) (int64, error)

	ListMenuItems(ctx context.Context, outletID uuid.UUID) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, outletID, id uuid.UUID) (*MenuItem, error)
	FindMenuItems(ctx context.Context, outletID uuid.UUID, ids []uuid.UUID) ([]MenuItem, error)
	CreateMenuItem(ctx context.Context, item *MenuItem) error
	UpdateMenuItem(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuItem, error)
	DeleteMenuItem(ctx context.Context, outletID, id uuid.UUID) error

	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, outletID uuid.UUID, query OrderListQuery) ([]Order, int64, error)
	ListOpenOrders(ctx context.Context, outletID uuid.UUID) ([]Order, error)
	MutateOrder(ctx context.Context, outletID, id uuid.UUID, fn OrderMutateFunc) (*Order, error)
	DeleteOrder(ctx context.Context, outletID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Menu categories

func (r *repository) ListMenuCategories(ctx context.Context, outletID uuid.UUID) ([]MenuCategory, error) {
	var categories []MenuCategory
	err := r.db.WithContext(ctx).
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("outlet_id = ?", outletID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *repository) GetMenuCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuCategory, error) {
	return scope.First[MenuCategory](ctx, r.db, outletID, id, ErrMenuCategoryNotFound)
}

func (r *repository) CreateMenuCategory(ctx context.Context, category *MenuCategory) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *repository) UpdateMenuCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuCategory, error) {
	return scope.Update[MenuCategory](ctx, r.db, outletID, id, updates, ErrMenuCategoryNotFound)
}

func (r *repository) DeleteMenuCategory(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[MenuCategory](ctx, r.db, outletID, id, ErrMenuCategoryNotFound)
}

func (r *repository) ListMenuSubCategories(ctx context.Context, outletID uuid.UUID, categoryID *uuid.UUID) ([]MenuSubCategory, error) {
	db := r.db.WithContext(ctx).Where("outlet_id = ?", outletID)
	if categoryID != nil {
		db = db.Where("category_id = ?", *categoryID)
	}
	var subs []MenuSubCategory
	err := db.Order("name ASC").Find(&subs).Error
	return subs, err
}

func (r *repository) GetMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) (*MenuSubCategory, error) {
	return scope.First[MenuSubCategory](ctx, r.db, outletID, id, ErrMenuSubCategoryNotFound)
}

func (r *repository) CreateMenuSubCategory(ctx context.Context, sub *MenuSubCategory) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) UpdateMenuSubCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuSubCategory, error) {
	return scope.Update[MenuSubCategory](ctx, r.db, outletID, id, updates, ErrMenuSubCategoryNotFound)
}

func (r *repository) DeleteMenuSubCategory(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[MenuSubCategory](ctx, r.db, outletID, id, ErrMenuSubCategoryNotFound)
}

func (r *repository) CountItemsInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error) {
	return scope.Count[MenuItem](ctx, r.db, outletID, "category_id", categoryID)
}

func (r *repository) CountSubCategoriesInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error) {
	return scope.Count[MenuSubCategory](ctx, r.db, outletID, "category_id", categoryID)
}

func (r *repository) CountItemsInSubCategory(ctx context.Context, outletID, subCategoryID uuid.UUID) (int64, error) {
	return scope.Count[MenuItem](ctx, r.db, outletID, "sub_category_id", subCategoryID)
}

// Menu items

func (r *repository) ListMenuItems(ctx context.Context, outletID uuid.UUID) ([]MenuItem, error) {
	var items []MenuItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Where("outlet_id = ?", outletID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) GetMenuItem(ctx context.Context, outletID, id uuid.UUID) (*MenuItem, error) {
	var item MenuItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("SubCategory").
		Where("outlet_id = ? AND id = ?", outletID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindMenuItems(ctx context.Context, outletID uuid.UUID, ids []uuid.UUID) ([]MenuItem, error) {
	var items []MenuItem
	err := r.db.WithContext(ctx).Where("outlet_id = ? AND id IN ?", outletID, ids).Find(&items).Error
	return items, err
}

func (r *repository) CreateMenuItem(ctx context.Context, item *MenuItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *repository) UpdateMenuItem(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*MenuItem, error) {
	result := r.db.WithContext(ctx).Model(&MenuItem{}).Where("outlet_id = ? AND id = ?", outletID, id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrMenuItemNotFound
	}
	return r.GetMenuItem(ctx, outletID, id)
}

func (r *repository) DeleteMenuItem(ctx context.Context, outletID, id uuid.UUID) error {
	return scope.Delete[MenuItem](ctx, r.db, outletID, id, ErrMenuItemNotFound)
}

// Orders

// nextOrderNumber bumps the outlet's counter; the upsert serialises concurrent orders of one outlet
func nextOrderNumber(tx *gorm.DB, outletID uuid.UUID) (string, error) {
	var last int
	err := tx.Raw(`INSERT INTO order_sequences (outlet_id, last) VALUES (?, 1)
		ON CONFLICT (outlet_id) DO UPDATE SET last = order_sequences.last + 1
		RETURNING last`, outletID).Scan(&last).Error
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(last), nil
}

func (r *repository) CreateOrder(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, order.OutletID)
		if err != nil {
			return err
		}
		order.Number = number
		return tx.Create(order).Error
	})
}

func (r *repository) GetOrder(ctx context.Context, outletID, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("outlet_id = ? AND id = ?", outletID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrders(ctx context.Context, outletID uuid.UUID, query OrderListQuery) ([]Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&Order{}).Where("outlet_id = ?", outletID)
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(table_number) LIKE ?", like, like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := db.Preload("Items").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *repository) ListOpenOrders(ctx context.Context, outletID uuid.UUID) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("outlet_id = ? AND status IN ?", outletID, []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) MutateOrder(ctx context.Context, outletID, id uuid.UUID, fn OrderMutateFunc) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("outlet_id = ? AND id = ?", outletID, id).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if err := fn(&order); err != nil {
			return err
		}
		return tx.Model(&order).Updates(map[string]interface{}{
			"customer_name": order.CustomerName,
			"table_number":  order.Table,
			"status":        order.Status,
			"delivered_at":  order.DeliveredAt,
			"cancelled_at":  order.CancelledAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrder(ctx, outletID, id)
}

func (r *repository) DeleteOrder(ctx context.Context, outletID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("outlet_id = ? AND id = ?", outletID, id).Delete(&Order{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
