package restaurants

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MenuCategory is a top-level section of the menu, e.g. Pizza or Desserts
type MenuCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID    uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;uniqueIndex:idx_menu_category_outlet_name"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_menu_category_outlet_name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SubCategories []MenuSubCategory `json:"sub_categories,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (MenuCategory) TableName() string {
	return "menu_categories"
}

type MenuSubCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID    uuid.UUID `json:"outlet_id" gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:uuid;not null;uniqueIndex:idx_menu_sub_category_name"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_menu_sub_category_name"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MenuSubCategory) TableName() string {
	return "menu_sub_categories"
}

// MenuItem may sit in a category and, within it, a sub-category; both are optional
type MenuItem struct {
	ID            uuid.UUID                   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID      uuid.UUID                   `json:"outlet_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_menu_outlet_name"`
	Name          string                      `json:"name" gorm:"not null;uniqueIndex:idx_menu_outlet_name"`
	CategoryID    *uuid.UUID                  `json:"category_id" gorm:"type:uuid;index"`
	SubCategoryID *uuid.UUID                  `json:"sub_category_id" gorm:"type:uuid;index"`
	Description   string                      `json:"description"`
	Price         float64                     `json:"price" gorm:"not null;check:price >= 0"`
	DietaryTags   datatypes.JSONSlice[string] `json:"dietary_tags" gorm:"type:jsonb"`
	Available     bool                        `json:"available" gorm:"not null;default:true"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	Category    *MenuCategory    `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	SubCategory *MenuSubCategory `json:"sub_category,omitempty" gorm:"foreignKey:SubCategoryID;constraint:OnDelete:RESTRICT"`
}

// categoryName is "" for an uncategorised item or one loaded without its category
func (m MenuItem) categoryName() string {
	if m.Category == nil {
		return ""
	}
	return m.Category.Name
}

func (m MenuItem) subCategoryName() string {
	if m.SubCategory == nil {
		return ""
	}
	return m.SubCategory.Name
}

func (MenuItem) TableName() string {
	return "menu_items"
}

type Order struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OutletID     uuid.UUID   `json:"outlet_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_order_outlet_number"`
	Number       string      `json:"order_number" gorm:"type:varchar(20);not null;uniqueIndex:idx_order_outlet_number"`
	CustomerName string      `json:"customer_name"`
	Table        string      `json:"table" gorm:"column:table_number"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Total        float64     `json:"total" gorm:"not null"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots the menu item's name and price at ordering time
type OrderItem struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID    uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID `json:"menu_item_id" gorm:"type:uuid;not null"`
	Name       string    `json:"name" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Price      float64   `json:"price" gorm:"not null"`
	Total      float64   `json:"total" gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderSequence holds the last order number issued per outlet
type OrderSequence struct {
	OutletID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Last     int       `gorm:"not null;default:0"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}

func FormatOrderNumber(seq int) string {
	return fmt.Sprintf("ORD%03d", seq)
}

// OrderTotal is Σ quantity × price
func OrderTotal(items []OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Total
	}
	return total
}
