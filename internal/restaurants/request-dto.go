package restaurants

type CreateMenuCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=60"`
	Description string `json:"description" binding:"max=500"`
	Image       string `json:"image" binding:"omitempty,url,max=500"`
}

type UpdateMenuCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=60"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Image       *string `json:"image,omitempty" binding:"omitempty,url,max=500"`
}

type CreateMenuSubCategoryRequest struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,min=1,max=60"`
	Description string `json:"description" binding:"max=500"`
	Image       string `json:"image" binding:"omitempty,url,max=500"`
}

type UpdateMenuSubCategoryRequest struct {
	CategoryID  *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=60"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Image       *string `json:"image,omitempty" binding:"omitempty,url,max=500"`
}

type MenuSubCategoryQuery struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
}

// CategoryID and SubCategoryID are optional; a sub-category alone implies its category
type CreateMenuItemRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=120"`
	CategoryID    string   `json:"category_id" binding:"omitempty,uuid"`
	SubCategoryID string   `json:"sub_category_id" binding:"omitempty,uuid"`
	Description   string   `json:"description" binding:"max=500"`
	Price         float64  `json:"price" binding:"gte=0"`
	DietaryTags   []string `json:"dietary_tags" binding:"omitempty,max=10,dive,min=1,max=30"`
	Available     *bool    `json:"available,omitempty"`
}

// An empty CategoryID or SubCategoryID clears it
type UpdateMenuItemRequest struct {
	Name          *string   `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	CategoryID    *string   `json:"category_id,omitempty" binding:"omitempty,uuid"`
	SubCategoryID *string   `json:"sub_category_id,omitempty" binding:"omitempty,uuid"`
	Description   *string   `json:"description,omitempty" binding:"omitempty,max=500"`
	Price         *float64  `json:"price,omitempty" binding:"omitempty,gte=0"`
	DietaryTags   *[]string `json:"dietary_tags,omitempty" binding:"omitempty,max=10,dive,min=1,max=30"`
	Available     *bool     `json:"available,omitempty"`
}

// Category and SubCategory match either an id or a name
type MenuQuery struct {
	Category    string `form:"category"`
	SubCategory string `form:"sub_category"`
	Dietary     string `form:"dietary"`
	Available   *bool  `form:"available"`
	Search      string `form:"search"`
}

type OrderItemRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"gte=0,max=100"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"max=120"`
	Table        string             `json:"table" binding:"max=20"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
}

type UpdateOrderRequest struct {
	CustomerName *string      `json:"customer_name,omitempty" binding:"omitempty,max=120"`
	Table        *string      `json:"table,omitempty" binding:"omitempty,max=20"`
	Status       *OrderStatus `json:"status,omitempty" binding:"omitempty,oneof=pending preparing ready delivered cancelled"`
}

type OrderListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending preparing ready delivered cancelled"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
