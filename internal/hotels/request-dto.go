package hotels

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
}

type CreateAmenityRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Icon        string `json:"icon" binding:"max=50"`
}

type UpdateAmenityRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Icon        *string `json:"icon,omitempty" binding:"omitempty,max=50"`
}

type CreateRoomRequest struct {
	Number     string   `json:"number" binding:"required,min=1,max=20"`
	CategoryID string   `json:"category_id" binding:"required,uuid"`
	Price      float64  `json:"price" binding:"gte=0"`
	Capacity   int      `json:"capacity" binding:"required,min=1,max=50"`
	AmenityIDs []string `json:"amenity_ids" binding:"omitempty,dive,uuid"`
}

type UpdateRoomRequest struct {
	Number     *string   `json:"number,omitempty" binding:"omitempty,min=1,max=20"`
	CategoryID *string   `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Price      *float64  `json:"price,omitempty" binding:"omitempty,gte=0"`
	Capacity   *int      `json:"capacity,omitempty" binding:"omitempty,min=1,max=50"`
	AmenityIDs *[]string `json:"amenity_ids,omitempty" binding:"omitempty,dive,uuid"`
}

// UpdateRoomStatusRequest is the housekeeping toggle, e.g. "Mark as Ready"
type UpdateRoomStatusRequest struct {
	Status RoomStatus `json:"status" binding:"required,oneof=available occupied maintenance"`
	Note   string     `json:"note" binding:"max=500"`
}

// RoomListQuery is bound from ?category_id=&capacity=2,3&status=&search=&sort=price_asc
type RoomListQuery struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	Capacity   string `form:"capacity"`
	Status     string `form:"status" binding:"omitempty,oneof=available occupied maintenance"`
	Search     string `form:"search"`
	Sort       string `form:"sort" binding:"omitempty,oneof=price_asc price_desc"`
}

func (q RoomListQuery) ToFilter() RoomFilter {
	f := RoomFilter{
		Capacities: ParseCapacities(q.Capacity),
		Status:     RoomStatus(q.Status),
		Search:     q.Search,
		Sort:       PriceSort(q.Sort),
	}
	if q.CategoryID != "" {
		f.CategoryID = parseUUIDOrNil(q.CategoryID)
	}
	return f
}
