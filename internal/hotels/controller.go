package hotels

import (
	"errors"
	"net/http"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func pathID(ctx *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid "+what+" ID", nil, "malformed "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func respondError(ctx *gin.Context, message string, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrCategoryNotFound), errors.Is(err, ErrAmenityNotFound), errors.Is(err, ErrRoomNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, ErrCategoryInUse), errors.Is(err, ErrRoomHasBookings), errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
	case errors.Is(err, ErrUnknownAmenity), errors.Is(err, ErrInvalidStatus):
		statusCode = http.StatusBadRequest
	}
	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}

// ROOM CATEGORIES

func (c *Controller) ListCategories(ctx *gin.Context) {
	categories, err := c.service.ListCategories(ctx.Request.Context(), outlets.OutletID(ctx))
	if err != nil {
		respondError(ctx, "Failed to get categories", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Categories retrieved successfully", categories, nil)
}

func (c *Controller) GetCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "category")
	if !ok {
		return
	}
	category, err := c.service.GetCategory(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category retrieved successfully", category, nil)
}

func (c *Controller) CreateCategory(ctx *gin.Context) {
	var req CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	category, err := c.service.CreateCategory(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Category created successfully", category, nil)
}

func (c *Controller) UpdateCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "category")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	category, err := c.service.UpdateCategory(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category updated successfully", category, nil)
}

func (c *Controller) DeleteCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "category")
	if !ok {
		return
	}
	if err := c.service.DeleteCategory(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Category deleted successfully", nil, nil)
}

// AMENITIES

func (c *Controller) ListAmenities(ctx *gin.Context) {
	amenities, err := c.service.ListAmenities(ctx.Request.Context(), outlets.OutletID(ctx))
	if err != nil {
		respondError(ctx, "Failed to get amenities", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Amenities retrieved successfully", amenities, nil)
}

func (c *Controller) GetAmenity(ctx *gin.Context) {
	id, ok := pathID(ctx, "amenity")
	if !ok {
		return
	}
	amenity, err := c.service.GetAmenity(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get amenity", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Amenity retrieved successfully", amenity, nil)
}

func (c *Controller) CreateAmenity(ctx *gin.Context) {
	var req CreateAmenityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	amenity, err := c.service.CreateAmenity(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create amenity", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Amenity created successfully", amenity, nil)
}

func (c *Controller) UpdateAmenity(ctx *gin.Context) {
	id, ok := pathID(ctx, "amenity")
	if !ok {
		return
	}
	var req UpdateAmenityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	amenity, err := c.service.UpdateAmenity(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update amenity", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Amenity updated successfully", amenity, nil)
}

func (c *Controller) DeleteAmenity(ctx *gin.Context) {
	id, ok := pathID(ctx, "amenity")
	if !ok {
		return
	}
	if err := c.service.DeleteAmenity(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete amenity", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Amenity deleted successfully", nil, nil)
}

// ROOMS

func (c *Controller) ListRooms(ctx *gin.Context) {
	var query RoomListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	rooms, err := c.service.ListRooms(ctx.Request.Context(), outlets.OutletID(ctx), query.ToFilter())
	if err != nil {
		respondError(ctx, "Failed to get rooms", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Rooms retrieved successfully", rooms, nil)
}

func (c *Controller) GetRoom(ctx *gin.Context) {
	id, ok := pathID(ctx, "room")
	if !ok {
		return
	}
	room, err := c.service.GetRoom(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get room", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room retrieved successfully", room, nil)
}

func (c *Controller) CreateRoom(ctx *gin.Context) {
	var req CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	room, err := c.service.CreateRoom(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create room", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Room created successfully", room, nil)
}

func (c *Controller) UpdateRoom(ctx *gin.Context) {
	id, ok := pathID(ctx, "room")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	room, err := c.service.UpdateRoom(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update room", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room updated successfully", room, nil)
}

func (c *Controller) UpdateRoomStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "room")
	if !ok {
		return
	}
	var req UpdateRoomStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	room, err := c.service.UpdateRoomStatus(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update room status", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room status updated successfully", room, nil)
}

func (c *Controller) DeleteRoom(ctx *gin.Context) {
	id, ok := pathID(ctx, "room")
	if !ok {
		return
	}
	if err := c.service.DeleteRoom(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete room", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Room deleted successfully", nil, nil)
}
