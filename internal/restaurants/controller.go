package restaurants

import (
	"errors"
	"net/http"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/utils/response"
	"outletdesk/pkg/logger"

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
	case errors.Is(err, ErrMenuItemNotFound), errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrMenuCategoryNotFound), errors.Is(err, ErrMenuSubCategoryNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, ErrMenuCategoryInUse), errors.Is(err, ErrMenuSubCategoryInUse):
		statusCode = http.StatusConflict
	case errors.Is(err, ErrInvalidTransition):
		statusCode = http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnknownMenuItem), errors.Is(err, ErrMenuItemUnavailable),
		errors.Is(err, ErrUnknownMenuCategory), errors.Is(err, ErrSubCategoryMismatch):
		statusCode = http.StatusBadRequest
	}
	if statusCode == http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(ctx, err, statusCode)
		response.RespondJSON(ctx, "error", statusCode, message, nil, "internal server error")
		return
	}
	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}

// MENU CATEGORIES

func (c *Controller) ListMenuCategories(ctx *gin.Context) {
	categories, err := c.service.ListMenuCategories(ctx.Request.Context(), outlets.OutletID(ctx))
	if err != nil {
		respondError(ctx, "Failed to get menu categories", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu categories retrieved successfully", categories, nil)
}

func (c *Controller) GetMenuCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu category")
	if !ok {
		return
	}
	category, err := c.service.GetMenuCategory(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get menu category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu category retrieved successfully", category, nil)
}

func (c *Controller) CreateMenuCategory(ctx *gin.Context) {
	var req CreateMenuCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	category, err := c.service.CreateMenuCategory(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create menu category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Menu category created successfully", category, nil)
}

func (c *Controller) UpdateMenuCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu category")
	if !ok {
		return
	}
	var req UpdateMenuCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	category, err := c.service.UpdateMenuCategory(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update menu category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu category updated successfully", category, nil)
}

func (c *Controller) DeleteMenuCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu category")
	if !ok {
		return
	}
	if err := c.service.DeleteMenuCategory(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete menu category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu category deleted successfully", nil, nil)
}

// MENU SUB-CATEGORIES

func (c *Controller) ListMenuSubCategories(ctx *gin.Context) {
	var query MenuSubCategoryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	subs, err := c.service.ListMenuSubCategories(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to get menu sub-categories", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu sub-categories retrieved successfully", subs, nil)
}

func (c *Controller) GetMenuSubCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu sub-category")
	if !ok {
		return
	}
	sub, err := c.service.GetMenuSubCategory(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get menu sub-category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu sub-category retrieved successfully", sub, nil)
}

func (c *Controller) CreateMenuSubCategory(ctx *gin.Context) {
	var req CreateMenuSubCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	sub, err := c.service.CreateMenuSubCategory(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create menu sub-category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Menu sub-category created successfully", sub, nil)
}

func (c *Controller) UpdateMenuSubCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu sub-category")
	if !ok {
		return
	}
	var req UpdateMenuSubCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	sub, err := c.service.UpdateMenuSubCategory(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update menu sub-category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu sub-category updated successfully", sub, nil)
}

func (c *Controller) DeleteMenuSubCategory(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu sub-category")
	if !ok {
		return
	}
	if err := c.service.DeleteMenuSubCategory(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete menu sub-category", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu sub-category deleted successfully", nil, nil)
}

// MENU ITEMS

func (c *Controller) ListMenuItems(ctx *gin.Context) {
	var query MenuQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	items, err := c.service.ListMenuItems(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to get menu items", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu items retrieved successfully", items, nil)
}

func (c *Controller) GetMenuItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu item")
	if !ok {
		return
	}
	item, err := c.service.GetMenuItem(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get menu item", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu item retrieved successfully", item, nil)
}

func (c *Controller) CreateMenuItem(ctx *gin.Context) {
	var req CreateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	item, err := c.service.CreateMenuItem(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create menu item", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Menu item created successfully", item, nil)
}

func (c *Controller) UpdateMenuItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu item")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	item, err := c.service.UpdateMenuItem(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update menu item", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu item updated successfully", item, nil)
}

func (c *Controller) DeleteMenuItem(ctx *gin.Context) {
	id, ok := pathID(ctx, "menu item")
	if !ok {
		return
	}
	if err := c.service.DeleteMenuItem(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete menu item", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Menu item deleted successfully", nil, nil)
}

// ORDERS

func (c *Controller) ListOrders(ctx *gin.Context) {
	var query OrderListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	query.Page, query.Limit = response.NormalizePage(query.Page, query.Limit)

	orders, total, err := c.service.ListOrders(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to get orders", err)
		return
	}
	response.RespondPaginated(ctx, http.StatusOK, "Orders retrieved successfully", orders, query.Page, query.Limit, total)
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	id, ok := pathID(ctx, "order")
	if !ok {
		return
	}
	order, err := c.service.GetOrder(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get order", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Order retrieved successfully", order, nil)
}

func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	order, err := c.service.CreateOrder(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create order", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Order "+order.Number+" created successfully", order, nil)
}

func (c *Controller) UpdateOrder(ctx *gin.Context) {
	id, ok := pathID(ctx, "order")
	if !ok {
		return
	}
	var req UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	order, err := c.service.UpdateOrder(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update order", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Order updated successfully", order, nil)
}

// AdvanceOrder handles POST /outlets/:outletID/restaurant/orders/:id/advance
func (c *Controller) AdvanceOrder(ctx *gin.Context) {
	id, ok := pathID(ctx, "order")
	if !ok {
		return
	}
	order, err := c.service.AdvanceOrder(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to advance order", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Order is now "+string(order.Status), order, nil)
}

func (c *Controller) DeleteOrder(ctx *gin.Context) {
	id, ok := pathID(ctx, "order")
	if !ok {
		return
	}
	if err := c.service.DeleteOrder(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete order", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Order deleted successfully", nil, nil)
}

// GetKOT handles GET /outlets/:outletID/restaurant/kot
func (c *Controller) GetKOT(ctx *gin.Context) {
	kot, err := c.service.KOT(ctx.Request.Context(), outlets.OutletID(ctx))
	if err != nil {
		respondError(ctx, "Failed to get kitchen orders", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Kitchen orders retrieved successfully", kot, nil)
}
