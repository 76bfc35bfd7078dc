package travel

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
	case errors.Is(err, ErrVehicleNotFound), errors.Is(err, ErrContactNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
	}
	response.RespondJSON(ctx, "error", statusCode, message, nil, err.Error())
}

// VEHICLES

func (c *Controller) ListVehicles(ctx *gin.Context) {
	var query VehicleQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	vehicles, err := c.service.ListVehicles(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to get vehicles", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicles retrieved successfully", vehicles, nil)
}

func (c *Controller) GetVehicle(ctx *gin.Context) {
	id, ok := pathID(ctx, "vehicle")
	if !ok {
		return
	}
	vehicle, err := c.service.GetVehicle(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get vehicle", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle retrieved successfully", vehicle, nil)
}

func (c *Controller) CreateVehicle(ctx *gin.Context) {
	var req CreateVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	vehicle, err := c.service.CreateVehicle(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create vehicle", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Vehicle created successfully", vehicle, nil)
}

func (c *Controller) UpdateVehicle(ctx *gin.Context) {
	id, ok := pathID(ctx, "vehicle")
	if !ok {
		return
	}
	var req UpdateVehicleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	vehicle, err := c.service.UpdateVehicle(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update vehicle", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle updated successfully", vehicle, nil)
}

func (c *Controller) DeleteVehicle(ctx *gin.Context) {
	id, ok := pathID(ctx, "vehicle")
	if !ok {
		return
	}
	if err := c.service.DeleteVehicle(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete vehicle", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Vehicle deleted successfully", nil, nil)
}

// CONTACTS

func (c *Controller) ListContacts(ctx *gin.Context) {
	contacts, err := c.service.ListContacts(ctx.Request.Context(), outlets.OutletID(ctx), ctx.Query("search"))
	if err != nil {
		respondError(ctx, "Failed to get contacts", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contacts retrieved successfully", contacts, nil)
}

func (c *Controller) GetContact(ctx *gin.Context) {
	id, ok := pathID(ctx, "contact")
	if !ok {
		return
	}
	contact, err := c.service.GetContact(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get contact", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact retrieved successfully", contact, nil)
}

func (c *Controller) CreateContact(ctx *gin.Context) {
	var req CreateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	contact, err := c.service.CreateContact(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create contact", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Contact created successfully", contact, nil)
}

func (c *Controller) UpdateContact(ctx *gin.Context) {
	id, ok := pathID(ctx, "contact")
	if !ok {
		return
	}
	var req UpdateContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	contact, err := c.service.UpdateContact(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to update contact", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact updated successfully", contact, nil)
}

func (c *Controller) DeleteContact(ctx *gin.Context) {
	id, ok := pathID(ctx, "contact")
	if !ok {
		return
	}
	if err := c.service.DeleteContact(ctx.Request.Context(), outlets.OutletID(ctx), id); err != nil {
		respondError(ctx, "Failed to delete contact", err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Contact deleted successfully", nil, nil)
}
