package bookings

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/utils/response"
	"outletdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

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

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrNoActiveBooking):
		return http.StatusNotFound
	case errors.Is(err, ErrRoomUnavailable), errors.Is(err, ErrRoomLocked):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrChargeNotAllowed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrDuplicateRoom),
		errors.Is(err, ErrRoomNotInOutlet), errors.Is(err, ErrInvalidCharge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondError(ctx *gin.Context, message string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(ctx, err, code)
		response.RespondJSON(ctx, "error", code, message, nil, "internal server error")
		return
	}
	response.RespondJSON(ctx, "error", code, message, nil, err.Error())
}

// GetAvailability handles GET /outlets/:outletID/hotel/rooms/availability
func (c *Controller) GetAvailability(ctx *gin.Context) {
	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.Availability(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to compute availability", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", result, nil)
}

// EstimateBooking handles POST /outlets/:outletID/hotel/bookings/estimate
func (c *Controller) EstimateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	estimate, err := c.service.Estimate(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to estimate booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Estimate calculated successfully", estimate, nil)
}

// CreateBookings handles POST /outlets/:outletID/hotel/bookings
func (c *Controller) CreateBookings(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	created, err := c.service.CreateBookings(ctx.Request.Context(), outlets.OutletID(ctx), req)
	if err != nil {
		respondError(ctx, "Failed to create booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, fmt.Sprintf("%d booking(s) created successfully", len(created)), created, nil)
}

// ListBookings handles GET /outlets/:outletID/hotel/bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	query.Page, query.Limit = response.NormalizePage(query.Page, query.Limit)

	items, total, err := c.service.ListBookings(ctx.Request.Context(), outlets.OutletID(ctx), query)
	if err != nil {
		respondError(ctx, "Failed to get bookings", err)
		return
	}

	response.RespondPaginated(ctx, http.StatusOK, "Bookings retrieved successfully", items, query.Page, query.Limit, total)
}

// GetFolio handles GET /outlets/:outletID/hotel/bookings/:id and /:id/folio
func (c *Controller) GetFolio(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	folio, err := c.service.GetFolio(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to get booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Folio retrieved successfully", folio, nil)
}

// GetActiveBooking handles GET /outlets/:outletID/hotel/rooms/:id/active-booking
func (c *Controller) GetActiveBooking(ctx *gin.Context) {
	roomID, ok := pathID(ctx, "room")
	if !ok {
		return
	}

	folio, err := c.service.ActiveBooking(ctx.Request.Context(), outlets.OutletID(ctx), roomID)
	if err != nil {
		respondError(ctx, "Failed to get active booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Active booking retrieved successfully", folio, nil)
}

// AddCharge handles POST /outlets/:outletID/hotel/bookings/:id/charges
func (c *Controller) AddCharge(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	var req AddChargeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	folio, err := c.service.AddCharge(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to add charge", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Charge added successfully", folio, nil)
}

// CheckIn handles POST /outlets/:outletID/hotel/bookings/:id/check-in
func (c *Controller) CheckIn(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	folio, err := c.service.CheckIn(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to check in", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Guest checked in successfully", folio, nil)
}

// ExtendStay handles POST /outlets/:outletID/hotel/bookings/:id/extend
func (c *Controller) ExtendStay(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	var req ExtendStayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	folio, err := c.service.ExtendStay(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to extend stay", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Stay extended successfully", folio, nil)
}

// Checkout handles POST /outlets/:outletID/hotel/bookings/:id/checkout
func (c *Controller) Checkout(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	var req CheckoutRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
			return
		}
	}

	folio, err := c.service.Checkout(ctx.Request.Context(), outlets.OutletID(ctx), id, req)
	if err != nil {
		respondError(ctx, "Failed to check out", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Guest checked out successfully", folio, nil)
}

// CancelBooking handles POST /outlets/:outletID/hotel/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	id, ok := pathID(ctx, "booking")
	if !ok {
		return
	}

	folio, err := c.service.Cancel(ctx.Request.Context(), outlets.OutletID(ctx), id)
	if err != nil {
		respondError(ctx, "Failed to cancel booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", folio, nil)
}

// ExportBookings handles GET /outlets/:outletID/hotel/bookings/export
func (c *Controller) ExportBookings(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := c.service.ExportBookings(ctx.Request.Context(), outlets.OutletID(ctx), query, &buf); err != nil {
		respondError(ctx, "Failed to export bookings", err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format(DateLayout))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
