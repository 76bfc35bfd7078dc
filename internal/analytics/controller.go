package analytics

import (
	"errors"
	"net/http"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/utils/response"
	"outletdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.service.GetDashboard(ctx.Request.Context(), outlets.OutletID(ctx), outlets.Type(ctx))
	if err != nil {
		if errors.Is(err, ErrUnknownOutletType) {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unsupported outlet type", nil, err.Error())
			return
		}
		logger.GetDefault().LogHTTPError(ctx, err, http.StatusInternalServerError)
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load dashboard", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", dashboard, nil)
}
