package outlets

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"outletdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	MyOutlets(c *gin.Context)
	SelectOutlet(c *gin.Context)
	GetState(c *gin.Context)
	SaveState(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func (ctrl *controller) MyOutlets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	page, limit = response.NormalizePage(page, limit)

	resp, err := ctrl.service.MyOutlets(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch outlets", nil, nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (ctrl *controller) SelectOutlet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SelectOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	outlet, err := ctrl.service.SelectOutlet(c.Request.Context(), userID, uuid.MustParse(req.OutletID))
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to select outlet", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Outlet selected", outlet, nil)
}

func (ctrl *controller) GetState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	snapshot, err := ctrl.service.GetState(c.Request.Context(), userID, c.Param("store"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownStore):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, ErrStateNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load state", nil, nil)
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", snapshot)
}

func (ctrl *controller) SaveState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 256<<10))
	if err != nil || !json.Valid(body) {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, nil)
		return
	}

	if err := ctrl.service.SaveState(c.Request.Context(), userID, c.Param("store"), body); err != nil {
		switch {
		case errors.Is(err, ErrUnknownStore), errors.Is(err, ErrInvalidSnapshot):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to save state", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "State saved", nil, nil)
}
