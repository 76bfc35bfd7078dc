package outlets

import (
	"errors"
	"net/http"

	"outletdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxOutletID   = "outlet_id"
	ctxOutletType = "outlet_type"
)

// RequireOutletAccess admits the request only when the caller belongs to :outletID
func RequireOutletAccess(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		outletID, err := uuid.Parse(c.Param("outletID"))
		if err != nil {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid outlet ID", nil, nil)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(c.GetString("user_id"))
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
			c.Abort()
			return
		}

		outlet, err := svc.Authorize(c.Request.Context(), userID, outletID)
		if err != nil {
			if errors.Is(err, ErrNotMember) {
				response.RespondJSON(c, "error", http.StatusForbidden, "You do not have access to this outlet", nil, nil)
			} else {
				response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to verify outlet access", nil, nil)
			}
			c.Abort()
			return
		}

		c.Set(ctxOutletID, outlet.ID)
		c.Set(ctxOutletType, outlet.Type)
		c.Next()
	}
}

// RequireOutletType rejects outlets of another vertical, e.g. hotel routes on a restaurant
func RequireOutletType(t OutletType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if got, _ := c.Get(ctxOutletType); got != t {
			response.RespondJSON(c, "error", http.StatusNotFound, "This outlet does not offer "+string(t)+" operations", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OutletID returns the outlet resolved by RequireOutletAccess
func OutletID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ctxOutletID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// Type returns the outlet type resolved by RequireOutletAccess
func Type(c *gin.Context) OutletType {
	t, _ := c.Get(ctxOutletType)
	ot, _ := t.(OutletType)
	return ot
}

// SetOutletContext is used by handler tests to stand in for RequireOutletAccess
func SetOutletContext(c *gin.Context, outletID uuid.UUID, t OutletType) {
	c.Set(ctxOutletID, outletID)
	c.Set(ctxOutletType, t)
}
