package bookings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestRouter(f *fixture, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hotel := r.Group("/outlets/:outletID/hotel", func(c *gin.Context) {
		outlets.SetOutletContext(c, f.outletID, outlets.OutletTypeHotel)
		c.Set("user_role", role)
		c.Next()
	})
	SetupBookingRoutes(hotel, NewController(f.svc))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, response.StandardApiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.StandardApiResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestCreateBookingsHandler(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "STAFF")
	base := "/outlets/" + f.outletID.String() + "/hotel/bookings"

	w, resp := doJSON(t, r, http.MethodPost, base, f.request("2026-03-15", "2026-03-17", f.room101))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", resp.Status)

	w, resp = doJSON(t, r, http.MethodPost, base, f.request("2026-03-16", "2026-03-18", f.room101))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", resp.Status)

	w, _ = doJSON(t, r, http.MethodPost, base, map[string]interface{}{"room_ids": []string{}, "guest_name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingLifecycleHandlers(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, "STAFF")
	base := "/outlets/" + f.outletID.String() + "/hotel"

	future, err := f.svc.CreateBookings(context.Background(), f.outletID, f.request("2026-03-20", "2026-03-22", f.room101))
	require.NoError(t, err)
	w, _ := doJSON(t, r, http.MethodPost, base+"/bookings/"+future[0].ID.String()+"/check-in", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, base+"/bookings/"+future[0].ID.String()+"/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	created, err := f.svc.CreateBookings(context.Background(), f.outletID, f.request("2026-03-10", "2026-03-12", f.room101))
	require.NoError(t, err)
	id := created[0].ID.String()

	w, _ = doJSON(t, r, http.MethodPost, base+"/bookings/"+id+"/charges", AddChargeRequest{Type: ChargeLaundry, Item: "Suit", Quantity: 1, Price: 80, Express: true})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, base+"/rooms/"+f.room101.ID.String()+"/active-booking", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, base+"/bookings/"+id+"/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, base+"/bookings/"+future[0].ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, base+"/rooms/"+f.room101.ID.String()+"/active-booking", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, base+"/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportRequiresManager(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateBookings(context.Background(), f.outletID, f.request("2026-03-15", "2026-03-17", f.room101))
	require.NoError(t, err)
	path := "/outlets/" + f.outletID.String() + "/hotel/bookings/export"

	w, _ := doJSON(t, newTestRouter(f, "STAFF"), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, newTestRouter(f, "MANAGER"), http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	book, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	rows, err := book.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
