package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outletdesk/internal/outlets"
	"outletdesk/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RoomStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) BookingFigures(ctx context.Context, outletID uuid.UUID, today time.Time) (*BookingFigures, error) {
	args := m.Called(ctx, outletID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BookingFigures), args.Error(1)
}

func (m *MockRepository) OrderStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) DeliveredRevenue(ctx context.Context, outletID uuid.UUID) (float64, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRepository) VehicleStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]StatusCount), args.Error(1)
}

func (m *MockRepository) ContactCount(ctx context.Context, outletID uuid.UUID) (int, error) {
	args := m.Called(ctx, outletID)
	return args.Int(0), args.Error(1)
}

func newTestService(t *testing.T) (*service, *MockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := new(MockRepository)
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	svc := NewService(repo, cache.NewService(client), loc).(*service)
	// 20:00 UTC is already the next day in Kolkata
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestHotelDashboard(t *testing.T) {
	svc, repo := newTestService(t)
	outletID := uuid.New()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	repo.On("RoomStatusCounts", mock.Anything, outletID).Return([]StatusCount{
		{Status: "available", Count: 4},
		{Status: "occupied", Count: 2},
		{Status: "maintenance", Count: 1},
	}, nil).Once()
	repo.On("BookingFigures", mock.Anything, outletID, mock.MatchedBy(func(d time.Time) bool {
		return d.Format(time.DateOnly) == today.Format(time.DateOnly)
	})).Return(&BookingFigures{Active: 5, Arrivals: 2, Departures: 1, Revenue: 1250}, nil).Once()

	dashboard, err := svc.GetDashboard(context.Background(), outletID, outlets.OutletTypeHotel)
	require.NoError(t, err)
	require.NotNil(t, dashboard.Hotel)
	assert.Nil(t, dashboard.Restaurant)
	assert.Equal(t, 7, dashboard.Hotel.TotalRooms)
	assert.Equal(t, 28.6, dashboard.Hotel.OccupancyRate)
	assert.Equal(t, 2, dashboard.Hotel.ArrivalsToday)
	assert.Equal(t, 1250.0, dashboard.Hotel.CompletedRevenue)

	// second read is served from the cache
	again, err := svc.GetDashboard(context.Background(), outletID, outlets.OutletTypeHotel)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Hotel.RoomsByStatus, again.Hotel.RoomsByStatus)
	repo.AssertExpectations(t)
}

func TestRestaurantDashboardCountsOpenOrders(t *testing.T) {
	svc, repo := newTestService(t)
	outletID := uuid.New()

	repo.On("OrderStatusCounts", mock.Anything, outletID).Return([]StatusCount{
		{Status: "pending", Count: 3},
		{Status: "preparing", Count: 1},
		{Status: "delivered", Count: 6},
		{Status: "cancelled", Count: 2},
	}, nil)
	repo.On("DeliveredRevenue", mock.Anything, outletID).Return(842.5, nil)

	dashboard, err := svc.GetDashboard(context.Background(), outletID, outlets.OutletTypeRestaurant)
	require.NoError(t, err)
	assert.Equal(t, 4, dashboard.Restaurant.OpenOrders)
	assert.Equal(t, 842.5, dashboard.Restaurant.DeliveredRevenue)
}

func TestTravelDashboard(t *testing.T) {
	svc, repo := newTestService(t)
	outletID := uuid.New()

	repo.On("VehicleStatusCounts", mock.Anything, outletID).Return([]StatusCount{
		{Status: "active", Count: 3},
		{Status: "maintenance", Count: 1},
	}, nil)
	repo.On("ContactCount", mock.Anything, outletID).Return(12, nil)

	dashboard, err := svc.GetDashboard(context.Background(), outletID, outlets.OutletTypeTravel)
	require.NoError(t, err)
	assert.Equal(t, 4, dashboard.Travel.TotalVehicles)
	assert.Equal(t, 12, dashboard.Travel.TotalContacts)
}

func TestDashboardErrors(t *testing.T) {
	svc, repo := newTestService(t)
	outletID := uuid.New()

	_, err := svc.GetDashboard(context.Background(), outletID, outlets.OutletType("spa"))
	assert.ErrorIs(t, err, ErrUnknownOutletType)

	boom := errors.New("connection reset")
	repo.On("VehicleStatusCounts", mock.Anything, outletID).Return([]StatusCount(nil), boom)
	repo.On("ContactCount", mock.Anything, outletID).Return(0, nil).Maybe()

	_, err = svc.GetDashboard(context.Background(), outletID, outlets.OutletTypeTravel)
	assert.ErrorIs(t, err, boom)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, percent(0, 0))
	assert.Equal(t, 50.0, percent(1, 2))
	assert.Equal(t, 33.3, percent(1, 3))
	assert.Equal(t, 100.0, percent(4, 4))
}

func TestGetDashboardHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo := newTestService(t)
	outletID := uuid.New()
	repo.On("VehicleStatusCounts", mock.Anything, outletID).Return([]StatusCount{{Status: "active", Count: 1}}, nil)
	repo.On("ContactCount", mock.Anything, outletID).Return(0, nil)

	r := gin.New()
	group := r.Group("/outlets/:outletID", func(c *gin.Context) {
		outlets.SetOutletContext(c, outletID, outlets.OutletTypeTravel)
		c.Next()
	})
	SetupAnalyticsRoutes(group, NewController(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/outlets/"+outletID.String()+"/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"vehicles_by_status":{"active":1}`)
}
