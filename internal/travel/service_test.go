package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outletdesk/internal/outlets"
	"outletdesk/internal/shared/constants"
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

func (m *MockRepository) ListVehicles(ctx context.Context, outletID uuid.UUID, query VehicleQuery) ([]Vehicle, error) {
	args := m.Called(ctx, outletID, query)
	return args.Get(0).([]Vehicle), args.Error(1)
}

func (m *MockRepository) GetVehicle(ctx context.Context, outletID, id uuid.UUID) (*Vehicle, error) {
	args := m.Called(ctx, outletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Vehicle), args.Error(1)
}

func (m *MockRepository) CreateVehicle(ctx context.Context, vehicle *Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}

func (m *MockRepository) UpdateVehicle(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Vehicle, error) {
	args := m.Called(ctx, outletID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Vehicle), args.Error(1)
}

func (m *MockRepository) DeleteVehicle(ctx context.Context, outletID, id uuid.UUID) error {
	return m.Called(ctx, outletID, id).Error(0)
}

func (m *MockRepository) ListContacts(ctx context.Context, outletID uuid.UUID, search string) ([]Contact, error) {
	args := m.Called(ctx, outletID, search)
	return args.Get(0).([]Contact), args.Error(1)
}

func (m *MockRepository) GetContact(ctx context.Context, outletID, id uuid.UUID) (*Contact, error) {
	args := m.Called(ctx, outletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contact), args.Error(1)
}

func (m *MockRepository) CreateContact(ctx context.Context, contact *Contact) error {
	return m.Called(ctx, contact).Error(0)
}

func (m *MockRepository) UpdateContact(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Contact, error) {
	args := m.Called(ctx, outletID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Contact), args.Error(1)
}

func (m *MockRepository) DeleteContact(ctx context.Context, outletID, id uuid.UUID) error {
	return m.Called(ctx, outletID, id).Error(0)
}

func newTestService(t *testing.T) (Service, *MockRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := new(MockRepository)
	return NewService(repo, cache.NewService(client)), repo, mr
}

func TestCreateVehicleDefaultsAndNormalizes(t *testing.T) {
	svc, repo, mr := newTestService(t)
	ctx := context.Background()
	outletID := uuid.New()
	dashboard := constants.BuildDashboardKey(outletID.String())
	require.NoError(t, mr.Set(dashboard, "{}"))

	repo.On("CreateVehicle", ctx, mock.MatchedBy(func(v *Vehicle) bool {
		return v.Registration == "MH 12 AB 1234" && v.Status == VehicleStatusActive && v.OutletID == outletID
	})).Return(nil)

	vehicle, err := svc.CreateVehicle(ctx, outletID, CreateVehicleRequest{
		Name:         "Volvo Coach",
		Type:         VehicleTypeBus,
		Registration: " mh 12  ab 1234 ",
		Capacity:     45,
	})

	require.NoError(t, err)
	assert.Equal(t, VehicleTypeBus, vehicle.Type)
	assert.False(t, mr.Exists(dashboard), "vehicle writes drop the dashboard")
	repo.AssertExpectations(t)
}

func TestUpdateVehicleOnlyTouchesGivenFields(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	outletID, id := uuid.New(), uuid.New()
	status := VehicleStatusMaintenance

	repo.On("UpdateVehicle", ctx, outletID, id, map[string]interface{}{"status": VehicleStatusMaintenance}).
		Return(&Vehicle{ID: id, Status: VehicleStatusMaintenance}, nil)

	vehicle, err := svc.UpdateVehicle(ctx, outletID, id, UpdateVehicleRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, VehicleStatusMaintenance, vehicle.Status)

	repo.On("GetVehicle", ctx, outletID, id).Return(&Vehicle{ID: id}, nil)
	_, err = svc.UpdateVehicle(ctx, outletID, id, UpdateVehicleRequest{})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "UpdateVehicle", 1)
}

func TestCreateContactTrimsInput(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	outletID := uuid.New()

	repo.On("CreateContact", ctx, mock.AnythingOfType("*travel.Contact")).Return(nil)

	contact, err := svc.CreateContact(ctx, outletID, CreateContactRequest{Name: " Priya ", Role: "Driver", Email: "Priya@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "Priya", contact.Name)
	assert.Equal(t, "priya@example.com", contact.Email)
}

func TestTravelHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo, _ := newTestService(t)
	outletID := uuid.New()
	missing := uuid.New()

	r := gin.New()
	group := r.Group("/outlets/:outletID/travel", func(c *gin.Context) {
		outlets.SetOutletContext(c, outletID, outlets.OutletTypeTravel)
		c.Set("user_role", "STAFF")
		c.Next()
	})
	SetupTravelRoutes(group, NewController(svc))
	base := "/outlets/" + outletID.String() + "/travel"

	repo.On("GetVehicle", mock.Anything, outletID, missing).Return(nil, ErrVehicleNotFound)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, base+"/vehicles/"+missing.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	body, _ := json.Marshal(map[string]interface{}{"name": "Van", "type": "spaceship", "registration": "X1", "capacity": 8})
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, base+"/vehicles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code, "staff cannot add vehicles")

	repo.On("ListContacts", mock.Anything, outletID, "ravi").Return([]Contact{{Name: "Ravi"}}, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, base+"/contacts?search=ravi", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ravi")
}
