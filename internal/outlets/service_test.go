package outlets

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"outletdesk/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]UserOutlet, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]UserOutlet), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindMembership(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error) {
	args := m.Called(ctx, userID, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserOutlet), args.Error(1)
}

func (m *MockRepository) CreateOutlet(ctx context.Context, outlet *Outlet) error {
	return m.Called(ctx, outlet).Error(0)
}

func (m *MockRepository) AddMember(ctx context.Context, userID, outletID uuid.UUID) (*UserOutlet, error) {
	args := m.Called(ctx, userID, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserOutlet), args.Error(1)
}

func newTestService(t *testing.T) (*service, *MockRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := new(MockRepository)
	svc := NewService(repo, cache.NewService(client), "1.0.0", time.Hour).(*service)
	return svc, repo
}

func TestMyOutlets(t *testing.T) {
	svc, repo := newTestService(t)
	userID := uuid.New()
	hotel := &Outlet{ID: uuid.New(), BusinessName: "Grand Hotel", Type: OutletTypeHotel}
	kitchen := &Outlet{ID: uuid.New(), BusinessName: "Italian Kitchen", Type: OutletTypeRestaurant}
	memberships := []UserOutlet{
		{ID: uuid.New(), UserID: userID, OutletID: hotel.ID, Outlet: hotel},
		{ID: uuid.New(), UserID: userID, OutletID: kitchen.ID, Outlet: kitchen},
	}
	repo.On("ListForUser", mock.Anything, userID, 50, 0).Return(memberships, int64(2), nil)

	resp, err := svc.MyOutlets(context.Background(), userID, 1, 50)

	require.NoError(t, err)
	assert.False(t, resp.Error)
	assert.Equal(t, "1.0.0", resp.AppVersion)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Grand Hotel", resp.Data[0].BusinessName)
	assert.Equal(t, hotel.ID.String(), resp.Data[0].OutletID)
	assert.Equal(t, memberships[0].ID.String(), resp.Data[0].UserRoleID)
}

func TestAuthorize_CachesMembership(t *testing.T) {
	svc, repo := newTestService(t)
	userID, outletID := uuid.New(), uuid.New()
	outlet := &Outlet{ID: outletID, BusinessName: "Beach Resort", Type: OutletTypeHotel}
	repo.On("FindMembership", mock.Anything, userID, outletID).
		Return(&UserOutlet{UserID: userID, OutletID: outletID, Outlet: outlet}, nil).Once()

	first, err := svc.Authorize(context.Background(), userID, outletID)
	require.NoError(t, err)
	second, err := svc.Authorize(context.Background(), userID, outletID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, OutletTypeHotel, second.Type)
	repo.AssertNumberOfCalls(t, "FindMembership", 1)
}

func TestAuthorize_NotMember(t *testing.T) {
	svc, repo := newTestService(t)
	userID, outletID := uuid.New(), uuid.New()
	repo.On("FindMembership", mock.Anything, userID, outletID).Return(nil, ErrNotMember)

	_, err := svc.Authorize(context.Background(), userID, outletID)
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestStateRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.GetState(ctx, userID, StoreAuth)
	assert.ErrorIs(t, err, ErrStateNotFound)

	snapshot := json.RawMessage(`{"state":{"user":{"email":"hotel@example.com"}},"version":0}`)
	require.NoError(t, svc.SaveState(ctx, userID, StoreAuth, snapshot))

	got, err := svc.GetState(ctx, userID, StoreAuth)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot), string(got))

	assert.ErrorIs(t, svc.SaveState(ctx, userID, "cart-store", snapshot), ErrUnknownStore)
	assert.ErrorIs(t, svc.SaveState(ctx, userID, StoreAuth, json.RawMessage(`[1,2]`)), ErrInvalidSnapshot)
}

func TestSelectOutlet_WritesOutletStore(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID, outletID := uuid.New(), uuid.New()
	outlet := &Outlet{ID: outletID, BusinessName: "Adventure Tours", Type: OutletTypeTravel}
	repo.On("FindMembership", mock.Anything, userID, outletID).
		Return(&UserOutlet{UserID: userID, OutletID: outletID, Outlet: outlet}, nil)

	selected, err := svc.SelectOutlet(ctx, userID, outletID)
	require.NoError(t, err)
	assert.Equal(t, outletID, selected.ID)

	raw, err := svc.GetState(ctx, userID, StoreOutlet)
	require.NoError(t, err)

	var snap struct {
		State struct {
			CurrentOutlet Outlet `json:"currentOutlet"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "Adventure Tours", snap.State.CurrentOutlet.BusinessName)
}
