package hotels

import (
	"context"
	"testing"

	"outletdesk/internal/shared/constants"
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

func (m *MockRepository) ListCategories(ctx context.Context, outletID uuid.UUID) ([]Category, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]Category), args.Error(1)
}

func (m *MockRepository) GetCategory(ctx context.Context, outletID, id uuid.UUID) (*Category, error) {
	args := m.Called(ctx, outletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockRepository) CreateCategory(ctx context.Context, category *Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockRepository) UpdateCategory(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Category, error) {
	args := m.Called(ctx, outletID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Category), args.Error(1)
}

func (m *MockRepository) DeleteCategory(ctx context.Context, outletID, id uuid.UUID) error {
	return m.Called(ctx, outletID, id).Error(0)
}

func (m *MockRepository) CountRoomsInCategory(ctx context.Context, outletID, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, outletID, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListAmenities(ctx context.Context, outletID uuid.UUID) ([]Amenity, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]Amenity), args.Error(1)
}

func (m *MockRepository) GetAmenity(ctx context.Context, outletID, id uuid.UUID) (*Amenity, error) {
	args := m.Called(ctx, outletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Amenity), args.Error(1)
}

func (m *MockRepository) CountAmenities(ctx context.Context, outletID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, outletID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CreateAmenity(ctx context.Context, amenity *Amenity) error {
	return m.Called(ctx, amenity).Error(0)
}

func (m *MockRepository) UpdateAmenity(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Amenity, error) {
	args := m.Called(ctx, outletID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Amenity), args.Error(1)
}

func (m *MockRepository) DeleteAmenity(ctx context.Context, outletID, id uuid.UUID) error {
	return m.Called(ctx, outletID, id).Error(0)
}

func (m *MockRepository) ListRooms(ctx context.Context, outletID uuid.UUID) ([]Room, error) {
	args := m.Called(ctx, outletID)
	return args.Get(0).([]Room), args.Error(1)
}

func (m *MockRepository) GetRoom(ctx context.Context, outletID, id uuid.UUID) (*Room, error) {
	args := m.Called(ctx, outletID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRepository) CreateRoom(ctx context.Context, room *Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *MockRepository) UpdateRoom(ctx context.Context, outletID, id uuid.UUID, updates map[string]interface{}) (*Room, error) {
	args := m.Called(ctx, outletID, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRepository) DeleteRoom(ctx context.Context, outletID, id uuid.UUID) error {
	return m.Called(ctx, outletID, id).Error(0)
}

type stubBookings struct {
	active bool
}

func (s stubBookings) HasActiveBookings(ctx context.Context, roomID uuid.UUID) (bool, error) {
	return s.active, nil
}

func newTestService(t *testing.T, bookings ActiveBookingChecker) (*service, *MockRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := new(MockRepository)
	return NewService(repo, bookings, cache.NewService(client)).(*service), repo, mr
}

func TestCreateRoom(t *testing.T) {
	svc, repo, _ := newTestService(t, stubBookings{})
	ctx := context.Background()
	outletID, categoryID, wifi := uuid.New(), uuid.New(), uuid.New()

	repo.On("GetCategory", mock.Anything, outletID, categoryID).Return(&Category{ID: categoryID}, nil)
	repo.On("CountAmenities", mock.Anything, outletID, []uuid.UUID{wifi}).Return(int64(1), nil)
	repo.On("CreateRoom", mock.Anything, mock.AnythingOfType("*hotels.Room")).Return(nil)

	room, err := svc.CreateRoom(ctx, outletID, CreateRoomRequest{
		Number:     " 101 ",
		CategoryID: categoryID.String(),
		Price:      2500,
		Capacity:   2,
		AmenityIDs: []string{wifi.String(), wifi.String()},
	})

	require.NoError(t, err)
	assert.Equal(t, "101", room.Number)
	assert.Equal(t, RoomStatusAvailable, room.Status)
	assert.Equal(t, []uuid.UUID{wifi}, []uuid.UUID(room.AmenityIDs))
	repo.AssertExpectations(t)
}

func TestCreateRoomUnknownAmenity(t *testing.T) {
	svc, repo, _ := newTestService(t, stubBookings{})
	outletID, categoryID, foreign := uuid.New(), uuid.New(), uuid.New()

	repo.On("GetCategory", mock.Anything, outletID, categoryID).Return(&Category{ID: categoryID}, nil)
	repo.On("CountAmenities", mock.Anything, outletID, []uuid.UUID{foreign}).Return(int64(0), nil)

	_, err := svc.CreateRoom(context.Background(), outletID, CreateRoomRequest{
		Number: "101", CategoryID: categoryID.String(), Capacity: 2, AmenityIDs: []string{foreign.String()},
	})

	assert.ErrorIs(t, err, ErrUnknownAmenity)
	repo.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything)
}

func TestDeleteCategoryInUse(t *testing.T) {
	svc, repo, _ := newTestService(t, stubBookings{})
	outletID, categoryID := uuid.New(), uuid.New()
	repo.On("CountRoomsInCategory", mock.Anything, outletID, categoryID).Return(int64(3), nil)

	err := svc.DeleteCategory(context.Background(), outletID, categoryID)

	assert.ErrorIs(t, err, ErrCategoryInUse)
	repo.AssertNotCalled(t, "DeleteCategory", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRoomWithActiveBookings(t *testing.T) {
	svc, repo, _ := newTestService(t, stubBookings{active: true})
	outletID, roomID := uuid.New(), uuid.New()
	repo.On("GetRoom", mock.Anything, outletID, roomID).Return(&Room{ID: roomID}, nil)

	err := svc.DeleteRoom(context.Background(), outletID, roomID)

	assert.ErrorIs(t, err, ErrRoomHasBookings)
	repo.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRoomStatusClearsNoteAndInvalidates(t *testing.T) {
	svc, repo, mr := newTestService(t, stubBookings{})
	ctx := context.Background()
	outletID, roomID := uuid.New(), uuid.New()

	availabilityKey := constants.BuildAvailabilityKey(outletID.String(), "2026-01-01", "2026-01-03", "all")
	dashboardKey := constants.BuildDashboardKey(outletID.String())
	require.NoError(t, mr.Set(availabilityKey, "[]"))
	require.NoError(t, mr.Set(dashboardKey, "{}"))

	repo.On("UpdateRoom", mock.Anything, outletID, roomID, map[string]interface{}{
		"status":           RoomStatusAvailable,
		"maintenance_note": "",
	}).Return(&Room{ID: roomID, Status: RoomStatusAvailable}, nil)

	room, err := svc.UpdateRoomStatus(ctx, outletID, roomID, UpdateRoomStatusRequest{Status: RoomStatusAvailable, Note: "ignored"})

	require.NoError(t, err)
	assert.Equal(t, RoomStatusAvailable, room.Status)
	assert.False(t, mr.Exists(availabilityKey))
	assert.False(t, mr.Exists(dashboardKey))
}

func TestListCategoriesIsCached(t *testing.T) {
	svc, repo, _ := newTestService(t, stubBookings{})
	outletID := uuid.New()
	repo.On("ListCategories", mock.Anything, outletID).Return([]Category{{Name: "Deluxe"}}, nil).Once()

	for i := 0; i < 2; i++ {
		categories, err := svc.ListCategories(context.Background(), outletID)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "Deluxe", categories[0].Name)
	}
	repo.AssertNumberOfCalls(t, "ListCategories", 1)
}
