package bookings

import (
	"context"
	"sync"
	"testing"
	"time"

	"outletdesk/internal/hotels"
	"outletdesk/internal/notifications"
	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository keeps one outlet's rooms and bookings in memory
type memoryRepository struct {
	mu       sync.Mutex
	rooms    map[uuid.UUID]*hotels.Room
	bookings []Booking
}

func newMemoryRepository(rooms ...hotels.Room) *memoryRepository {
	repo := &memoryRepository{rooms: map[uuid.UUID]*hotels.Room{}}
	for i := range rooms {
		r := rooms[i]
		repo.rooms[r.ID] = &r
	}
	return repo
}

func (m *memoryRepository) ListRooms(ctx context.Context, outletID uuid.UUID) ([]hotels.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []hotels.Room
	for _, r := range m.rooms {
		if r.OutletID == outletID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memoryRepository) conflict(b Booking) bool {
	for _, other := range m.bookings {
		if other.ID != b.ID && other.RoomID == b.RoomID && other.Conflicts(b.CheckIn, b.CheckOut) {
			return true
		}
	}
	return false
}

func (m *memoryRepository) CreateBookings(ctx context.Context, outletID uuid.UUID, roomIDs []uuid.UUID, plan PlanFunc) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := make([]hotels.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		r, ok := m.rooms[id]
		if !ok || r.OutletID != outletID {
			return nil, ErrRoomNotInOutlet
		}
		rooms = append(rooms, *r)
	}
	planned, err := plan(rooms)
	if err != nil {
		return nil, err
	}
	for _, b := range planned {
		if m.conflict(b) {
			return nil, ErrRoomUnavailable
		}
	}
	for _, b := range planned {
		if b.Status == StatusCheckedIn {
			m.rooms[b.RoomID].Status = hotels.RoomStatusOccupied
		}
	}
	m.bookings = append(m.bookings, planned...)
	return planned, nil
}

func (m *memoryRepository) Mutate(ctx context.Context, outletID, id uuid.UUID, fn MutateFunc) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bookings {
		if m.bookings[i].ID != id || m.bookings[i].OutletID != outletID {
			continue
		}
		b := m.bookings[i]
		b.FolioCharges = append([]FolioCharge(nil), b.FolioCharges...)
		room := *m.rooms[b.RoomID]
		var inHouse *Booking
		for j := range m.bookings {
			if j != i && m.bookings[j].RoomID == b.RoomID && m.bookings[j].Status == StatusCheckedIn {
				inHouse = &m.bookings[j]
				break
			}
		}
		if err := fn(&b, &room, inHouse); err != nil {
			return nil, err
		}
		if b.Status.BlocksRoom() && m.conflict(b) {
			return nil, ErrRoomUnavailable
		}
		for j := range b.FolioCharges {
			if b.FolioCharges[j].ID == uuid.Nil {
				b.FolioCharges[j].ID = uuid.New()
				b.FolioCharges[j].BookingID = b.ID
			}
		}
		m.bookings[i] = b
		*m.rooms[b.RoomID] = room
		out := b
		out.Room = &room
		return &out, nil
	}
	return nil, ErrBookingNotFound
}

func (m *memoryRepository) GetBooking(ctx context.Context, outletID, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id && b.OutletID == outletID {
			return &b, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (m *memoryRepository) ListBookings(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Booking(nil), m.bookings...), int64(len(m.bookings)), nil
}

func (m *memoryRepository) ListBlocking(ctx context.Context, outletID uuid.UUID, from, to time.Time) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, b := range m.bookings {
		if b.OutletID == outletID && b.Conflicts(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepository) ListForExport(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, error) {
	bookings, _, err := m.ListBookings(ctx, outletID, query)
	return bookings, err
}

func (m *memoryRepository) ActiveBookingForRoom(ctx context.Context, outletID, roomID uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := ActiveBookingFor(roomID, m.bookings); ok {
		return &b, nil
	}
	return nil, ErrNoActiveBooking
}

func (m *memoryRepository) HasActiveBookings(ctx context.Context, roomID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Status.BlocksRoom() {
			return true, nil
		}
	}
	return false, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*notifications.OutletEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *notifications.OutletEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc       *service
	repo      *memoryRepository
	publisher *recordingPublisher
	mr        *miniredis.Miniredis
	outletID  uuid.UUID
	room101   hotels.Room
	room102   hotels.Room
	today     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	outletID := uuid.New()
	room101 := hotels.Room{ID: uuid.New(), OutletID: outletID, Number: "101", Price: 100, Capacity: 2, Status: hotels.RoomStatusAvailable}
	room102 := hotels.Room{ID: uuid.New(), OutletID: outletID, Number: "102", Price: 150, Capacity: 3, Status: hotels.RoomStatusAvailable}
	repo := newMemoryRepository(room101, room102)
	publisher := &recordingPublisher{}

	svc := NewService(repo, repo, NewRedisRoomLocker(client, 15*time.Second), cache.NewService(client), publisher,
		ServiceConfig{Location: time.UTC, AvailabilityTTL: 30 * time.Second}).(*service)
	now := time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{
		svc:       svc,
		repo:      repo,
		publisher: publisher,
		mr:        mr,
		outletID:  outletID,
		room101:   room101,
		room102:   room102,
		today:     DateOf(now, time.UTC),
	}
}

func (f *fixture) request(checkIn, checkOut string, rooms ...hotels.Room) CreateBookingRequest {
	ids := make([]string, len(rooms))
	for i, r := range rooms {
		ids[i] = r.ID.String()
	}
	return CreateBookingRequest{
		RoomIDs:        ids,
		GuestName:      "Meera",
		Email:          "meera@example.com",
		Phone:          "9876543210",
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		GuestCount:     3,
		AdvancePayment: 200,
	}
}

func TestCreateBookingsBatch(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateBookings(context.Background(), f.outletID, f.request("2026-03-15", "2026-03-18", f.room101, f.room102))

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, 300.0, created[0].TotalPrice)
	assert.Equal(t, 450.0, created[1].TotalPrice)
	for _, b := range created {
		assert.Equal(t, StatusConfirmed, b.Status)
		assert.Equal(t, 2, b.GuestCount)
		assert.Equal(t, 100.0, b.AdvancePayment)
	}
	assert.Equal(t, hotels.RoomStatusAvailable, f.repo.rooms[f.room101.ID].Status, "future stays leave the room flag alone")

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, notifications.EventBookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, "101", f.publisher.events[0].Booking.RoomNumber)
}

func TestCreateBookingsCheckInToday(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CreateBookings(context.Background(), f.outletID, f.request("2026-03-10", "2026-03-11", f.room101))

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, StatusCheckedIn, created[0].Status)
	assert.NotNil(t, created[0].CheckedInAt)
	assert.Equal(t, hotels.RoomStatusOccupied, f.repo.rooms[f.room101.ID].Status)
}

func TestCreateBookingsRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-18", f.room101))
	require.NoError(t, err)

	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-17", "2026-03-19", f.room102, f.room101))
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Len(t, f.repo.bookings, 1, "the whole batch is rejected")

	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-18", "2026-03-19", f.room101))
	assert.NoError(t, err, "check-out day is free for the next guest")
}

func TestCreateBookingsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-18", "2026-03-15", f.room101))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-16", f.room101, f.room101))
	assert.ErrorIs(t, err, ErrDuplicateRoom)

	stranger := hotels.Room{ID: uuid.New()}
	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-16", stranger))
	assert.ErrorIs(t, err, ErrRoomNotInOutlet)

	f.repo.rooms[f.room102.ID].Status = hotels.RoomStatusMaintenance
	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-16", f.room102))
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestCreateBookingsRespectsRoomLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.svc.locker.Lock(ctx, []uuid.UUID{f.room101.ID})
	require.NoError(t, err)

	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-16", f.room101))
	assert.ErrorIs(t, err, ErrRoomLocked)

	require.NoError(t, f.svc.locker.Unlock(ctx, []uuid.UUID{f.room101.ID}, token))
	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-16", f.room101))
	assert.NoError(t, err)
	assert.False(t, f.mr.Exists(constants.BuildRoomLockKey(f.room101.ID.String())), "lock released after the write")
}

func TestEstimate(t *testing.T) {
	f := newFixture(t)

	est, err := f.svc.Estimate(context.Background(), f.outletID, f.request("2026-03-15", "2026-03-18", f.room101, f.room102))

	require.NoError(t, err)
	assert.Equal(t, 3, est.Nights)
	assert.Equal(t, 750.0, est.GrandTotal)
	assert.Equal(t, 550.0, est.Balance)
	assert.Equal(t, 550.0, est.AmountDue)
	assert.Zero(t, est.RefundDue)

	req := f.request("2026-03-15", "2026-03-15", f.room101)
	req.AdvancePayment = 250
	est, err = f.svc.Estimate(context.Background(), f.outletID, req)
	require.NoError(t, err)
	assert.Equal(t, 0, est.Nights)
	assert.Equal(t, 1, est.BilledNights)
	assert.Equal(t, -150.0, est.Balance)
	assert.Equal(t, 150.0, est.RefundDue)
	assert.Zero(t, est.AmountDue)
}

func TestFolioLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-10", "2026-03-13", f.room101))
	require.NoError(t, err)
	id := created[0].ID

	folio, err := f.svc.AddCharge(ctx, f.outletID, id, AddChargeRequest{Type: ChargeRoomService, Item: "Dinner", Quantity: 1, Price: 50})
	require.NoError(t, err)
	folio, err = f.svc.AddCharge(ctx, f.outletID, id, AddChargeRequest{Type: ChargeLaundry, Item: "Shirts", Quantity: 2, Price: 35, Express: true})
	require.NoError(t, err)
	assert.Equal(t, 120.0, folio.Booking.FolioCharges[1].Total)
	assert.Equal(t, 170.0, folio.ChargesTotal)
	assert.Equal(t, 270.0, folio.TotalBill)

	folio, err = f.svc.ExtendStay(ctx, f.outletID, id, ExtendStayRequest{CheckOut: "2026-03-14"})
	require.NoError(t, err)
	assert.Equal(t, 400.0, folio.RoomRent)

	_, err = f.svc.ExtendStay(ctx, f.outletID, id, ExtendStayRequest{CheckOut: "2026-03-12"})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	folio, err = f.svc.Checkout(ctx, f.outletID, id, CheckoutRequest{RoomStatus: "maintenance", Note: "AC leaking"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, folio.Booking.Status)
	assert.Equal(t, 370.0, folio.AmountDue)
	assert.Equal(t, hotels.RoomStatusMaintenance, f.repo.rooms[f.room101.ID].Status)
	assert.Equal(t, "AC leaking", f.repo.rooms[f.room101.ID].MaintenanceNote)

	_, err = f.svc.AddCharge(ctx, f.outletID, id, AddChargeRequest{Type: ChargeOther, Item: "Late", Quantity: 1, Price: 10})
	assert.ErrorIs(t, err, ErrChargeNotAllowed)
	_, err = f.svc.Cancel(ctx, f.outletID, id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExtendStayRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-15", "2026-03-17", f.room101))
	require.NoError(t, err)
	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-18", "2026-03-20", f.room101))
	require.NoError(t, err)

	_, err = f.svc.ExtendStay(ctx, f.outletID, first[0].ID, ExtendStayRequest{CheckOut: "2026-03-19"})
	assert.ErrorIs(t, err, ErrRoomUnavailable)

	folio, err := f.svc.ExtendStay(ctx, f.outletID, first[0].ID, ExtendStayRequest{CheckOut: "2026-03-18"})
	require.NoError(t, err)
	assert.Equal(t, 300.0, folio.RoomRent)
}

func TestCheckInAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	future, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-20", "2026-03-22", f.room101))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx, f.outletID, future[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition, "cannot arrive before the stay starts")

	folio, err := f.svc.Cancel(ctx, f.outletID, future[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, folio.Booking.Status)
	assert.NotNil(t, folio.Booking.CancelledAt)

	// the cancelled stay no longer blocks the room
	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-20", "2026-03-21", f.room101))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Date(2026, 3, 20, 8, 0, 0, 0, time.UTC) }
	_, err = f.svc.CheckIn(ctx, f.outletID, future[0].ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var pending uuid.UUID
	for _, b := range f.repo.bookings {
		if b.Status == StatusConfirmed {
			pending = b.ID
		}
	}
	folio, err = f.svc.CheckIn(ctx, f.outletID, pending)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, folio.Booking.Status)
	assert.Equal(t, hotels.RoomStatusOccupied, f.repo.rooms[f.room101.ID].Status)

	_, err = f.svc.Cancel(ctx, f.outletID, pending)
	assert.ErrorIs(t, err, ErrInvalidTransition, "checked-in stays are closed by checkout")
}

func TestCheckoutKeepsRoomWithInHouseGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inHouse, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-10", "2026-03-12", f.room101))
	require.NoError(t, err)
	require.Equal(t, StatusCheckedIn, inHouse[0].Status)
	later, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-20", "2026-03-22", f.room101))
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, f.outletID, later[0].ID, CheckoutRequest{})
	assert.ErrorIs(t, err, ErrInvalidTransition, "a future stay is cancelled, not checked out")
	assert.Equal(t, hotels.RoomStatusOccupied, f.repo.rooms[f.room101.ID].Status)

	// the first guest overstays into the second stay's check-in day
	f.svc.now = func() time.Time { return time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC) }

	_, err = f.svc.CheckIn(ctx, f.outletID, later[0].ID)
	assert.ErrorIs(t, err, ErrRoomUnavailable)

	folio, err := f.svc.Checkout(ctx, f.outletID, later[0].ID, CheckoutRequest{RoomStatus: "available"})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, folio.Booking.Status)
	assert.Equal(t, hotels.RoomStatusOccupied, f.repo.rooms[f.room101.ID].Status, "no-show checkout leaves the occupied room alone")

	current, err := f.svc.ActiveBooking(ctx, f.outletID, f.room101.ID)
	require.NoError(t, err)
	assert.Equal(t, inHouse[0].ID, current.Booking.ID)
	assert.Equal(t, StatusCheckedIn, current.Booking.Status)

	_, err = f.svc.Checkout(ctx, f.outletID, inHouse[0].ID, CheckoutRequest{RoomStatus: "available"})
	require.NoError(t, err)
	assert.Equal(t, hotels.RoomStatusAvailable, f.repo.rooms[f.room101.ID].Status)
}

func TestAvailabilityIsCachedAndInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	query := AvailabilityQuery{From: "2026-03-15", To: "2026-03-17", Sort: "price_desc"}

	board, err := f.svc.Availability(ctx, f.outletID, query)
	require.NoError(t, err)
	require.Len(t, board.Available, 2)
	assert.Equal(t, "102", board.Available[0].Number)
	assert.Empty(t, board.Unavailable)

	_, err = f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-16", "2026-03-18", f.room102))
	require.NoError(t, err)

	board, err = f.svc.Availability(ctx, f.outletID, query)
	require.NoError(t, err)
	require.Len(t, board.Available, 1)
	require.Len(t, board.Unavailable, 1)
	assert.Equal(t, "102", board.Unavailable[0].Number)
	assert.Equal(t, hotels.RoomStatusOccupied, board.Unavailable[0].ComputedStatus)
}

func TestActiveBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ActiveBooking(ctx, f.outletID, f.room101.ID)
	assert.ErrorIs(t, err, ErrNoActiveBooking)

	created, err := f.svc.CreateBookings(ctx, f.outletID, f.request("2026-03-10", "2026-03-12", f.room101))
	require.NoError(t, err)

	folio, err := f.svc.ActiveBooking(ctx, f.outletID, f.room101.ID)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, folio.Booking.ID)
	assert.Equal(t, 200.0, folio.RoomRent)
	assert.Zero(t, folio.AmountDue)
}
