package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"outletdesk/internal/hotels"
	"outletdesk/internal/notifications"
	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"
	"outletdesk/pkg/logger"
	"outletdesk/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrNoActiveBooking   = errors.New("room has no active booking")
	ErrRoomUnavailable   = errors.New("room is not available for the requested dates")
	ErrRoomNotInOutlet   = errors.New("one or more rooms do not exist in this outlet")
	ErrDuplicateRoom     = errors.New("a room appears more than once in the request")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidTransition = errors.New("booking cannot move to the requested status")
	ErrChargeNotAllowed  = errors.New("charges can only be added to confirmed or checked-in bookings")
	ErrInvalidCharge     = errors.New("invalid folio charge")
)

// RoomLister is satisfied by hotels.Repository
type RoomLister interface {
	ListRooms(ctx context.Context, outletID uuid.UUID) ([]hotels.Room, error)
}

type Service interface {
	Availability(ctx context.Context, outletID uuid.UUID, query AvailabilityQuery) (*AvailabilityResponse, error)
	Estimate(ctx context.Context, outletID uuid.UUID, req CreateBookingRequest) (*EstimateResponse, error)
	CreateBookings(ctx context.Context, outletID uuid.UUID, req CreateBookingRequest) ([]Booking, error)

	ListBookings(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	GetFolio(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error)
	ActiveBooking(ctx context.Context, outletID, roomID uuid.UUID) (*FolioResponse, error)

	AddCharge(ctx context.Context, outletID, id uuid.UUID, req AddChargeRequest) (*FolioResponse, error)
	CheckIn(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error)
	ExtendStay(ctx context.Context, outletID, id uuid.UUID, req ExtendStayRequest) (*FolioResponse, error)
	Checkout(ctx context.Context, outletID, id uuid.UUID, req CheckoutRequest) (*FolioResponse, error)
	Cancel(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error)

	ExportBookings(ctx context.Context, outletID uuid.UUID, query ListQuery, w io.Writer) error
}

type ServiceConfig struct {
	Location        *time.Location
	AvailabilityTTL time.Duration
}

type service struct {
	repo      Repository
	rooms     RoomLister
	locker    RoomLocker
	cache     cache.Service
	publisher notifications.Publisher
	cfg       ServiceConfig
	now       func() time.Time
	log       *logger.Logger
}

func NewService(repo Repository, rooms RoomLister, locker RoomLocker, cacheService cache.Service, publisher notifications.Publisher, cfg ServiceConfig) Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = constants.TTL_REALTIME_SHORT
	}
	if locker == nil {
		locker = NewNoopRoomLocker()
	}
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		rooms:     rooms,
		locker:    locker,
		cache:     cacheService,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.GetDefault(),
	}
}

func (s *service) today() time.Time {
	return DateOf(s.now(), s.cfg.Location)
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check-out %s is before check-in %s", ErrInvalidDateRange, to, from)
	}
	return start, end, nil
}

func parseRoomIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrRoomNotInOutlet, r)
		}
		if seen[id] {
			return nil, ErrDuplicateRoom
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrRoomNotInOutlet
	}
	return ids, nil
}

func (req CreateBookingRequest) form(checkIn, checkOut time.Time) StayForm {
	return StayForm{
		GuestName:      strings.TrimSpace(req.GuestName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		IDProof:        strings.TrimSpace(req.IDProof),
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		GuestCount:     req.GuestCount,
		AdvancePayment: req.AdvancePayment,
	}
}

// invalidate drops the outlet's availability boards and dashboard after any booking write
func (s *service) invalidate(ctx context.Context, outletID uuid.UUID) {
	if s.cache == nil {
		return
	}
	id := outletID.String()
	if err := s.cache.DeletePattern(ctx, constants.AvailabilityPattern(id)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate availability cache", "outlet_id", id, "error", err.Error())
	}
	if err := s.cache.Delete(ctx, constants.BuildDashboardKey(id)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate dashboard cache", "outlet_id", id, "error", err.Error())
	}
}

func (s *service) publish(ctx context.Context, t notifications.EventType, b Booking) {
	payload := notifications.BookingPayload{
		BookingID:      b.ID,
		RoomID:         b.RoomID,
		GuestName:      b.GuestName,
		Email:          b.Email,
		CheckIn:        b.CheckIn.Format(DateLayout),
		CheckOut:       b.CheckOut.Format(DateLayout),
		Status:         string(b.Status),
		TotalPrice:     b.TotalPrice,
		AdvancePayment: b.AdvancePayment,
		Balance:        CalculateTotalBill(b),
	}
	if b.Room != nil {
		payload.RoomNumber = b.Room.Number
	}
	if err := s.publisher.Publish(ctx, notifications.NewBookingEvent(t, b.OutletID, payload)); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking event", "type", string(t), "booking_id", b.ID.String(), "error", err.Error())
	}
}

// Availability

func (s *service) Availability(ctx context.Context, outletID uuid.UUID, query AvailabilityQuery) (*AvailabilityResponse, error) {
	from, to, err := parseRange(query.From, query.To)
	if err != nil {
		return nil, err
	}

	filter := hotels.RoomListQuery{CategoryID: query.CategoryID, Capacity: query.Capacity, Sort: query.Sort}.ToFilter()
	fetch := func() (interface{}, error) {
		return s.computeAvailability(ctx, outletID, from, to, filter)
	}

	if s.cache == nil {
		resp, err := fetch()
		if err != nil {
			return nil, err
		}
		return resp.(*AvailabilityResponse), nil
	}

	filterKey := fmt.Sprintf("c=%s|cap=%s|s=%s", query.CategoryID, query.Capacity, query.Sort)
	key := constants.BuildAvailabilityKey(outletID.String(), query.From, query.To, filterKey)

	var resp AvailabilityResponse
	if err := s.cache.GetOrSet(ctx, key, s.cfg.AvailabilityTTL, fetch, &resp); err != nil {
		return nil, fmt.Errorf("failed to compute availability: %w", err)
	}
	return &resp, nil
}

func (s *service) computeAvailability(ctx context.Context, outletID uuid.UUID, from, to time.Time, filter hotels.RoomFilter) (*AvailabilityResponse, error) {
	rooms, err := s.rooms.ListRooms(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	blocking, err := s.repo.ListBlocking(ctx, outletID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	resp := &AvailabilityResponse{
		From:        from.Format(DateLayout),
		To:          to.Format(DateLayout),
		Nights:      Nights(from, to),
		Available:   []RoomAvailability{},
		Unavailable: []RoomAvailability{},
	}
	for _, room := range hotels.FilterRooms(rooms, filter) {
		entry := RoomAvailability{Room: room, ComputedStatus: ComputeRoomStatus(room, blocking, from, to)}
		if entry.ComputedStatus == hotels.RoomStatusAvailable {
			resp.Available = append(resp.Available, entry)
		} else {
			resp.Unavailable = append(resp.Unavailable, entry)
		}
	}
	return resp, nil
}

// Booking creation

func (s *service) Estimate(ctx context.Context, outletID uuid.UUID, req CreateBookingRequest) (*EstimateResponse, error) {
	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	roomIDs, err := parseRoomIDs(req.RoomIDs)
	if err != nil {
		return nil, err
	}

	all, err := s.rooms.ListRooms(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	byID := make(map[uuid.UUID]hotels.Room, len(all))
	for _, r := range all {
		byID[r.ID] = r
	}
	selected := make([]hotels.Room, 0, len(roomIDs))
	for _, id := range roomIDs {
		room, ok := byID[id]
		if !ok {
			return nil, ErrRoomNotInOutlet
		}
		selected = append(selected, room)
	}

	planned := PlanBookings(outletID, selected, req.form(checkIn, checkOut), s.today(), s.now())
	nights := Nights(checkIn, checkOut)
	resp := &EstimateResponse{
		Nights:         nights,
		BilledNights:   max(nights, 1),
		Rooms:          make([]RoomEstimate, 0, len(planned)),
		AdvancePayment: req.AdvancePayment,
	}
	for i, b := range planned {
		resp.Rooms = append(resp.Rooms, RoomEstimate{
			RoomID:     b.RoomID.String(),
			RoomNumber: selected[i].Number,
			Price:      selected[i].Price,
			Total:      b.TotalPrice,
			GuestCount: b.GuestCount,
			Advance:    b.AdvancePayment,
		})
		resp.GrandTotal += b.TotalPrice
	}
	resp.Settlement = Settle(resp.GrandTotal - req.AdvancePayment)
	return resp, nil
}

func (s *service) CreateBookings(ctx context.Context, outletID uuid.UUID, req CreateBookingRequest) ([]Booking, error) {
	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	roomIDs, err := parseRoomIDs(req.RoomIDs)
	if err != nil {
		return nil, err
	}

	token, err := s.locker.Lock(ctx, roomIDs)
	if err != nil {
		if errors.Is(err, ErrRoomLocked) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}
	defer func() {
		if err := s.locker.Unlock(context.WithoutCancel(ctx), roomIDs, token); err != nil {
			s.log.WarnContext(ctx, "failed to release room lock", "error", err.Error())
		}
	}()

	form := req.form(checkIn, checkOut)
	today, now := s.today(), s.now()
	roomsByID := make(map[uuid.UUID]hotels.Room, len(roomIDs))

	created, err := s.repo.CreateBookings(ctx, outletID, roomIDs, func(rooms []hotels.Room) ([]Booking, error) {
		for _, room := range rooms {
			if room.Status == hotels.RoomStatusMaintenance {
				return nil, fmt.Errorf("%w: room %s is under maintenance", ErrRoomUnavailable, room.Number)
			}
			roomsByID[room.ID] = room
		}
		return PlanBookings(outletID, rooms, form, today, now), nil
	})
	if err != nil {
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.IncBookingConflict()
			s.log.LogBookingConflict(ctx, strings.Join(req.RoomIDs, ","), outletID.String(), err)
		}
		return nil, err
	}

	for i := range created {
		b := &created[i]
		if room, ok := roomsByID[b.RoomID]; ok {
			r := room
			b.Room = &r
		}
		metrics.IncBookingCreated(string(b.Status))
		s.log.LogBookingCreated(ctx, b.ID.String(), b.RoomID.String(), outletID.String(), string(b.Status))
		s.publish(ctx, notifications.EventBookingCreated, *b)
	}
	s.invalidate(ctx, outletID)
	return created, nil
}

// Reads

func (s *service) ListBookings(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}
	return s.repo.ListBookings(ctx, outletID, query)
}

func (s *service) GetFolio(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error) {
	b, err := s.repo.GetBooking(ctx, outletID, id)
	if err != nil {
		return nil, err
	}
	return newFolio(*b), nil
}

func (s *service) ActiveBooking(ctx context.Context, outletID, roomID uuid.UUID) (*FolioResponse, error) {
	b, err := s.repo.ActiveBookingForRoom(ctx, outletID, roomID)
	if err != nil {
		return nil, err
	}
	return newFolio(*b), nil
}

// Folio operations

func (s *service) mutate(ctx context.Context, outletID, id uuid.UUID, event notifications.EventType, fn MutateFunc) (*FolioResponse, error) {
	var from Status
	b, err := s.repo.Mutate(ctx, outletID, id, func(b *Booking, room *hotels.Room, inHouse *Booking) error {
		from = b.Status
		return fn(b, room, inHouse)
	})
	if err != nil {
		if errors.Is(err, ErrRoomUnavailable) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	if b.Status != from {
		metrics.IncBookingTransition(string(b.Status))
		s.log.LogBookingTransition(ctx, b.ID.String(), string(from), string(b.Status))
	}
	if event != "" {
		s.publish(ctx, event, *b)
	}
	s.invalidate(ctx, outletID)
	return newFolio(*b), nil
}

func (s *service) AddCharge(ctx context.Context, outletID, id uuid.UUID, req AddChargeRequest) (*FolioResponse, error) {
	if !req.Type.IsValid() || req.Quantity < 1 || req.Price < 0 {
		return nil, ErrInvalidCharge
	}
	charge := FolioCharge{
		Type:     req.Type,
		Item:     strings.TrimSpace(req.Item),
		Quantity: req.Quantity,
		Price:    req.Price,
		Express:  req.Express,
		Total:    ChargeTotal(req.Quantity, req.Price, req.Express),
	}

	folio, err := s.mutate(ctx, outletID, id, "", func(b *Booking, _ *hotels.Room, _ *Booking) error {
		if !b.Status.IsInHouse() {
			return ErrChargeNotAllowed
		}
		b.FolioCharges = append(b.FolioCharges, charge)
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncFolioCharge(string(req.Type))
	s.log.LogFolioCharge(ctx, id.String(), string(req.Type), charge.Total)
	return folio, nil
}

func (s *service) CheckIn(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error) {
	today, now := s.today(), s.now()
	return s.mutate(ctx, outletID, id, notifications.EventBookingCheckedIn, func(b *Booking, room *hotels.Room, inHouse *Booking) error {
		if !b.Status.CanCheckIn() {
			return fmt.Errorf("%w: cannot check in a %s booking", ErrInvalidTransition, b.Status)
		}
		if b.CheckIn.After(today) {
			return fmt.Errorf("%w: stay starts on %s", ErrInvalidTransition, b.CheckIn.Format(DateLayout))
		}
		if room.Status == hotels.RoomStatusMaintenance {
			return fmt.Errorf("%w: room %s is under maintenance", ErrRoomUnavailable, room.Number)
		}
		if inHouse != nil {
			return fmt.Errorf("%w: room %s is occupied by %s", ErrRoomUnavailable, room.Number, inHouse.GuestName)
		}
		b.Status = StatusCheckedIn
		b.CheckedInAt = &now
		room.Status = hotels.RoomStatusOccupied
		room.MaintenanceNote = ""
		return nil
	})
}

func (s *service) ExtendStay(ctx context.Context, outletID, id uuid.UUID, req ExtendStayRequest) (*FolioResponse, error) {
	newCheckOut, err := ParseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, outletID, id, "", func(b *Booking, room *hotels.Room, _ *Booking) error {
		if !b.Status.IsInHouse() {
			return fmt.Errorf("%w: cannot extend a %s booking", ErrInvalidTransition, b.Status)
		}
		if !newCheckOut.After(b.CheckOut) {
			return fmt.Errorf("%w: new check-out must be after %s", ErrInvalidDateRange, b.CheckOut.Format(DateLayout))
		}
		b.CheckOut = newCheckOut
		b.TotalPrice = RoomTotal(room.Price, Nights(b.CheckIn, b.CheckOut))
		return nil
	})
}

func (s *service) Checkout(ctx context.Context, outletID, id uuid.UUID, req CheckoutRequest) (*FolioResponse, error) {
	target := hotels.RoomStatus(req.RoomStatus)
	if target == "" {
		target = hotels.RoomStatusAvailable
	}
	if !target.IsCheckoutTarget() {
		return nil, fmt.Errorf("%w: room cannot be released as %s", ErrInvalidTransition, target)
	}

	today, now := s.today(), s.now()
	return s.mutate(ctx, outletID, id, notifications.EventBookingCheckedOut, func(b *Booking, room *hotels.Room, inHouse *Booking) error {
		if !b.Status.CanCheckOut() {
			return fmt.Errorf("%w: cannot check out a %s booking", ErrInvalidTransition, b.Status)
		}
		if b.Status == StatusConfirmed && b.CheckIn.After(today) {
			return fmt.Errorf("%w: stay starts on %s, cancel it instead", ErrInvalidTransition, b.CheckIn.Format(DateLayout))
		}
		b.Status = StatusCompleted
		b.CheckedOutAt = &now
		// the room flag belongs to whoever is still in house
		if inHouse != nil {
			return nil
		}
		room.Status = target
		room.MaintenanceNote = ""
		if target == hotels.RoomStatusMaintenance {
			room.MaintenanceNote = strings.TrimSpace(req.Note)
		}
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, outletID, id uuid.UUID) (*FolioResponse, error) {
	now := s.now()
	return s.mutate(ctx, outletID, id, notifications.EventBookingCancelled, func(b *Booking, _ *hotels.Room, _ *Booking) error {
		if !b.Status.CanBeCancelled() {
			return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidTransition, b.Status)
		}
		b.Status = StatusCancelled
		b.CancelledAt = &now
		return nil
	})
}

func (s *service) ExportBookings(ctx context.Context, outletID uuid.UUID, query ListQuery, w io.Writer) error {
	bookings, err := s.repo.ListForExport(ctx, outletID, query)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	return WriteBookingsXLSX(bookings, w)
}
