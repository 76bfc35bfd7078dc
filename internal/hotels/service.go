package hotels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"
	"outletdesk/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrAmenityNotFound  = errors.New("amenity not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrCategoryInUse    = errors.New("category still has rooms")
	ErrUnknownAmenity   = errors.New("one or more amenities do not exist in this outlet")
	ErrRoomHasBookings  = errors.New("room has active bookings")
	ErrInvalidStatus    = errors.New("invalid room status")
)

// ActiveBookingChecker lets the catalogue refuse destructive edits without importing bookings
type ActiveBookingChecker interface {
	HasActiveBookings(ctx context.Context, roomID uuid.UUID) (bool, error)
}

type Service interface {
	ListCategories(ctx context.Context, outletID uuid.UUID) ([]Category, error)
	GetCategory(ctx context.Context, outletID, id uuid.UUID) (*Category, error)
	CreateCategory(ctx context.Context, outletID uuid.UUID, req CreateCategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, outletID, id uuid.UUID) error

	ListAmenities(ctx context.Context, outletID uuid.UUID) ([]Amenity, error)
	GetAmenity(ctx context.Context, outletID, id uuid.UUID) (*Amenity, error)
	CreateAmenity(ctx context.Context, outletID uuid.UUID, req CreateAmenityRequest) (*Amenity, error)
	UpdateAmenity(ctx context.Context, outletID, id uuid.UUID, req UpdateAmenityRequest) (*Amenity, error)
	DeleteAmenity(ctx context.Context, outletID, id uuid.UUID) error

	ListRooms(ctx context.Context, outletID uuid.UUID, filter RoomFilter) ([]Room, error)
	GetRoom(ctx context.Context, outletID, id uuid.UUID) (*Room, error)
	CreateRoom(ctx context.Context, outletID uuid.UUID, req CreateRoomRequest) (*Room, error)
	UpdateRoom(ctx context.Context, outletID, id uuid.UUID, req UpdateRoomRequest) (*Room, error)
	UpdateRoomStatus(ctx context.Context, outletID, id uuid.UUID, req UpdateRoomStatusRequest) (*Room, error)
	DeleteRoom(ctx context.Context, outletID, id uuid.UUID) error
}

type service struct {
	repo     Repository
	bookings ActiveBookingChecker
	cache    cache.Service
	log      *logger.Logger
}

func NewService(repo Repository, bookings ActiveBookingChecker, cacheService cache.Service) Service {
	return &service{
		repo:     repo,
		bookings: bookings,
		cache:    cacheService,
		log:      logger.GetDefault(),
	}
}

// invalidate drops derived views (availability board, dashboard) of one outlet
func (s *service) invalidate(ctx context.Context, outletID uuid.UUID, catalogue bool) {
	if s.cache == nil {
		return
	}
	id := outletID.String()
	if err := s.cache.DeletePattern(ctx, constants.AvailabilityPattern(id)); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate availability cache", "outlet_id", id, "error", err.Error())
	}
	keys := []string{constants.BuildDashboardKey(id)}
	if catalogue {
		keys = append(keys, constants.BuildHotelCategoriesKey(id), constants.BuildHotelAmenitiesKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate hotel cache", "outlet_id", id, "error", err.Error())
	}
}

// Categories

func (s *service) ListCategories(ctx context.Context, outletID uuid.UUID) ([]Category, error) {
	if s.cache == nil {
		return s.repo.ListCategories(ctx, outletID)
	}
	var categories []Category
	err := s.cache.GetOrSet(ctx, constants.BuildHotelCategoriesKey(outletID.String()), constants.TTL_HOTEL_CATALOGUE,
		func() (interface{}, error) { return s.repo.ListCategories(ctx, outletID) }, &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *service) GetCategory(ctx context.Context, outletID, id uuid.UUID) (*Category, error) {
	return s.repo.GetCategory(ctx, outletID, id)
}

func (s *service) CreateCategory(ctx context.Context, outletID uuid.UUID, req CreateCategoryRequest) (*Category, error) {
	category := &Category{
		OutletID:    outletID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidate(ctx, outletID, true)
	return category, nil
}

func (s *service) UpdateCategory(ctx context.Context, outletID, id uuid.UUID, req UpdateCategoryRequest) (*Category, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return s.repo.GetCategory(ctx, outletID, id)
	}

	category, err := s.repo.UpdateCategory(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, outletID, true)
	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, outletID, id uuid.UUID) error {
	count, err := s.repo.CountRoomsInCategory(ctx, outletID, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.DeleteCategory(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidate(ctx, outletID, true)
	return nil
}

// Amenities

func (s *service) ListAmenities(ctx context.Context, outletID uuid.UUID) ([]Amenity, error) {
	if s.cache == nil {
		return s.repo.ListAmenities(ctx, outletID)
	}
	var amenities []Amenity
	err := s.cache.GetOrSet(ctx, constants.BuildHotelAmenitiesKey(outletID.String()), constants.TTL_HOTEL_CATALOGUE,
		func() (interface{}, error) { return s.repo.ListAmenities(ctx, outletID) }, &amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to list amenities: %w", err)
	}
	return amenities, nil
}

func (s *service) GetAmenity(ctx context.Context, outletID, id uuid.UUID) (*Amenity, error) {
	return s.repo.GetAmenity(ctx, outletID, id)
}

func (s *service) CreateAmenity(ctx context.Context, outletID uuid.UUID, req CreateAmenityRequest) (*Amenity, error) {
	amenity := &Amenity{
		OutletID:    outletID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Icon:        req.Icon,
	}
	if err := s.repo.CreateAmenity(ctx, amenity); err != nil {
		return nil, fmt.Errorf("failed to create amenity: %w", err)
	}
	s.invalidate(ctx, outletID, true)
	return amenity, nil
}

func (s *service) UpdateAmenity(ctx context.Context, outletID, id uuid.UUID, req UpdateAmenityRequest) (*Amenity, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if len(updates) == 0 {
		return s.repo.GetAmenity(ctx, outletID, id)
	}

	amenity, err := s.repo.UpdateAmenity(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, outletID, true)
	return amenity, nil
}

func (s *service) DeleteAmenity(ctx context.Context, outletID, id uuid.UUID) error {
	if err := s.repo.DeleteAmenity(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidate(ctx, outletID, true)
	return nil
}

// Rooms

func (s *service) ListRooms(ctx context.Context, outletID uuid.UUID, filter RoomFilter) ([]Room, error) {
	rooms, err := s.repo.ListRooms(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return FilterRooms(rooms, filter), nil
}

func (s *service) GetRoom(ctx context.Context, outletID, id uuid.UUID) (*Room, error) {
	return s.repo.GetRoom(ctx, outletID, id)
}

func (s *service) CreateRoom(ctx context.Context, outletID uuid.UUID, req CreateRoomRequest) (*Room, error) {
	categoryID := parseUUIDOrNil(req.CategoryID)
	if _, err := s.repo.GetCategory(ctx, outletID, categoryID); err != nil {
		return nil, err
	}

	amenityIDs, err := s.resolveAmenities(ctx, outletID, req.AmenityIDs)
	if err != nil {
		return nil, err
	}

	room := &Room{
		OutletID:   outletID,
		CategoryID: categoryID,
		Number:     strings.TrimSpace(req.Number),
		Price:      req.Price,
		Capacity:   req.Capacity,
		Status:     RoomStatusAvailable,
		AmenityIDs: amenityIDs,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	s.invalidate(ctx, outletID, false)
	return room, nil
}

func (s *service) UpdateRoom(ctx context.Context, outletID, id uuid.UUID, req UpdateRoomRequest) (*Room, error) {
	updates := map[string]interface{}{}
	if req.Number != nil {
		updates["number"] = strings.TrimSpace(*req.Number)
	}
	if req.CategoryID != nil {
		categoryID := parseUUIDOrNil(*req.CategoryID)
		if _, err := s.repo.GetCategory(ctx, outletID, categoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = categoryID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.AmenityIDs != nil {
		amenityIDs, err := s.resolveAmenities(ctx, outletID, *req.AmenityIDs)
		if err != nil {
			return nil, err
		}
		updates["amenity_ids"] = amenityIDs
	}
	if len(updates) == 0 {
		return s.repo.GetRoom(ctx, outletID, id)
	}

	room, err := s.repo.UpdateRoom(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, outletID, false)
	return room, nil
}

// UpdateRoomStatus flips the housekeeping flag; the note is kept only while in maintenance
func (s *service) UpdateRoomStatus(ctx context.Context, outletID, id uuid.UUID, req UpdateRoomStatusRequest) (*Room, error) {
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	note := ""
	if req.Status == RoomStatusMaintenance {
		note = strings.TrimSpace(req.Note)
	}

	room, err := s.repo.UpdateRoom(ctx, outletID, id, map[string]interface{}{
		"status":           req.Status,
		"maintenance_note": note,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, outletID, false)
	return room, nil
}

func (s *service) DeleteRoom(ctx context.Context, outletID, id uuid.UUID) error {
	if _, err := s.repo.GetRoom(ctx, outletID, id); err != nil {
		return err
	}
	if s.bookings != nil {
		active, err := s.bookings.HasActiveBookings(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check room bookings: %w", err)
		}
		if active {
			return ErrRoomHasBookings
		}
	}
	if err := s.repo.DeleteRoom(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidate(ctx, outletID, false)
	return nil
}

func (s *service) resolveAmenities(ctx context.Context, outletID uuid.UUID, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id := parseUUIDOrNil(r)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ids, nil
	}

	count, err := s.repo.CountAmenities(ctx, outletID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check amenities: %w", err)
	}
	if count != int64(len(ids)) {
		return nil, ErrUnknownAmenity
	}
	return ids, nil
}

// parseUUIDOrNil returns uuid.Nil for malformed input; callers pass values checked by the uuid binding tag
func parseUUIDOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
