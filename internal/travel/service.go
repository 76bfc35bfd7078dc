package travel

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
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrContactNotFound = errors.New("contact not found")
)

type Service interface {
	ListVehicles(ctx context.Context, outletID uuid.UUID, query VehicleQuery) ([]Vehicle, error)
	GetVehicle(ctx context.Context, outletID, id uuid.UUID) (*Vehicle, error)
	CreateVehicle(ctx context.Context, outletID uuid.UUID, req CreateVehicleRequest) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, outletID, id uuid.UUID, req UpdateVehicleRequest) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, outletID, id uuid.UUID) error

	ListContacts(ctx context.Context, outletID uuid.UUID, search string) ([]Contact, error)
	GetContact(ctx context.Context, outletID, id uuid.UUID) (*Contact, error)
	CreateContact(ctx context.Context, outletID uuid.UUID, req CreateContactRequest) (*Contact, error)
	UpdateContact(ctx context.Context, outletID, id uuid.UUID, req UpdateContactRequest) (*Contact, error)
	DeleteContact(ctx context.Context, outletID, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService, log: logger.GetDefault()}
}

// the dashboard counts vehicles by status
func (s *service) invalidateDashboard(ctx context.Context, outletID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, constants.BuildDashboardKey(outletID.String())); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate dashboard cache", "outlet_id", outletID.String(), "error", err.Error())
	}
}

func normalizeRegistration(r string) string {
	return strings.ToUpper(strings.Join(strings.Fields(r), " "))
}

// Vehicles

func (s *service) ListVehicles(ctx context.Context, outletID uuid.UUID, query VehicleQuery) ([]Vehicle, error) {
	return s.repo.ListVehicles(ctx, outletID, query)
}

func (s *service) GetVehicle(ctx context.Context, outletID, id uuid.UUID) (*Vehicle, error) {
	return s.repo.GetVehicle(ctx, outletID, id)
}

func (s *service) CreateVehicle(ctx context.Context, outletID uuid.UUID, req CreateVehicleRequest) (*Vehicle, error) {
	vehicle := &Vehicle{
		OutletID:     outletID,
		Name:         strings.TrimSpace(req.Name),
		Type:         req.Type,
		Registration: normalizeRegistration(req.Registration),
		Capacity:     req.Capacity,
		Status:       req.Status,
	}
	if vehicle.Status == "" {
		vehicle.Status = VehicleStatusActive
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	s.invalidateDashboard(ctx, outletID)
	return vehicle, nil
}

func (s *service) UpdateVehicle(ctx context.Context, outletID, id uuid.UUID, req UpdateVehicleRequest) (*Vehicle, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Registration != nil {
		updates["registration"] = normalizeRegistration(*req.Registration)
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return s.repo.GetVehicle(ctx, outletID, id)
	}

	vehicle, err := s.repo.UpdateVehicle(ctx, outletID, id, updates)
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, outletID)
	return vehicle, nil
}

func (s *service) DeleteVehicle(ctx context.Context, outletID, id uuid.UUID) error {
	if err := s.repo.DeleteVehicle(ctx, outletID, id); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, outletID)
	return nil
}

// Contacts

func (s *service) ListContacts(ctx context.Context, outletID uuid.UUID, search string) ([]Contact, error) {
	return s.repo.ListContacts(ctx, outletID, search)
}

func (s *service) GetContact(ctx context.Context, outletID, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, outletID, id)
}

func (s *service) CreateContact(ctx context.Context, outletID uuid.UUID, req CreateContactRequest) (*Contact, error) {
	contact := &Contact{
		OutletID: outletID,
		Name:     strings.TrimSpace(req.Name),
		Role:     strings.TrimSpace(req.Role),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Notes:    strings.TrimSpace(req.Notes),
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

func (s *service) UpdateContact(ctx context.Context, outletID, id uuid.UUID, req UpdateContactRequest) (*Contact, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		updates["role"] = strings.TrimSpace(*req.Role)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}
	if len(updates) == 0 {
		return s.repo.GetContact(ctx, outletID, id)
	}
	return s.repo.UpdateContact(ctx, outletID, id, updates)
}

func (s *service) DeleteContact(ctx context.Context, outletID, id uuid.UUID) error {
	return s.repo.DeleteContact(ctx, outletID, id)
}
