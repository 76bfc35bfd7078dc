package outlets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrNotMember       = errors.New("user has no access to this outlet")
	ErrUnknownStore    = errors.New("unknown client store")
	ErrStateNotFound   = errors.New("no saved state for this store")
	ErrInvalidSnapshot = errors.New("snapshot must be a JSON object")
)

type Service interface {
	MyOutlets(ctx context.Context, userID uuid.UUID, page, limit int) (*MyOutletsResponse, error)
	Authorize(ctx context.Context, userID, outletID uuid.UUID) (*Outlet, error)
	SelectOutlet(ctx context.Context, userID, outletID uuid.UUID) (*Outlet, error)
	GetState(ctx context.Context, userID uuid.UUID, store string) (json.RawMessage, error)
	SaveState(ctx context.Context, userID uuid.UUID, store string, snapshot json.RawMessage) error
}

type service struct {
	repo       Repository
	cache      cache.Service
	appVersion string
	stateTTL   time.Duration
}

func NewService(repo Repository, cacheService cache.Service, appVersion string, stateTTL time.Duration) Service {
	return &service{
		repo:       repo,
		cache:      cacheService,
		appVersion: appVersion,
		stateTTL:   stateTTL,
	}
}

func (s *service) MyOutlets(ctx context.Context, userID uuid.UUID, page, limit int) (*MyOutletsResponse, error) {
	memberships, total, err := s.repo.ListForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}

	entries := make([]OutletListEntry, 0, len(memberships))
	for _, m := range memberships {
		if m.Outlet == nil {
			continue
		}
		entries = append(entries, OutletListEntry{
			BusinessName: m.Outlet.BusinessName,
			OutletID:     m.OutletID.String(),
			UserRoleID:   m.ID.String(),
			Type:         m.Outlet.Type,
		})
	}

	return &MyOutletsResponse{
		Msg:        "Outlets fetched successfully",
		Data:       entries,
		Pagination: OutletsPagination{Total: total},
		Error:      false,
		AppVersion: s.appVersion,
	}, nil
}

// Authorize resolves the outlet if the user is a member, caching the answer briefly
func (s *service) Authorize(ctx context.Context, userID, outletID uuid.UUID) (*Outlet, error) {
	key := constants.BuildMembershipKey(userID.String(), outletID.String())

	var outlet Outlet
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &outlet); err == nil {
			return &outlet, nil
		}
	}

	membership, err := s.repo.FindMembership(ctx, userID, outletID)
	if err != nil {
		return nil, err
	}
	if membership.Outlet == nil {
		return nil, ErrNotMember
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, membership.Outlet, constants.TTL_OUTLET_MEMBERSHIP)
	}
	return membership.Outlet, nil
}

// SelectOutlet checks access and records the choice in the outlet-store snapshot
func (s *service) SelectOutlet(ctx context.Context, userID, outletID uuid.UUID) (*Outlet, error) {
	outlet, err := s.Authorize(ctx, userID, outletID)
	if err != nil {
		return nil, err
	}

	state, err := json.Marshal(outletStoreState{CurrentOutlet: outlet})
	if err != nil {
		return nil, err
	}
	snapshot, err := json.Marshal(clientSnapshot{State: state})
	if err != nil {
		return nil, err
	}

	if err := s.SaveState(ctx, userID, StoreOutlet, snapshot); err != nil {
		return nil, err
	}
	return outlet, nil
}

func (s *service) GetState(ctx context.Context, userID uuid.UUID, store string) (json.RawMessage, error) {
	if !IsValidStore(store) {
		return nil, ErrUnknownStore
	}

	var snapshot json.RawMessage
	err := s.cache.Get(ctx, constants.BuildClientStateKey(store, userID.String()), &snapshot)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return snapshot, nil
}

func (s *service) SaveState(ctx context.Context, userID uuid.UUID, store string, snapshot json.RawMessage) error {
	if !IsValidStore(store) {
		return ErrUnknownStore
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(snapshot, &probe); err != nil {
		return ErrInvalidSnapshot
	}

	if err := s.cache.Set(ctx, constants.BuildClientStateKey(store, userID.String()), snapshot, s.stateTTL); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
