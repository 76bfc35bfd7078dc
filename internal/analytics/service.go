package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"outletdesk/internal/bookings"
	"outletdesk/internal/hotels"
	"outletdesk/internal/outlets"
	"outletdesk/internal/restaurants"
	"outletdesk/internal/shared/constants"
	"outletdesk/pkg/cache"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownOutletType = errors.New("unknown outlet type")

// Service defines the analytics service interface
type Service interface {
	GetDashboard(ctx context.Context, outletID uuid.UUID, outletType outlets.OutletType) (*Dashboard, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	location *time.Location
	now      func() time.Time
}

// NewService creates a new analytics service instance; location decides
// which calendar day counts as today for arrivals and departures.
func NewService(repo Repository, cacheService cache.Service, location *time.Location) Service {
	if location == nil {
		location = time.UTC
	}
	return &service{repo: repo, cache: cacheService, location: location, now: time.Now}
}

func (s *service) GetDashboard(ctx context.Context, outletID uuid.UUID, outletType outlets.OutletType) (*Dashboard, error) {
	if !outletType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOutletType, outletType)
	}

	if s.cache == nil {
		return s.build(ctx, outletID, outletType)
	}

	var dashboard Dashboard
	err := s.cache.GetOrSet(ctx, constants.BuildDashboardKey(outletID.String()), constants.TTL_DASHBOARD, func() (interface{}, error) {
		return s.build(ctx, outletID, outletType)
	}, &dashboard)
	if err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (s *service) build(ctx context.Context, outletID uuid.UUID, outletType outlets.OutletType) (*Dashboard, error) {
	dashboard := &Dashboard{
		OutletID:    outletID,
		OutletType:  string(outletType),
		GeneratedAt: s.now().UTC(),
	}

	var err error
	switch outletType {
	case outlets.OutletTypeHotel:
		dashboard.Hotel, err = s.hotelMetrics(ctx, outletID)
	case outlets.OutletTypeRestaurant:
		dashboard.Restaurant, err = s.restaurantMetrics(ctx, outletID)
	case outlets.OutletTypeTravel:
		dashboard.Travel, err = s.travelMetrics(ctx, outletID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s dashboard: %w", outletType, err)
	}
	return dashboard, nil
}

func (s *service) hotelMetrics(ctx context.Context, outletID uuid.UUID) (*HotelMetrics, error) {
	var (
		rooms   []StatusCount
		figures *BookingFigures
	)
	today := bookings.DateOf(s.now(), s.location)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rooms, err = s.repo.RoomStatusCounts(gctx, outletID)
		return err
	})
	g.Go(func() (err error) {
		figures, err = s.repo.BookingFigures(gctx, outletID, today)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus, total := toMap(rooms)
	return &HotelMetrics{
		TotalRooms:       total,
		RoomsByStatus:    byStatus,
		OccupancyRate:    percent(byStatus[string(hotels.RoomStatusOccupied)], total),
		ActiveBookings:   figures.Active,
		ArrivalsToday:    figures.Arrivals,
		DeparturesToday:  figures.Departures,
		CompletedRevenue: figures.Revenue,
	}, nil
}

func (s *service) restaurantMetrics(ctx context.Context, outletID uuid.UUID) (*RestaurantMetrics, error) {
	var (
		orders  []StatusCount
		revenue float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = s.repo.OrderStatusCounts(gctx, outletID)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = s.repo.DeliveredRevenue(gctx, outletID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus, _ := toMap(orders)
	open := 0
	for status, n := range byStatus {
		if !restaurants.OrderStatus(status).IsTerminal() {
			open += n
		}
	}
	return &RestaurantMetrics{
		OrdersByStatus:   byStatus,
		OpenOrders:       open,
		DeliveredRevenue: revenue,
	}, nil
}

func (s *service) travelMetrics(ctx context.Context, outletID uuid.UUID) (*TravelMetrics, error) {
	var (
		vehicles []StatusCount
		contacts int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vehicles, err = s.repo.VehicleStatusCounts(gctx, outletID)
		return err
	})
	g.Go(func() (err error) {
		contacts, err = s.repo.ContactCount(gctx, outletID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byStatus, total := toMap(vehicles)
	return &TravelMetrics{
		TotalVehicles:    total,
		VehiclesByStatus: byStatus,
		TotalContacts:    contacts,
	}, nil
}

// percent rounds part/whole to one decimal place
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(whole)) / 10
}
