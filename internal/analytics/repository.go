package analytics

import (
	"context"
	"fmt"
	"time"

	"outletdesk/internal/bookings"
	"outletdesk/internal/restaurants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the dashboard queries
type Repository interface {
	RoomStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error)
	BookingFigures(ctx context.Context, outletID uuid.UUID, today time.Time) (*BookingFigures, error)
	OrderStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error)
	DeliveredRevenue(ctx context.Context, outletID uuid.UUID) (float64, error)
	VehicleStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error)
	ContactCount(ctx context.Context, outletID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new analytics repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) statusCounts(ctx context.Context, table string, outletID uuid.UUID) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Table(table).
		Select("status, COUNT(*) AS count").
		Where("outlet_id = ?", outletID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", table, err)
	}
	return rows, nil
}

func (r *repository) RoomStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	return r.statusCounts(ctx, "rooms", outletID)
}

func (r *repository) OrderStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	return r.statusCounts(ctx, "orders", outletID)
}

func (r *repository) VehicleStatusCounts(ctx context.Context, outletID uuid.UUID) ([]StatusCount, error) {
	return r.statusCounts(ctx, "vehicles", outletID)
}

func (r *repository) BookingFigures(ctx context.Context, outletID uuid.UUID, today time.Time) (*BookingFigures, error) {
	day := today.Format(time.DateOnly)
	var figures BookingFigures

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status IN (?, ?)) AS active,
			COUNT(*) FILTER (WHERE status = ? AND check_in = ?) AS arrivals,
			COUNT(*) FILTER (WHERE status = ? AND check_out = ?) AS departures
		FROM bookings
		WHERE outlet_id = ?`,
		bookings.StatusConfirmed, bookings.StatusCheckedIn,
		bookings.StatusConfirmed, day,
		bookings.StatusCheckedIn, day,
		outletID,
	).Scan(&figures).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	// room rent plus folio charges of settled stays
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE((SELECT SUM(b.total_price) FROM bookings b WHERE b.outlet_id = ? AND b.status = ?), 0) +
			COALESCE((SELECT SUM(fc.total) FROM folio_charges fc
				JOIN bookings b ON b.id = fc.booking_id
				WHERE b.outlet_id = ? AND b.status = ?), 0)`,
		outletID, bookings.StatusCompleted,
		outletID, bookings.StatusCompleted,
	).Scan(&figures.Revenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed revenue: %w", err)
	}

	return &figures, nil
}

func (r *repository) DeliveredRevenue(ctx context.Context, outletID uuid.UUID) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("COALESCE(SUM(total), 0)").
		Where("outlet_id = ? AND status = ?", outletID, restaurants.OrderStatusDelivered).
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum delivered orders: %w", err)
	}
	return revenue, nil
}

func (r *repository) ContactCount(ctx context.Context, outletID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("contacts").Where("outlet_id = ?", outletID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return int(count), nil
}
