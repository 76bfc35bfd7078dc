package bookings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"outletdesk/internal/hotels"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgExclusionViolation is raised by the no-overlap constraint on bookings
const pgExclusionViolation = "23P01"

// PlanFunc turns the locked rooms of a batch into the bookings to insert
type PlanFunc func(rooms []hotels.Room) ([]Booking, error)

// MutateFunc edits a locked booking and its room in memory; new folio charges have a nil ID.
// inHouse is another checked-in booking currently holding the room, or nil.
type MutateFunc func(b *Booking, room *hotels.Room, inHouse *Booking) error

type Repository interface {
	CreateBookings(ctx context.Context, outletID uuid.UUID, roomIDs []uuid.UUID, plan PlanFunc) ([]Booking, error)
	Mutate(ctx context.Context, outletID, id uuid.UUID, fn MutateFunc) (*Booking, error)

	GetBooking(ctx context.Context, outletID, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	ListBlocking(ctx context.Context, outletID uuid.UUID, from, to time.Time) ([]Booking, error)
	ListForExport(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, error)
	ActiveBookingForRoom(ctx context.Context, outletID, roomID uuid.UUID) (*Booking, error)
	HasActiveBookings(ctx context.Context, roomID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var nonBlocking = []Status{StatusCancelled, StatusCompleted}

// CreateBookings locks the batch's room rows, lets plan price the stay, re-checks overlap and inserts
func (r *repository) CreateBookings(ctx context.Context, outletID uuid.UUID, roomIDs []uuid.UUID, plan PlanFunc) ([]Booking, error) {
	var created []Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms, err := lockRooms(tx, outletID, roomIDs)
		if err != nil {
			return err
		}

		bookings, err := plan(rooms)
		if err != nil {
			return err
		}

		var occupied []uuid.UUID
		for _, b := range bookings {
			conflict, err := findConflict(tx, b.RoomID, b.CheckIn, b.CheckOut, uuid.Nil)
			if err != nil {
				return err
			}
			if conflict != nil {
				return fmt.Errorf("%w: room %s is booked from %s to %s", ErrRoomUnavailable,
					roomNumber(rooms, b.RoomID), conflict.CheckIn.Format(DateLayout), conflict.CheckOut.Format(DateLayout))
			}
			if b.Status == StatusCheckedIn {
				occupied = append(occupied, b.RoomID)
			}
		}

		if err := tx.Omit(clause.Associations).Create(&bookings).Error; err != nil {
			return fmt.Errorf("failed to create bookings: %w", err)
		}

		if len(occupied) > 0 {
			err := tx.Model(&hotels.Room{}).
				Where("id IN ?", occupied).
				Updates(map[string]interface{}{"status": hotels.RoomStatusOccupied, "maintenance_note": ""}).Error
			if err != nil {
				return fmt.Errorf("failed to mark rooms occupied: %w", err)
			}
		}

		created = bookings
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return created, nil
}

// Mutate runs fn against the booking and its room with both rows locked
func (r *repository) Mutate(ctx context.Context, outletID, id uuid.UUID, fn MutateFunc) (*Booking, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("outlet_id = ? AND id = ?", outletID, id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if err := tx.Where("booking_id = ?", booking.ID).Order("created_at ASC").Find(&booking.FolioCharges).Error; err != nil {
			return err
		}

		rooms, err := lockRooms(tx, outletID, []uuid.UUID{booking.RoomID})
		if err != nil {
			return err
		}
		room := rooms[0]
		before, beforeRoom := booking, room

		inHouse, err := findInHouse(tx, room.ID, booking.ID)
		if err != nil {
			return err
		}

		if err := fn(&booking, &room, inHouse); err != nil {
			return err
		}

		if booking.Status.BlocksRoom() && !booking.CheckOut.Equal(before.CheckOut) {
			conflict, err := findConflict(tx, booking.RoomID, booking.CheckIn, booking.CheckOut, booking.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return fmt.Errorf("%w: room %s is booked from %s", ErrRoomUnavailable,
					room.Number, conflict.CheckIn.Format(DateLayout))
			}
		}

		for i := range booking.FolioCharges {
			charge := &booking.FolioCharges[i]
			if charge.ID != uuid.Nil {
				continue
			}
			charge.BookingID = booking.ID
			if err := tx.Create(charge).Error; err != nil {
				return fmt.Errorf("failed to add folio charge: %w", err)
			}
		}

		err = tx.Model(&Booking{}).Where("id = ?", booking.ID).Updates(map[string]interface{}{
			"status":         booking.Status,
			"check_out":      booking.CheckOut,
			"total_price":    booking.TotalPrice,
			"checked_in_at":  booking.CheckedInAt,
			"checked_out_at": booking.CheckedOutAt,
			"cancelled_at":   booking.CancelledAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		if room.Status != beforeRoom.Status || room.MaintenanceNote != beforeRoom.MaintenanceNote {
			err = tx.Model(&hotels.Room{}).Where("id = ?", room.ID).Updates(map[string]interface{}{
				"status":           room.Status,
				"maintenance_note": room.MaintenanceNote,
			}).Error
			if err != nil {
				return fmt.Errorf("failed to update room: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return r.GetBooking(ctx, outletID, id)
}

func (r *repository) GetBooking(ctx context.Context, outletID, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("FolioCharges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Room").
		Where("outlet_id = ? AND id = ?", outletID, id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListBookings(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	baseQuery := r.applyFilters(r.db.WithContext(ctx).Model(&Booking{}).Where("outlet_id = ?", outletID), query)
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("FolioCharges").
		Preload("Room").
		Order("check_in DESC, created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// ListBlocking returns bookings that hold any room of the outlet during [from, to)
func (r *repository) ListBlocking(ctx context.Context, outletID uuid.UUID, from, to time.Time) ([]Booking, error) {
	var bookings []Booking
	err := overlapping(r.db.WithContext(ctx).Where("outlet_id = ?", outletID), from, to).
		Where("status NOT IN ?", nonBlocking).
		Order("check_in ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListForExport(ctx context.Context, outletID uuid.UUID, query ListQuery) ([]Booking, error) {
	var bookings []Booking
	err := r.applyFilters(r.db.WithContext(ctx).Where("outlet_id = ?", outletID), query).
		Preload("FolioCharges").
		Preload("Room").
		Order("check_in ASC, created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ActiveBookingForRoom(ctx context.Context, outletID, roomID uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("FolioCharges", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Room").
		Where("outlet_id = ? AND room_id = ? AND status IN ?", outletID, roomID, []Status{StatusCheckedIn, StatusConfirmed}).
		Order(clause.Expr{SQL: "CASE WHEN status = ? THEN 0 ELSE 1 END, check_in ASC", Vars: []interface{}{StatusCheckedIn}}).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBooking
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) HasActiveBookings(ctx context.Context, roomID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("room_id = ? AND status NOT IN ?", roomID, nonBlocking).
		Count(&count).Error
	return count > 0, err
}

// lockRooms selects the rooms FOR UPDATE in id order so concurrent batches cannot deadlock
func lockRooms(tx *gorm.DB, outletID uuid.UUID, roomIDs []uuid.UUID) ([]hotels.Room, error) {
	var rooms []hotels.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("outlet_id = ? AND id IN ?", outletID, roomIDs).
		Order("id ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock rooms: %w", err)
	}
	if len(rooms) != len(roomIDs) {
		return nil, ErrRoomNotInOutlet
	}

	// hand rooms back in request order
	pos := make(map[uuid.UUID]int, len(roomIDs))
	for i, id := range roomIDs {
		pos[id] = i
	}
	sort.Slice(rooms, func(i, j int) bool { return pos[rooms[i].ID] < pos[rooms[j].ID] })
	return rooms, nil
}

// conflictQuery selects blocking bookings of the room that overlap [checkIn, checkOut)
func conflictQuery(tx *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time, exclude uuid.UUID) *gorm.DB {
	q := overlapping(tx.Where("room_id = ?", roomID), checkIn, checkOut).
		Where("status NOT IN ?", nonBlocking)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	return q.Order("check_in ASC").Limit(1)
}

// findConflict returns a blocking booking of the room that overlaps [checkIn, checkOut), or nil
func findConflict(tx *gorm.DB, roomID uuid.UUID, checkIn, checkOut time.Time, exclude uuid.UUID) (*Booking, error) {
	var conflicts []Booking
	if err := conflictQuery(tx, roomID, checkIn, checkOut, exclude).Find(&conflicts).Error; err != nil {
		return nil, fmt.Errorf("failed to check overlapping bookings: %w", err)
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

// findInHouse returns another checked-in booking of the room, or nil
func findInHouse(tx *gorm.DB, roomID, exclude uuid.UUID) (*Booking, error) {
	var guests []Booking
	err := tx.Where("room_id = ? AND status = ? AND id <> ?", roomID, StatusCheckedIn, exclude).
		Order("check_in ASC").
		Limit(1).
		Find(&guests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up in-house guest: %w", err)
	}
	if len(guests) == 0 {
		return nil, nil
	}
	return &guests[0], nil
}

// overlapping mirrors Booking.Conflicts in SQL, including the one-night minimum on both sides
func overlapping(q *gorm.DB, from, to time.Time) *gorm.DB {
	return q.Where("check_in < ?::date AND GREATEST(check_out, check_in + 1) > ?::date",
		StayEnd(from, to).Format(DateLayout), from.Format(DateLayout))
}

func (r *repository) applyFilters(query *gorm.DB, filters ListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.RoomID != "" {
		if roomID, err := uuid.Parse(filters.RoomID); err == nil {
			query = query.Where("room_id = ?", roomID)
		}
	}

	if filters.From != "" && filters.To != "" {
		from, errFrom := ParseDate(filters.From)
		to, errTo := ParseDate(filters.To)
		if errFrom == nil && errTo == nil {
			query = overlapping(query, from, to)
		}
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(guest_name) LIKE ? OR phone LIKE ?", like, like)
	}

	return query
}

func roomNumber(rooms []hotels.Room, id uuid.UUID) string {
	for _, r := range rooms {
		if r.ID == id {
			return r.Number
		}
	}
	return id.String()
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return fmt.Errorf("%w: overlapping stay rejected by the database", ErrRoomUnavailable)
	}
	return err
}
