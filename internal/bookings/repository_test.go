package bookings

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB renders SQL for the postgres dialect without a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=outletdesk dbname=outletdesk sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func TestConflictQuerySQL(t *testing.T) {
	db := dryRunDB(t)
	roomID := uuid.MustParse("6f1c2a7e-1111-4c3b-9a51-0d2b6c1e9a01")
	self := uuid.MustParse("6f1c2a7e-2222-4c3b-9a51-0d2b6c1e9a02")

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []Booking
		return conflictQuery(tx, roomID, date(t, "2026-03-15"), date(t, "2026-03-18"), self).Find(&out)
	})

	assert.Contains(t, sql, `FROM "bookings"`)
	assert.Contains(t, sql, "room_id = '"+roomID.String()+"'")
	assert.Contains(t, sql, "check_in < '2026-03-18'::date")
	assert.Contains(t, sql, "GREATEST(check_out, check_in + 1) > '2026-03-15'::date")
	assert.Contains(t, sql, "status NOT IN ('cancelled','completed')")
	assert.Contains(t, sql, "id <> '"+self.String()+"'")
	assert.Contains(t, sql, "ORDER BY check_in ASC LIMIT 1")
}

func TestConflictQuerySameDayStayBlocksOneNight(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []Booking
		return conflictQuery(tx, uuid.New(), date(t, "2026-03-15"), date(t, "2026-03-15"), uuid.Nil).Find(&out)
	})

	assert.Contains(t, sql, "check_in < '2026-03-16'::date")
	assert.Contains(t, sql, "> '2026-03-15'::date")
	assert.NotContains(t, sql, "id <>")
}

func TestTranslateError(t *testing.T) {
	excl := fmt.Errorf("failed to create bookings: %w", &pgconn.PgError{Code: pgExclusionViolation, ConstraintName: "bookings_no_overlap"})
	assert.ErrorIs(t, translateError(excl), ErrRoomUnavailable)

	unique := &pgconn.PgError{Code: "23505"}
	assert.Same(t, error(unique), translateError(unique))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateError(plain))
}
