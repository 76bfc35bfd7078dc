package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database-level guards for concurrent room bookings
func MigrateConstraints(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}

	// No two active bookings of a room may share a night. Same-day stays
	// occupy the night of check-in, matching the availability check.
	err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap'
			) THEN
				ALTER TABLE bookings
				ADD CONSTRAINT bookings_no_overlap
				EXCLUDE USING gist (
					room_id WITH =,
					daterange(check_in, GREATEST(check_out, check_in + 1), '[)') WITH &&
				) WHERE (status NOT IN ('cancelled', 'completed'));
			END IF;
		END $$;
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_outlet_dates
		ON bookings (outlet_id, check_in, check_out);
	`).Error
}
