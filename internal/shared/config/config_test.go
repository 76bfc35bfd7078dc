package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HOTEL_TIMEZONE", "")
	t.Setenv("KAFKA_ENABLED", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "outlet-events", cfg.Kafka.Topic)
	assert.Equal(t, 30*time.Second, cfg.Redis.AvailabilityTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN, "dbname=outletdesk_db")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("JWT_EXPIRES_IN", "60")
	t.Setenv("REDIS_ROOM_LOCK_TTL", "5s")
	t.Setenv("SMTP_MAX_PER_SECOND", "2.5")
	t.Setenv("RATE_LIMIT_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, time.Minute, cfg.JWT.JWTExpiresIn)
	assert.Equal(t, 5*time.Second, cfg.Redis.RoomLockTTL)
	assert.Equal(t, 2.5, cfg.Email.MaxPerSecond)
	assert.True(t, cfg.RateLimit.Enabled, "unparsable values fall back to the default")
}

func TestLocation(t *testing.T) {
	cfg := &Config{HotelTimezone: "Europe/Berlin"}
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())

	cfg.HotelTimezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}
