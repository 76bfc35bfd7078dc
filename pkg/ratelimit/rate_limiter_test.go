package ratelimit

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimiter(client, cfg), mr
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		AuthRequests:    3,
		DefaultRequests: 10,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d should pass", i+1)
		assert.Equal(t, 3-i-1, res.Remaining)
	}

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	// other clients and other budgets are independent
	res, err = limiter.IsAllowed(ctx, "10.0.0.2", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter, _ := newTestLimiter(t, &Config{
		Enabled:         true,
		WindowDuration:  time.Minute,
		DefaultRequests: 1,
	})
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	limiter.now = func() time.Time { return base.Add(61 * time.Second) }
	res, err = limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiter_DisabledAndWhitelisted(t *testing.T) {
	limiter, mr := newTestLimiter(t, &Config{
		Enabled:         false,
		WindowDuration:  time.Minute,
		DefaultRequests: 1,
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := limiter.IsAllowed(ctx, "10.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	assert.Empty(t, mr.Keys())

	limiter.config.Enabled = true
	limiter.config.WhitelistedIPs = []string{"127.0.0.1"}
	for i := 0; i < 5; i++ {
		res, err := limiter.IsAllowed(ctx, "127.0.0.1", RateLimitTypeDefault)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}

func TestGetRateLimitType(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodPost, "/api/v1/auth/login", RateLimitTypeAuth},
		{http.MethodGet, "/api/v1/outlets/:outletID/dashboard", RateLimitTypeAnalytics},
		{http.MethodPost, "/api/v1/outlets/:outletID/hotel/bookings", RateLimitTypeBookingCritical},
		{http.MethodPost, "/api/v1/outlets/:outletID/hotel/bookings/:id/checkout", RateLimitTypeBookingCritical},
		{http.MethodGet, "/api/v1/outlets/:outletID/hotel/bookings", RateLimitTypeBooking},
		{http.MethodPost, "/api/v1/outlets/:outletID/restaurant/orders/:id/advance", RateLimitTypeBooking},
		{http.MethodPost, "/api/v1/outlets/:outletID/hotel/rooms", RateLimitTypeAdmin},
		{http.MethodGet, "/api/v1/outlets/:outletID/hotel/rooms", RateLimitTypeDefault},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, getRateLimitType(tc.method, tc.path), tc.method+" "+tc.path)
	}
}
