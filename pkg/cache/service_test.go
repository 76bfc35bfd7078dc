package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomSummary struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func newTestService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(client), mr
}

func TestService_GetMiss(t *testing.T) {
	svc, _ := newTestService(t)

	var out roomSummary
	err := svc.Get(context.Background(), "outletdesk:missing", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestService_SetGetExpire(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "outletdesk:room:1", roomSummary{Name: "101", Price: 100}, time.Minute))
	assert.True(t, svc.Exists(ctx, "outletdesk:room:1"))

	var out roomSummary
	require.NoError(t, svc.Get(ctx, "outletdesk:room:1", &out))
	assert.Equal(t, "101", out.Name)

	mr.FastForward(2 * time.Minute)
	assert.False(t, svc.Exists(ctx, "outletdesk:room:1"))
}

func TestService_GetOrSetCallsFetcherOnce(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []roomSummary{{Name: "101", Price: 100}, {Name: "102", Price: 150}}, nil
	}

	var first, second []roomSummary
	require.NoError(t, svc.GetOrSet(ctx, "outletdesk:rooms", time.Minute, fetch, &first))
	require.NoError(t, svc.GetOrSet(ctx, "outletdesk:rooms", time.Minute, fetch, &second))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
}

func TestService_GetOrSetPropagatesFetcherError(t *testing.T) {
	svc, _ := newTestService(t)
	boom := errors.New("db down")

	var out []roomSummary
	err := svc.GetOrSet(context.Background(), "outletdesk:rooms", time.Minute, func() (interface{}, error) {
		return nil, boom
	}, &out)
	assert.ErrorIs(t, err, boom)
}

func TestService_DeletePattern(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "outletdesk:availability:o1:a", 1, time.Minute))
	require.NoError(t, svc.Set(ctx, "outletdesk:availability:o1:b", 2, time.Minute))
	require.NoError(t, svc.Set(ctx, "outletdesk:availability:o2:a", 3, time.Minute))

	require.NoError(t, svc.DeletePattern(ctx, "outletdesk:availability:o1:*"))

	assert.Equal(t, []string{"outletdesk:availability:o2:a"}, mr.Keys())
}
