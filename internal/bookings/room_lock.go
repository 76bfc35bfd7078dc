package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outletdesk/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRoomLocked = errors.New("room is being booked by another request")

// RoomLocker serialises booking writes on the same rooms across API instances
type RoomLocker interface {
	// Lock takes every room or none; the returned token releases them
	Lock(ctx context.Context, roomIDs []uuid.UUID) (string, error)
	Unlock(ctx context.Context, roomIDs []uuid.UUID, token string) error
}

// KEYS = room lock keys, ARGV[1] = owner token, ARGV[2] = ttl in ms
// returns {1, n} on success or {0, index of the first held key}
var lockRoomsScript = redis.NewScript(`
for i = 1, #KEYS do
    local holder = redis.call("GET", KEYS[i])
    if holder and holder ~= ARGV[1] then
        return {0, i}
    end
end

for i = 1, #KEYS do
    redis.call("SET", KEYS[i], ARGV[1], "PX", ARGV[2])
end

return {1, #KEYS}
`)

// KEYS = room lock keys, ARGV[1] = owner token; only keys still owned by the token are removed
var unlockRoomsScript = redis.NewScript(`
local released = 0
for i = 1, #KEYS do
    if redis.call("GET", KEYS[i]) == ARGV[1] then
        redis.call("DEL", KEYS[i])
        released = released + 1
    end
end
return released
`)

type redisRoomLocker struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisRoomLocker(client *redis.Client, ttl time.Duration) RoomLocker {
	return &redisRoomLocker{redis: client, ttl: ttl}
}

func lockKeys(roomIDs []uuid.UUID) []string {
	keys := make([]string, len(roomIDs))
	for i, id := range roomIDs {
		keys[i] = constants.BuildRoomLockKey(id.String())
	}
	return keys
}

func (l *redisRoomLocker) Lock(ctx context.Context, roomIDs []uuid.UUID) (string, error) {
	if l.redis == nil {
		return "", fmt.Errorf("redis client not available")
	}
	if len(roomIDs) == 0 {
		return "", nil
	}

	token := uuid.NewString()
	result, err := lockRoomsScript.Run(ctx, l.redis, lockKeys(roomIDs), token, l.ttl.Milliseconds()).Slice()
	if err != nil {
		return "", fmt.Errorf("failed to execute room lock: %w", err)
	}
	if len(result) != 2 {
		return "", fmt.Errorf("unexpected result format from room lock script")
	}

	ok, _ := result[0].(int64)
	if ok == 1 {
		return token, nil
	}

	idx, _ := result[1].(int64)
	if idx >= 1 && int(idx) <= len(roomIDs) {
		return "", fmt.Errorf("%w: %s", ErrRoomLocked, roomIDs[idx-1])
	}
	return "", ErrRoomLocked
}

func (l *redisRoomLocker) Unlock(ctx context.Context, roomIDs []uuid.UUID, token string) error {
	if l.redis == nil || token == "" || len(roomIDs) == 0 {
		return nil
	}
	if err := unlockRoomsScript.Run(ctx, l.redis, lockKeys(roomIDs), token).Err(); err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}

// noopRoomLocker is used when Redis is unavailable; the row locks and exclusion constraint still hold
type noopRoomLocker struct{}

func NewNoopRoomLocker() RoomLocker { return noopRoomLocker{} }

func (noopRoomLocker) Lock(ctx context.Context, roomIDs []uuid.UUID) (string, error) { return "", nil }

func (noopRoomLocker) Unlock(ctx context.Context, roomIDs []uuid.UUID, token string) error {
	return nil
}
