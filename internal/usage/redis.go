package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopsleuth/engine/internal/domain"
)

const redisKeyPrefix = "usage:"

// RedisTracker counts quota in Redis so the limit holds across instances.
// Counters live under usage:<user>:<utc-date> and expire with the window.
type RedisTracker struct {
	client *redis.Client
	limit  int
	now    func() time.Time
}

// NewRedisTracker builds a Redis-backed tracker. A limit of Unlimited
// disables enforcement.
func NewRedisTracker(client *redis.Client, limit int) *RedisTracker {
	return &RedisTracker{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

func (t *RedisTracker) CheckAndIncrement(ctx context.Context, userID string) (int, error) {
	if t.limit == Unlimited {
		return Unlimited, nil
	}

	now := t.now()
	key := redisKeyPrefix + dayKey(userID, now)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing usage counter: %w", err)
	}
	if count == 1 {
		// First use of the window; align expiry to midnight UTC.
		if err := t.client.Expire(ctx, key, untilMidnightUTC(now)).Err(); err != nil {
			return 0, fmt.Errorf("setting usage counter expiry: %w", err)
		}
	}

	if count > int64(t.limit) {
		return 0, domain.ErrQuotaExceeded
	}
	return t.limit - int(count), nil
}

func (t *RedisTracker) Remaining(ctx context.Context, userID string) (int, error) {
	if t.limit == Unlimited {
		return Unlimited, nil
	}

	key := redisKeyPrefix + dayKey(userID, t.now())
	count, err := t.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return t.limit, nil
		}
		return 0, fmt.Errorf("reading usage counter: %w", err)
	}

	remaining := t.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
