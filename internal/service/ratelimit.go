package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter guards write endpoints with per-user cooldown keys.
type RateLimiter interface {
	// Acquire claims the cooldown for an action. It returns false when the
	// cooldown is already held.
	Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error)
	// TTL reports how long the cooldown for an action has left to run.
	TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error)
	// Release drops the cooldown early, e.g. when the guarded operation failed
	// and the user should be allowed to retry.
	Release(ctx context.Context, userID uuid.UUID, action string) error
}

type redisRateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter builds a redis-backed limiter. A nil client disables
// limiting entirely, which keeps local setups without redis working.
func NewRateLimiter(rdb *redis.Client) RateLimiter {
	return &redisRateLimiter{rdb: rdb}
}

func rateLimitKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
}

func (l *redisRateLimiter) Acquire(ctx context.Context, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if l.rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := l.rdb.SetNX(ctx, rateLimitKey(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func (l *redisRateLimiter) TTL(ctx context.Context, userID uuid.UUID, action string) (time.Duration, error) {
	if l.rdb == nil {
		return 0, nil
	}
	return l.rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

func (l *redisRateLimiter) Release(ctx context.Context, userID uuid.UUID, action string) error {
	if l.rdb == nil {
		return nil
	}
	_, err := l.rdb.Del(ctx, rateLimitKey(userID, action)).Result()
	return err
}
