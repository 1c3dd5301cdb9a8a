package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ThrottleStore rate-limits request sources with a sliding window.
type ThrottleStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type throttleStore struct {
	client *redis.Client
}

func NewThrottleStore(client *redis.Client) ThrottleStore {
	return &throttleStore{client: client}
}

// Allow records the request in a sorted set keyed by source and counts how
// many fall inside the window. Redis being down fails open; throttling is a
// shield, not a dependency.
func (s *throttleStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	redisKey := "throttle:" + key
	windowStart := now.Add(-window)

	pipe := s.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	count := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return count.Val() < int64(limit), nil
}
