package cache

import (
	"context"
	"delivery-planning-session/internal/domain"
	"delivery-planning-session/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache stores planner results with a TTL. Safe to share across
// server instances.
type RedisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanCache(client *redis.Client, ttl time.Duration) *RedisPlanCache {
	return &RedisPlanCache{client: client, ttl: ttl}
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) (_ domain.PlanningResult, ok bool, err error) {
	defer obs.Time(ctx, "plan.cache.redis.Get")(&err)

	if c.client == nil {
		return domain.PlanningResult{}, false, errors.New("plan cache: redis client is nil")
	}

	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PlanningResult{}, false, nil
	}
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache %q: %w", key, err)
	}

	r, err := decodeResult(b)
	if err != nil {
		return domain.PlanningResult{}, false, fmt.Errorf("get plan cache %q: %w", key, err)
	}
	return r, true, nil
}

func (c *RedisPlanCache) Put(ctx context.Context, key string, result domain.PlanningResult) error {
	if c.client == nil {
		return errors.New("plan cache: redis client is nil")
	}

	b, err := encodeResult(result)
	if err != nil {
		return fmt.Errorf("put plan cache %q: %w", key, err)
	}

	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put plan cache %q: %w", key, err)
	}
	return nil
}
