// Package cache provides the idempotency result cache backings: redis for
// production, an in-process map for tests and single-node deployments.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
)

const keyPrefix = "pos:settlement:"

type redisCache struct {
	client *redis.Client
}

func NewRedis(addr string) core.IResultCache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}
