package recognition

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort lookaside cache for lookup and search results.
// Misses and storage errors are indistinguishable on purpose.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type redisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a Redis-backed lookup cache.
func NewRedisCache(client redis.UniversalClient) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	_ = c.client.Set(ctx, key, value, ttl).Err()
}
