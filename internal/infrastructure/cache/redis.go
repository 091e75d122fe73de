package cache

import (
	"context"
	"time"

	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/logger"

	rd "github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *rd.Client
}

// NewRedisCache wraps a Redis client as a cache service. Redis being down
// must never block a read, so every error degrades to a miss and is only
// logged at debug level.
func NewRedisCache(client *rd.Client) cache.Service {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != rd.Nil {
			logger.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
}
