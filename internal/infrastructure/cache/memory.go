package cache

import (
	"context"
	"time"

	"catalog-backend/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-process cache service.
// defaultExpiration: TTL applied when Set is called with ttl <= 0.
// cleanupInterval: how often expired items are scanned out.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.Service {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	val, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	b, ok := val.([]byte)
	return b, ok
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *memoryCache) Delete(_ context.Context, key string) {
	c.store.Delete(key)
}
