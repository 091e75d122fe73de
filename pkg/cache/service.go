package cache

import (
	"context"
	"time"
)

// Service is a best-effort byte-valued key-value cache. Implementations must
// never fail a read path: a backend error is reported as a miss.
type Service interface {
	// Get retrieves a value. Returns nil, false on miss or backend error.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with a TTL. Errors are swallowed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes a value. Errors are swallowed.
	Delete(ctx context.Context, key string)
}

// GetOrCompute returns the cached value for key if present and unexpired;
// otherwise it invokes compute, stores the result under key with the given
// TTL, and returns it. A compute error is returned as-is and nothing is
// cached.
func GetOrCompute(ctx context.Context, c Service, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if val, ok := c.Get(ctx, key); ok {
		return val, nil
	}

	val, err := compute()
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, val, ttl)
	return val, nil
}
