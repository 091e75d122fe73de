package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"catalog-backend/pkg/cache"

	rd "github.com/redis/go-redis/v9"
)

// unreachableRedis returns a client pointed at a port nothing listens on,
// with retries off so failures surface immediately.
func unreachableRedis() *rd.Client {
	return rd.NewClient(&rd.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCacheUnreachableDegradesToMiss(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(unreachableRedis())

	c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected a miss when the backend is unreachable")
	}
	c.Delete(ctx, "k")
}

func TestGetOrComputeFallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(unreachableRedis())

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	for i := 0; i < 2; i++ {
		got, err := cache.GetOrCompute(ctx, c, "k", time.Minute, compute)
		if err != nil {
			t.Fatalf("call %d: cache trouble must not fail the read: %v", i+1, err)
		}
		if !bytes.Equal(got, []byte("fresh")) {
			t.Fatalf("call %d: expected computed bytes, got %q", i+1, got)
		}
	}
	if calls != 2 {
		t.Fatalf("expected compute on every call with the cache down, got %d", calls)
	}
}
