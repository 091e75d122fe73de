package cache

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"catalog-backend/pkg/cache"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected a miss for an unknown key")
	}

	c.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := c.Get(ctx, "k")
	if !ok || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("expected hit with %q, got %q (ok=%v)", "v", got, ok)
	}

	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected a miss after delete")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
	if _, ok := c.Get(ctx, "short"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get(ctx, "short"); ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestGetOrComputeComputesOnce(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}

	first, err := cache.GetOrCompute(ctx, c, "k", time.Minute, compute)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := cache.GetOrCompute(ctx, c, "k", time.Minute, compute)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one compute, got %d", calls)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical bytes, got %q and %q", first, second)
	}
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	wantErr := errors.New("store down")
	_, err := cache.GetOrCompute(ctx, c, "k", time.Minute, func() ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("failed compute must not populate the cache")
	}
}
