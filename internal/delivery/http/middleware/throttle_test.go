package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-backend/internal/domain"
)

func TestClassThrottleRejectsOverLimit(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{
		domain.IdentityAnonymous: 3,
	})
	now := time.Now()

	for i := 0; i < 3; i++ {
		ok, _ := th.Allow(domain.IdentityAnonymous, now)
		if !ok {
			t.Fatalf("request %d should be within the limit", i+1)
		}
	}

	ok, retryAfter := th.Allow(domain.IdentityAnonymous, now.Add(10*time.Second))
	if ok {
		t.Fatal("request over the limit should be rejected")
	}
	if retryAfter != 50*time.Second {
		t.Fatalf("expected retry hint of 50s, got %v", retryAfter)
	}
}

func TestClassThrottleWindowRollover(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{
		domain.IdentityAnonymous: 1,
	})
	now := time.Now()

	if ok, _ := th.Allow(domain.IdentityAnonymous, now); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := th.Allow(domain.IdentityAnonymous, now.Add(59*time.Second)); ok {
		t.Fatal("second request inside the window should be rejected")
	}
	if ok, _ := th.Allow(domain.IdentityAnonymous, now.Add(time.Minute)); !ok {
		t.Fatal("request at rollover should start a fresh window")
	}
}

func TestClassThrottleClassesAreIndependent(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{
		domain.IdentityAnonymous:     1,
		domain.IdentityAuthenticated: 2,
	})
	now := time.Now()

	th.Allow(domain.IdentityAnonymous, now)
	if ok, _ := th.Allow(domain.IdentityAnonymous, now); ok {
		t.Fatal("anonymous should be exhausted")
	}
	if ok, _ := th.Allow(domain.IdentityAuthenticated, now); !ok {
		t.Fatal("authenticated budget must not be consumed by anonymous traffic")
	}
}

func TestClassThrottleUnknownClassPasses(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{})
	if ok, _ := th.Allow(domain.IdentityAnonymous, time.Now()); !ok {
		t.Fatal("class without a configured limit should pass")
	}
}

func TestThrottleMiddlewareReturns429(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{
		domain.IdentityAnonymous: 1,
	})
	handler := th.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("429 response must carry a Retry-After header")
	}
}

func TestThrottleMiddlewareUsesIdentityClass(t *testing.T) {
	th := NewClassThrottle(time.Minute, map[domain.IdentityClass]int{
		domain.IdentityAnonymous:     1,
		domain.IdentityAuthenticated: 10,
	})
	handler := th.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, anon)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, anon)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("anonymous should be throttled, got %d", w.Code)
	}

	ctx := context.WithValue(context.Background(), identityKey{}, domain.IdentityAuthenticated)
	auth := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil).WithContext(ctx)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, auth)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated caller should still pass, got %d", w.Code)
	}
}
