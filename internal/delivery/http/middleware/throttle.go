package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"catalog-backend/config"
	"catalog-backend/internal/domain"
	"catalog-backend/pkg/utils"
)

// ClassLimits builds the throttle limit table from configuration.
func ClassLimits(cfg *config.Config) map[domain.IdentityClass]int {
	return map[domain.IdentityClass]int{
		domain.IdentityAnonymous:     cfg.ThrottleAnonLimit,
		domain.IdentityAuthenticated: cfg.ThrottleAuthLimit,
	}
}

// ClassThrottle admits requests per identity class over a fixed window. Each
// class gets one counter, not one per caller. The window is anchored at the
// first granted request and resets exactly at rollover.
type ClassThrottle struct {
	mu      sync.Mutex
	window  time.Duration
	limits  map[domain.IdentityClass]int
	buckets map[domain.IdentityClass]*windowCount
}

type windowCount struct {
	start time.Time
	count int
}

func NewClassThrottle(window time.Duration, limits map[domain.IdentityClass]int) *ClassThrottle {
	return &ClassThrottle{
		window:  window,
		limits:  limits,
		buckets: make(map[domain.IdentityClass]*windowCount),
	}
}

// Allow reports whether a request from class may proceed at time now. When
// rejected, the second return value is the duration until the window resets.
func (t *ClassThrottle) Allow(class domain.IdentityClass, now time.Time) (bool, time.Duration) {
	limit, ok := t.limits[class]
	if !ok {
		return true, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	b := t.buckets[class]
	if b == nil || now.Sub(b.start) >= t.window {
		b = &windowCount{start: now}
		t.buckets[class] = b
	}

	if b.count >= limit {
		return false, b.start.Add(t.window).Sub(now)
	}
	b.count++
	return true, 0
}

// Middleware rejects over-limit requests with 429 and a Retry-After hint.
func (t *ClassThrottle) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := IdentityFromContext(r.Context())
			ok, retryAfter := t.Allow(class, time.Now())
			if !ok {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				utils.WriteJSON(w, http.StatusTooManyRequests, map[string]interface{}{
					"error":       "rate limit exceeded",
					"retry_after": seconds,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
