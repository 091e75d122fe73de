package domain

import "context"

// TaskHandle identifies an enqueued background task.
type TaskHandle string

// IdentityClass buckets callers for rate limiting.
type IdentityClass string

const (
	IdentityAnonymous     IdentityClass = "anonymous"
	IdentityAuthenticated IdentityClass = "authenticated"
)

// NotificationQueue is the boundary to an external task runtime. The service
// itself ships no runtime; the default implementation acknowledges and drops.
type NotificationQueue interface {
	EnqueueUpdateNotification(ctx context.Context, productID int64) (TaskHandle, error)
}
