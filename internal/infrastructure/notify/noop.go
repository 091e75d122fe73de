package notify

import (
	"context"

	"catalog-backend/internal/domain"
	"catalog-backend/pkg/logger"

	"github.com/google/uuid"
)

type noopQueue struct{}

// NewNoopQueue returns a NotificationQueue that acknowledges enqueue requests
// without dispatching anything. It stands in for an external task runtime
// that is deliberately out of scope.
func NewNoopQueue() domain.NotificationQueue {
	return &noopQueue{}
}

func (q *noopQueue) EnqueueUpdateNotification(ctx context.Context, productID int64) (domain.TaskHandle, error) {
	handle := domain.TaskHandle(uuid.New().String())
	logger.WithContext(ctx).Info().
		Int64("product_id", productID).
		Str("task_id", string(handle)).
		Msg("update notification accepted (no-op queue)")
	return handle, nil
}
