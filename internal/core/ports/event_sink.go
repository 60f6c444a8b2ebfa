package ports

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// EventSink receives lifecycle events after the dispatcher dequeues them.
type EventSink interface {
	Publish(ctx context.Context, event domain.LifecycleEvent) error
}

// EventPublisher is what the use-case layer talks to. Publishing never
// blocks the caller on sink I/O.
type EventPublisher interface {
	Enqueue(event domain.LifecycleEvent)
}
