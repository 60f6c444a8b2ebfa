package metrics

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// Sink turns delivered lifecycle events into counter increments.
type Sink struct{}

var _ ports.EventSink = Sink{}

func (Sink) Publish(_ context.Context, event domain.LifecycleEvent) error {
	LifecycleEventsTotal.WithLabelValues(string(event.Kind)).Inc()
	if event.Points > 0 {
		PointsAwardedTotal.WithLabelValues(string(event.Kind)).Add(float64(event.Points))
	}
	return nil
}

// RecordDrop is the dispatcher drop hook.
func RecordDrop(domain.LifecycleEvent) {
	EventsDroppedTotal.Inc()
}
