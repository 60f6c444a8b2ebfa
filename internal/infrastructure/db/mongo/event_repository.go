package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// EventRepository is the lifecycle audit trail. It implements
// ports.EventSink so the dispatcher can fan events into it.
type EventRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		col: db.Collection(collectionEvents),
		now: func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.EventSink = (*EventRepository)(nil)

// Publish persists a lifecycle event to the meal_events audit collection.
func (r *EventRepository) Publish(ctx context.Context, event domain.LifecycleEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, auditDocument(event, r.now())); err != nil {
		return fmt.Errorf("insert meal event: %w", err)
	}
	return nil
}

func auditDocument(e domain.LifecycleEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"kind":         string(e.Kind),
		"occurred_at":  e.OccurredAt.UTC(),
		"processed_at": processedAt,
	}
	if e.MealID != "" {
		doc["meal_id"] = e.MealID
	}
	if e.RestaurantID != "" {
		doc["restaurant_id"] = e.RestaurantID
	}
	if e.ActorID != "" {
		doc["actor_id"] = e.ActorID
	}
	if e.Points != 0 {
		doc["points"] = e.Points
	}
	return doc
}
