package domain

import "time"

// EventKind names a marketplace lifecycle event.
type EventKind string

const (
	EventMealDonated     EventKind = "meal.donated"
	EventMealReserved    EventKind = "meal.reserved"
	EventMealCompleted   EventKind = "meal.completed"
	EventCampaignToggled EventKind = "campaign.toggled"
	EventMenuChanged     EventKind = "menu.changed"
)

// LifecycleEvent records a successful marketplace mutation for audit and
// downstream consumers.
type LifecycleEvent struct {
	Kind         EventKind `json:"kind" bson:"kind"`
	MealID       string    `json:"meal_id,omitempty" bson:"meal_id,omitempty"`
	RestaurantID string    `json:"restaurant_id,omitempty" bson:"restaurant_id,omitempty"`
	ActorID      string    `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Points       int       `json:"points,omitempty" bson:"points,omitempty"`
	OccurredAt   time.Time `json:"occurred_at" bson:"occurred_at"`
}

// AggregateID is the key used to keep per-aggregate event ordering.
func (e LifecycleEvent) AggregateID() string {
	if e.MealID != "" {
		return e.MealID
	}
	return e.RestaurantID
}
