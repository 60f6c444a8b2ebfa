package mq

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

func TestMessage(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	msg, err := message(domain.LifecycleEvent{
		Kind:       domain.EventMealDonated,
		MealID:     "meal-9",
		ActorID:    "user-1",
		Points:     50,
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Type != "meal.donated" || msg.ContentType != "application/json" {
		t.Errorf("unexpected headers: type=%q content-type=%q", msg.Type, msg.ContentType)
	}
	if msg.DeliveryMode != amqp.Persistent {
		t.Errorf("expected persistent delivery")
	}
	if msg.MessageId == "" {
		t.Errorf("expected a message id")
	}
	if !msg.Timestamp.Equal(at) {
		t.Errorf("timestamp: got %v", msg.Timestamp)
	}

	var decoded domain.LifecycleEvent
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.MealID != "meal-9" || decoded.Points != 50 {
		t.Errorf("unexpected body: %+v", decoded)
	}
}
