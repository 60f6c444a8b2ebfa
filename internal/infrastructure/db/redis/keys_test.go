package redis

import (
	"testing"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

func TestKeys(t *testing.T) {
	if got := sessionKey("user-42"); got != "user-storage:user-42" {
		t.Errorf("session key: got %q", got)
	}
	if got := languageKey("user-42"); got != "language-storage:user-42" {
		t.Errorf("language key: got %q", got)
	}
}

func TestDedupKey_PrefixesAwardKey(t *testing.T) {
	if got := dedupKey(string(domain.EventMealCompleted) + ":meal-1"); got != "dedup:meal.completed:meal-1" {
		t.Errorf("award key: got %q", got)
	}
}
