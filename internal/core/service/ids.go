package service

import (
	"time"

	"github.com/google/uuid"
)

// newID returns a prefixed random identifier, e.g. "meal-1f0c…".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func utcNow() time.Time {
	return time.Now().UTC()
}
