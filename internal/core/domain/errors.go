package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the kind shared by every identifier lookup miss.
// Use errors.Is(err, ErrNotFound) to test for any of the specific misses.
var ErrNotFound = errors.New("not found")

var (
	ErrMealNotFound       = fmt.Errorf("meal %w", ErrNotFound)
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrMenuItemNotFound   = fmt.Errorf("menu item %w", ErrNotFound)
)

var ErrValidation = errors.New("validation failed")
var ErrOperationFailed = errors.New("operation failed")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrNoSession = errors.New("no authenticated session")
var ErrForbidden = errors.New("access forbidden")

// Invalid wraps ErrValidation with the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}
