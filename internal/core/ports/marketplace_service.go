package ports

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// DonateMealInput carries everything the meal registry needs to list a
// donation. The descriptive fields are copied into the meal as-is.
type DonateMealInput struct {
	Name           string
	Description    string
	RestaurantID   string
	RestaurantName string
	ImageURL       string
	Price          float64
	Distance       string
	ExpiryHours    int
	Location       domain.Coordinates
	IsSponsored    bool
	DonorID        string
}

// DonateMenuItemInput is the donor-facing request: pick a catalog entry and
// declare how long it stays collectable.
type DonateMenuItemInput struct {
	SessionID    string
	RestaurantID string
	MenuItemID   string
	ExpiryHours  int
}

// DonationResult is returned after a donation has been listed and credited.
type DonationResult struct {
	Meal          domain.Meal
	PointsAwarded int
	User          domain.User
}

// MealActionResult is returned by reserve and complete.
type MealActionResult struct {
	Meal          domain.Meal
	PointsAwarded int
	User          domain.User
}

// Marketplace sequences the multi-store use-cases.
type Marketplace interface {
	DonateMenuItem(ctx context.Context, in DonateMenuItemInput) (*DonationResult, error)
	ReserveMeal(ctx context.Context, sessionID, mealID string) (*MealActionResult, error)
	CompleteMeal(ctx context.Context, sessionID, mealID string) (*MealActionResult, error)
}

// MealReader is the read side of the meal registry used by the transport.
type MealReader interface {
	All() []domain.Meal
	Get(id string) (domain.Meal, error)
	Donated(donorID string) []domain.Meal
	Reserved(recipientID string) []domain.Meal
	FetchAll(ctx context.Context) error
}

// RestaurantCatalog is the restaurant registry contract used by the transport.
// The selected restaurant is tracked per session.
type RestaurantCatalog interface {
	FetchAll(ctx context.Context) error
	All() []domain.Restaurant
	Selected(sessionID string) (domain.Restaurant, bool)
	GetByID(ctx context.Context, sessionID, id string) (domain.Restaurant, error)
	AddMenuItem(ctx context.Context, restaurantID string, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, restaurantID string, item domain.MenuItem) error
	RemoveMenuItem(ctx context.Context, restaurantID, itemID string) error
	ToggleCampaign(ctx context.Context, restaurantID string) (bool, error)
}
