package ports

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// SeedSource supplies the initial marketplace data the registries load on
// FetchAll. Registries are never written back to it.
type SeedSource interface {
	Meals(ctx context.Context) ([]domain.Meal, error)
	Restaurants(ctx context.Context) ([]domain.Restaurant, error)
}
