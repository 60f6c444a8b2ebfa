package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// SeedRepository reads the marketplace catalog from MongoDB. It is read-only:
// registry mutations are never written back.
type SeedRepository struct {
	restaurants *mongo.Collection
	meals       *mongo.Collection
}

func NewSeedRepository(db *mongo.Database) *SeedRepository {
	return &SeedRepository{
		restaurants: db.Collection(collectionRestaurants),
		meals:       db.Collection(collectionMeals),
	}
}

var _ ports.SeedSource = (*SeedRepository)(nil)

// Restaurants returns every restaurant in _id order.
func (r *SeedRepository) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.restaurants.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find restaurants: %w", err)
	}

	var out []domain.Restaurant
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	return out, nil
}

// Meals returns every seeded meal in creation order.
func (r *SeedRepository) Meals(ctx context.Context) ([]domain.Meal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.meals.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find meals: %w", err)
	}

	var out []domain.Meal
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode meals: %w", err)
	}
	return out, nil
}
