package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mealbridge/marketplace/internal/core/ports"
)

// Bootstrap copies the catalog from src into empty seed collections so a
// fresh database serves the same data as the built-in seed. Collections that
// already hold documents are left alone.
func Bootstrap(ctx context.Context, db *mongo.Database, src ports.SeedSource) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inserted := 0

	restaurants, err := src.Restaurants(ctx)
	if err != nil {
		return 0, fmt.Errorf("bootstrap restaurants: %w", err)
	}
	docs := make([]any, len(restaurants))
	for i, r := range restaurants {
		docs[i] = r
	}
	n, err := insertIfEmpty(ctx, db.Collection(collectionRestaurants), docs)
	if err != nil {
		return 0, fmt.Errorf("bootstrap restaurants: %w", err)
	}
	inserted += n

	meals, err := src.Meals(ctx)
	if err != nil {
		return inserted, fmt.Errorf("bootstrap meals: %w", err)
	}
	docs = make([]any, len(meals))
	for i, m := range meals {
		docs[i] = m
	}
	n, err = insertIfEmpty(ctx, db.Collection(collectionMeals), docs)
	if err != nil {
		return inserted, fmt.Errorf("bootstrap meals: %w", err)
	}
	return inserted + n, nil
}

func insertIfEmpty(ctx context.Context, coll *mongo.Collection, docs []any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	if count > 0 {
		return 0, nil
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		// Another replica seeded the collection concurrently.
		if mongo.IsDuplicateKeyError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	return len(res.InsertedIDs), nil
}
