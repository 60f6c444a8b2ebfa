// Package mongo persists seed catalogs and the lifecycle audit trail.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collectionRestaurants = "restaurants"
	collectionMeals       = "meals"
	collectionEvents      = "meal_events"
)

// collectionIndexes lists secondary indexes per collection.
var collectionIndexes = map[string][]mongo.IndexModel{
	collectionMeals: {
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}}},
	},
	collectionEvents: {
		{Keys: bson.D{{Key: "meal_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
	},
}

// Config selects the server and database. Zero Timeout means defaultTimeout.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

func (c Config) clientOptions() (*options.ClientOptions, time.Duration) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := options.Client().ApplyURI(c.URI).SetTimeout(timeout)
	if c.AppName != "" {
		opts.SetAppName(c.AppName)
	}
	return opts, timeout
}

// Connect dials the server and pings it before handing back the database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts, timeout := cfg.clientOptions()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates every index in collectionIndexes. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for name, models := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
