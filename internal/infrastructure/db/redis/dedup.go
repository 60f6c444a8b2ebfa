package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mealbridge/marketplace/internal/core/ports"
)

// claimTTL outlives the longest meal expiry, so an award cannot be claimed
// twice while the meal can still change hands.
const claimTTL = 7 * 24 * time.Hour

// DedupChecker lets only one replica hand out a given one-time award.
// Key format: dedup:<award key>
type DedupChecker struct {
	client *redis.Client
}

var _ ports.CreditGuard = (*DedupChecker)(nil)

// NewDedupChecker returns a checker backed by client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// Claim reports whether this caller is the first to claim key.
func (d *DedupChecker) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, dedupKey(key), "1", claimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim %s: %w", key, err)
	}
	return ok, nil
}

// Release frees a claim whose award could not be recorded.
func (d *DedupChecker) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, dedupKey(key)).Err(); err != nil {
		return fmt.Errorf("dedup release %s: %w", key, err)
	}
	return nil
}

func dedupKey(key string) string {
	return "dedup:" + key
}
