package ports

import "context"

// CreditGuard hands out one-time award claims. Claim reports true only to
// the first caller for key; Release gives an unused claim back.
type CreditGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
