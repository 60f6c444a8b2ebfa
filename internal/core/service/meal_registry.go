package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// MealRegistry owns the meal collection and enforces the donation,
// reservation and completion lifecycle. Every mutation runs under the
// write lock as a single read-compute-replace step.
type MealRegistry struct {
	mu      sync.RWMutex
	meals   []domain.Meal
	lastErr error

	source ports.SeedSource
	strict bool
	now    func() time.Time
	newID  func() string
	log    zerolog.Logger
}

// MealRegistryOption customises a MealRegistry.
type MealRegistryOption func(*MealRegistry)

// WithStrictTransitions makes Reserve and Complete honour the status
// transition table instead of overwriting any prior status.
func WithStrictTransitions(strict bool) MealRegistryOption {
	return func(r *MealRegistry) { r.strict = strict }
}

// WithMealClock overrides the clock used for created/expiry timestamps.
func WithMealClock(now func() time.Time) MealRegistryOption {
	return func(r *MealRegistry) { r.now = now }
}

func NewMealRegistry(source ports.SeedSource, log zerolog.Logger, opts ...MealRegistryOption) *MealRegistry {
	r := &MealRegistry{
		source: source,
		now:    utcNow,
		newID:  func() string { return newID("meal") },
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchAll replaces the collection with the seed set. On failure the
// previous collection is kept and the error is recorded.
func (r *MealRegistry) FetchAll(ctx context.Context) error {
	meals, err := r.source.Meals(ctx)
	if err != nil {
		err = fmt.Errorf("fetch meals: %w: %v", domain.ErrOperationFailed, err)
		r.setErr(err)
		r.log.Error().Err(err).Msg("meal seed load failed, keeping previous collection")
		return err
	}

	loaded := make([]domain.Meal, 0, len(meals))
	for _, m := range meals {
		if m.Status == "" {
			m.Status = domain.MealAvailable
		}
		if !m.Status.Valid() {
			err := fmt.Errorf("fetch meals: %w: meal %s has unknown status %q", domain.ErrOperationFailed, m.ID, m.Status)
			r.setErr(err)
			return err
		}
		loaded = append(loaded, m)
	}

	r.mu.Lock()
	r.meals = loaded
	r.lastErr = nil
	r.mu.Unlock()

	r.log.Info().Int("meals", len(loaded)).Msg("meals loaded")
	return nil
}

// Donate lists a new meal. Points and timestamps are derived here; the
// caller is responsible for crediting the donor.
func (r *MealRegistry) Donate(ctx context.Context, in ports.DonateMealInput) (*domain.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateDonation(in); err != nil {
		r.setErr(err)
		return nil, err
	}

	createdAt := r.now()
	meal := domain.Meal{
		ID:             r.newID(),
		Name:           in.Name,
		Description:    in.Description,
		RestaurantID:   in.RestaurantID,
		RestaurantName: in.RestaurantName,
		ImageURL:       in.ImageURL,
		Price:          in.Price,
		Points:         domain.PointsForPrice(in.Price),
		Distance:       in.Distance,
		ExpiresIn:      fmt.Sprintf("%d hours", in.ExpiryHours),
		Location:       in.Location,
		IsSponsored:    in.IsSponsored,
		DonorID:        in.DonorID,
		Status:         domain.MealAvailable,
		CreatedAt:      createdAt,
		ExpiresAt:      domain.ExpiryFrom(createdAt, in.ExpiryHours),
	}

	r.mu.Lock()
	r.meals = append(r.meals, meal)
	r.lastErr = nil
	r.mu.Unlock()

	r.log.Info().
		Str("meal_id", meal.ID).
		Str("restaurant_id", meal.RestaurantID).
		Int("points", meal.Points).
		Msg("meal donated")

	out := meal
	return &out, nil
}

func validateDonation(in ports.DonateMealInput) error {
	switch {
	case strings.TrimSpace(in.RestaurantID) == "":
		return domain.Invalid("restaurant_id", "is required")
	case in.Price < 0:
		return domain.Invalid("price", "must not be negative")
	case in.Price > domain.MaxPrice:
		return domain.Invalid("price", fmt.Sprintf("must be at most %d", domain.MaxPrice))
	case in.ExpiryHours <= 0:
		return domain.Invalid("expiry_hours", "must be positive")
	}
	return nil
}

// Reserve marks a meal reserved for recipientID and returns the updated meal.
func (r *MealRegistry) Reserve(ctx context.Context, mealID, recipientID string) (domain.Meal, error) {
	return r.transition(ctx, mealID, domain.MealReserved, func(m *domain.Meal) {
		if recipientID != "" {
			m.RecipientID = recipientID
		}
	})
}

// Complete marks a meal completed and returns the updated meal.
func (r *MealRegistry) Complete(ctx context.Context, mealID string) (domain.Meal, error) {
	return r.transition(ctx, mealID, domain.MealCompleted, nil)
}

func (r *MealRegistry) transition(ctx context.Context, mealID string, to domain.MealStatus, mutate func(*domain.Meal)) (domain.Meal, error) {
	if err := ctx.Err(); err != nil {
		return domain.Meal{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(mealID)
	if idx == -1 {
		r.lastErr = fmt.Errorf("%s %s: %w", to, mealID, domain.ErrMealNotFound)
		return domain.Meal{}, r.lastErr
	}

	updated := r.meals[idx]
	if r.strict && !updated.Status.CanTransitionTo(to) {
		r.lastErr = fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, updated.Status, to)
		return domain.Meal{}, r.lastErr
	}
	updated.Status = to
	if mutate != nil {
		mutate(&updated)
	}
	r.meals[idx] = updated
	r.lastErr = nil

	r.log.Info().Str("meal_id", mealID).Str("status", string(to)).Msg("meal status changed")
	return updated, nil
}

// Restore puts back a prior snapshot of a meal, but only while the meal is
// still in the status expect. It undoes a transition whose follow-up step
// failed.
func (r *MealRegistry) Restore(prior domain.Meal, expect domain.MealStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(prior.ID)
	if idx == -1 {
		return fmt.Errorf("restore %s: %w", prior.ID, domain.ErrMealNotFound)
	}
	if r.meals[idx].Status != expect {
		return fmt.Errorf("restore %s: %w (now %s)", prior.ID, domain.ErrInvalidTransition, r.meals[idx].Status)
	}
	r.meals[idx].Status = prior.Status
	r.meals[idx].RecipientID = prior.RecipientID
	return nil
}

// Withdraw removes a meal from the collection. Only used to roll back a
// donation that could not be credited.
func (r *MealRegistry) Withdraw(mealID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(mealID)
	if idx == -1 {
		return fmt.Errorf("withdraw %s: %w", mealID, domain.ErrMealNotFound)
	}
	r.meals = append(r.meals[:idx:idx], r.meals[idx+1:]...)
	return nil
}

// All returns a copy of the master collection in insertion order.
func (r *MealRegistry) All() []domain.Meal {
	return r.filter(func(domain.Meal) bool { return true })
}

// Get returns a copy of the meal with the given id.
func (r *MealRegistry) Get(id string) (domain.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexOf(id); idx != -1 {
		return r.meals[idx], nil
	}
	return domain.Meal{}, domain.ErrMealNotFound
}

// Available lists meals that can still be reserved.
func (r *MealRegistry) Available() []domain.Meal {
	return r.filter(func(m domain.Meal) bool { return m.Status == domain.MealAvailable })
}

// Donated lists meals donated through this registry. An empty donorID
// lists every donation.
func (r *MealRegistry) Donated(donorID string) []domain.Meal {
	return r.filter(func(m domain.Meal) bool {
		return m.DonorID != "" && (donorID == "" || m.DonorID == donorID)
	})
}

// Reserved lists meals currently in the reserved state. An empty
// recipientID lists every reservation.
func (r *MealRegistry) Reserved(recipientID string) []domain.Meal {
	return r.filter(func(m domain.Meal) bool {
		return m.Status == domain.MealReserved && (recipientID == "" || m.RecipientID == recipientID)
	})
}

// LastError returns the error recorded by the most recent failed operation,
// or nil once a later operation succeeds.
func (r *MealRegistry) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

func (r *MealRegistry) filter(keep func(domain.Meal) bool) []domain.Meal {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Meal, 0, len(r.meals))
	for _, m := range r.meals {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// indexOf must be called with r.mu held.
func (r *MealRegistry) indexOf(id string) int {
	for i := range r.meals {
		if r.meals[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *MealRegistry) setErr(err error) {
	r.mu.Lock()
	r.lastErr = err
	r.mu.Unlock()
}
