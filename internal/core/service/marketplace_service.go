package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// DefaultExpiryHours is used when a donor does not declare an expiry.
const DefaultExpiryHours = 4

type marketplace struct {
	meals       *MealRegistry
	restaurants *RestaurantRegistry
	sessions    *Sessions
	events      ports.EventPublisher
	credits     ports.CreditGuard
	log         zerolog.Logger
}

// MarketplaceOption customises the use-case service.
type MarketplaceOption func(*marketplace)

// WithCreditGuard shares completion awards with other replicas. Without it
// the guard is local to the process.
func WithCreditGuard(g ports.CreditGuard) MarketplaceOption {
	return func(s *marketplace) { s.credits = g }
}

// NewMarketplace returns the use-case service that sequences meal registry
// and ledger updates. A nil publisher disables lifecycle events.
func NewMarketplace(
	meals *MealRegistry,
	restaurants *RestaurantRegistry,
	sessions *Sessions,
	events ports.EventPublisher,
	log zerolog.Logger,
	opts ...MarketplaceOption,
) ports.Marketplace {
	s := &marketplace{
		meals:       meals,
		restaurants: restaurants,
		sessions:    sessions,
		events:      events,
		credits:     newLocalCredits(),
		log:         log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DonateMenuItem lists a catalog entry as a meal and credits the donor with
// the meal's points and one donation. If the credit cannot be recorded the
// meal is withdrawn again.
func (s *marketplace) DonateMenuItem(ctx context.Context, in ports.DonateMenuItemInput) (*ports.DonationResult, error) {
	ledger, user, err := s.authenticated(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("donate: %w", err)
	}

	rest, err := s.restaurants.Find(in.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("donate: %w", err)
	}
	i := rest.MenuItemIndex(in.MenuItemID)
	if i == -1 {
		return nil, fmt.Errorf("donate: %w", domain.ErrMenuItemNotFound)
	}
	item := rest.MenuItems[i]

	hours := in.ExpiryHours
	if hours == 0 {
		hours = DefaultExpiryHours
	}

	meal, err := s.meals.Donate(ctx, ports.DonateMealInput{
		Name:           item.Name,
		Description:    item.Description,
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
		ImageURL:       item.ImageURL,
		Price:          item.Price,
		Distance:       rest.Distance,
		ExpiryHours:    hours,
		Location:       rest.Location,
		DonorID:        user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("donate: %w", err)
	}

	if err := ledger.Credit(ctx, meal.Points, 1, 0); err != nil {
		if wErr := s.meals.Withdraw(meal.ID); wErr != nil {
			s.log.Error().Err(wErr).Str("meal_id", meal.ID).Msg("failed to withdraw uncredited donation")
		}
		return nil, fmt.Errorf("donate: credit donor: %w", err)
	}

	s.publish(domain.LifecycleEvent{
		Kind:         domain.EventMealDonated,
		MealID:       meal.ID,
		RestaurantID: meal.RestaurantID,
		ActorID:      user.ID,
		Points:       meal.Points,
		OccurredAt:   meal.CreatedAt,
	})

	credited, _ := ledger.User()
	return &ports.DonationResult{Meal: *meal, PointsAwarded: meal.Points, User: credited}, nil
}

// ReserveMeal reserves a meal for the session user. Only a reservation of
// an available meal counts as received; repeating it changes nothing on the
// ledger. A meal held by another user cannot be taken over.
func (s *marketplace) ReserveMeal(ctx context.Context, sessionID, mealID string) (*ports.MealActionResult, error) {
	ledger, user, err := s.authenticated(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}

	prior, err := s.meals.Get(mealID)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}
	if heldByOther(prior, user.ID) {
		return nil, fmt.Errorf("reserve %s: reserved by another user: %w", mealID, domain.ErrForbidden)
	}
	meal, err := s.meals.Reserve(ctx, mealID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("reserve: %w", err)
	}

	if prior.Status == domain.MealAvailable {
		if err := ledger.Credit(ctx, 0, 0, 1); err != nil {
			s.rollback(prior, domain.MealReserved)
			return nil, fmt.Errorf("reserve: credit recipient: %w", err)
		}
	}

	if prior.Status != domain.MealReserved {
		s.publish(domain.LifecycleEvent{
			Kind:         domain.EventMealReserved,
			MealID:       meal.ID,
			RestaurantID: meal.RestaurantID,
			ActorID:      user.ID,
			OccurredAt:   utcNow(),
		})
	}

	credited, _ := ledger.User()
	return &ports.MealActionResult{Meal: meal, User: credited}, nil
}

// CompleteMeal marks a pickup done. The meal's points go to its recipient,
// once per meal, and only when the meal was reserved beforehand. Completing
// another user's reservation is forbidden.
func (s *marketplace) CompleteMeal(ctx context.Context, sessionID, mealID string) (*ports.MealActionResult, error) {
	ledger, user, err := s.authenticated(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	prior, err := s.meals.Get(mealID)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	if heldByOther(prior, user.ID) {
		return nil, fmt.Errorf("complete %s: reserved by another user: %w", mealID, domain.ErrForbidden)
	}
	meal, err := s.meals.Complete(ctx, mealID)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	awarded := 0
	if prior.Status == domain.MealReserved {
		key := completionKey(mealID)
		first, err := s.credits.Claim(ctx, key)
		if err != nil {
			s.rollback(prior, domain.MealCompleted)
			return nil, fmt.Errorf("complete: claim award: %w: %v", domain.ErrOperationFailed, err)
		}
		if first {
			if err := ledger.Credit(ctx, meal.Points, 0, 0); err != nil {
				if rErr := s.credits.Release(ctx, key); rErr != nil {
					s.log.Error().Err(rErr).Str("meal_id", mealID).Msg("failed to release completion award")
				}
				s.rollback(prior, domain.MealCompleted)
				return nil, fmt.Errorf("complete: credit recipient: %w", err)
			}
			awarded = meal.Points
		}
	}

	if prior.Status != domain.MealCompleted {
		s.publish(domain.LifecycleEvent{
			Kind:         domain.EventMealCompleted,
			MealID:       meal.ID,
			RestaurantID: meal.RestaurantID,
			ActorID:      user.ID,
			Points:       awarded,
			OccurredAt:   utcNow(),
		})
	}

	credited, _ := ledger.User()
	return &ports.MealActionResult{Meal: meal, PointsAwarded: awarded, User: credited}, nil
}

// heldByOther reports whether m is reserved for someone other than userID.
func heldByOther(m domain.Meal, userID string) bool {
	return m.Status == domain.MealReserved && m.RecipientID != "" && m.RecipientID != userID
}

func completionKey(mealID string) string {
	return string(domain.EventMealCompleted) + ":" + mealID
}

// localCredits is the in-process CreditGuard.
type localCredits struct {
	mu      sync.Mutex
	claimed map[string]bool
}

func newLocalCredits() *localCredits {
	return &localCredits{claimed: make(map[string]bool)}
}

func (l *localCredits) Claim(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.claimed[key] {
		return false, nil
	}
	l.claimed[key] = true
	return true, nil
}

func (l *localCredits) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claimed, key)
	return nil
}

func (s *marketplace) authenticated(ctx context.Context, sessionID string) (*Ledger, domain.User, error) {
	ledger, err := s.sessions.Ledger(ctx, sessionID)
	if err != nil {
		return nil, domain.User{}, err
	}
	user, ok := ledger.User()
	if !ok {
		return nil, domain.User{}, domain.ErrNoSession
	}
	return ledger, user, nil
}

func (s *marketplace) rollback(prior domain.Meal, applied domain.MealStatus) {
	if err := s.meals.Restore(prior, applied); err != nil {
		s.log.Error().Err(err).Str("meal_id", prior.ID).Msg("failed to restore meal after ledger error")
		return
	}
	s.log.Warn().Str("meal_id", prior.ID).Str("status", string(prior.Status)).Msg("meal restored after ledger error")
}

func (s *marketplace) publish(e domain.LifecycleEvent) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(e)
}
