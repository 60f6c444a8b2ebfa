package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

type marketplaceFixture struct {
	meals       *MealRegistry
	restaurants *RestaurantRegistry
	sessions    *Sessions
	store       *memSessionStore
	events      *recordingPublisher
	svc         ports.Marketplace
}

func newMarketplaceFixture(t *testing.T, opts ...MealRegistryOption) *marketplaceFixture {
	t.Helper()

	f := &marketplaceFixture{
		meals:       newLoadedMealRegistry(opts...),
		restaurants: newLoadedRestaurantRegistry(),
		store:       newMemSessionStore(),
		events:      &recordingPublisher{},
	}
	f.sessions = NewSessions(f.store, discardLogger)
	f.svc = NewMarketplace(f.meals, f.restaurants, f.sessions, f.events, discardLogger)
	return f
}

func (f *marketplaceFixture) login(t *testing.T, id string) {
	t.Helper()
	_, err := f.sessions.Open(context.Background(), id, testUser(id))
	require.NoError(t, err)
}

func TestMarketplace_DonateReserveComplete(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "donor")
	f.login(t, "recipient")
	ctx := context.Background()

	donated, err := f.svc.DonateMenuItem(ctx, ports.DonateMenuItemInput{
		SessionID: "donor", RestaurantID: "rest-1", MenuItemID: "item-1", ExpiryHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, donated.PointsAwarded)
	assert.Equal(t, 50, donated.User.Points)
	assert.Equal(t, 1, donated.User.DonationCount)
	assert.Equal(t, "Pizza Palace", donated.Meal.RestaurantName)
	assert.Equal(t, "donor", donated.Meal.DonorID)
	assert.Equal(t, domain.MealAvailable, donated.Meal.Status)

	reserved, err := f.svc.ReserveMeal(ctx, "recipient", donated.Meal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MealReserved, reserved.Meal.Status)
	assert.Equal(t, 1, reserved.User.ReceivedCount)
	assert.Zero(t, reserved.User.Points)
	require.Len(t, f.meals.Reserved("recipient"), 1)

	completed, err := f.svc.CompleteMeal(ctx, "recipient", donated.Meal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MealCompleted, completed.Meal.Status)
	assert.Equal(t, 50, completed.PointsAwarded)
	assert.Equal(t, 50, completed.User.Points)
	assert.Empty(t, f.meals.Reserved(""))

	assert.Equal(t, []domain.EventKind{
		domain.EventMealDonated, domain.EventMealReserved, domain.EventMealCompleted,
	}, f.events.kinds())
}

func TestMarketplace_DonateDefaultsExpiry(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "donor")

	res, err := f.svc.DonateMenuItem(context.Background(), ports.DonateMenuItemInput{
		SessionID: "donor", RestaurantID: "rest-2", MenuItemID: "item-b",
	})

	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(DefaultExpiryHours*time.Hour), res.Meal.ExpiresAt)
	assert.Equal(t, 20, res.PointsAwarded)
}

func TestMarketplace_DonateDoesNotChangeSelection(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "donor")
	_, _ = f.restaurants.GetByID(context.Background(), "donor", "rest-2")

	_, err := f.svc.DonateMenuItem(context.Background(), ports.DonateMenuItemInput{
		SessionID: "donor", RestaurantID: "rest-1", MenuItemID: "item-1",
	})
	require.NoError(t, err)

	selected, _ := f.restaurants.Selected("donor")
	assert.Equal(t, "rest-2", selected.ID)
}

func TestMarketplace_RequiresSession(t *testing.T) {
	f := newMarketplaceFixture(t)
	ctx := context.Background()

	_, err := f.svc.DonateMenuItem(ctx, ports.DonateMenuItemInput{SessionID: "anon", RestaurantID: "rest-1", MenuItemID: "item-1"})
	require.ErrorIs(t, err, domain.ErrNoSession)
	_, err = f.svc.ReserveMeal(ctx, "anon", "seed-1")
	require.ErrorIs(t, err, domain.ErrNoSession)
	_, err = f.svc.CompleteMeal(ctx, "anon", "seed-1")
	require.ErrorIs(t, err, domain.ErrNoSession)

	assert.Len(t, f.meals.All(), 2)
	assert.Empty(t, f.meals.Reserved(""))
	assert.Empty(t, f.events.kinds())
}

func TestMarketplace_DonateUnknownCatalogEntries(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "donor")
	ctx := context.Background()

	_, err := f.svc.DonateMenuItem(ctx, ports.DonateMenuItemInput{SessionID: "donor", RestaurantID: "nope", MenuItemID: "item-1"})
	require.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	_, err = f.svc.DonateMenuItem(ctx, ports.DonateMenuItemInput{SessionID: "donor", RestaurantID: "rest-1", MenuItemID: "nope"})
	require.ErrorIs(t, err, domain.ErrMenuItemNotFound)

	_, err = f.svc.DonateMenuItem(ctx, ports.DonateMenuItemInput{SessionID: "donor", RestaurantID: "rest-1", MenuItemID: "item-1", ExpiryHours: -2})
	require.ErrorIs(t, err, domain.ErrValidation)

	assert.Len(t, f.meals.All(), 2)
	u, _ := f.sessions.ledgers["donor"].User()
	assert.Zero(t, u.Points)
}

func TestMarketplace_ReserveUnknownMeal(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")

	_, err := f.svc.ReserveMeal(context.Background(), "recipient", "nope")

	require.ErrorIs(t, err, domain.ErrNotFound)
	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Zero(t, u.ReceivedCount)
}

func TestMarketplace_DonateWithdrawnWhenCreditFails(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "donor")
	f.store.failAfter = f.store.saves

	_, err := f.svc.DonateMenuItem(context.Background(), ports.DonateMenuItemInput{
		SessionID: "donor", RestaurantID: "rest-1", MenuItemID: "item-1",
	})

	require.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Len(t, f.meals.All(), 2, "the uncredited meal is withdrawn")
	assert.Empty(t, f.meals.Donated(""))
	assert.Empty(t, f.events.kinds())
}

func TestMarketplace_ReserveRestoredWhenCreditFails(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")
	f.store.failAfter = f.store.saves

	_, err := f.svc.ReserveMeal(context.Background(), "recipient", "seed-1")

	require.ErrorIs(t, err, domain.ErrOperationFailed)
	meal, _ := f.meals.Get("seed-1")
	assert.Equal(t, domain.MealAvailable, meal.Status)
	assert.Empty(t, meal.RecipientID)
	assert.Empty(t, f.meals.Reserved(""))
}

func TestMarketplace_CompleteRestoredWhenCreditFails(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")
	ctx := context.Background()
	_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
	require.NoError(t, err)
	f.store.failAfter = f.store.saves

	_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")

	require.ErrorIs(t, err, domain.ErrOperationFailed)
	meal, _ := f.meals.Get("seed-1")
	assert.Equal(t, domain.MealReserved, meal.Status)
	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Zero(t, u.Points)

	f.store.failAfter = 0
	res, err := f.svc.CompleteMeal(ctx, "recipient", "seed-1")
	require.NoError(t, err)
	assert.Equal(t, 30, res.PointsAwarded, "a failed credit does not use up the award")
}

func TestMarketplace_StrictModeRejectsDoubleCompletion(t *testing.T) {
	f := newMarketplaceFixture(t, WithStrictTransitions(true))
	f.login(t, "recipient")
	ctx := context.Background()

	_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
	require.NoError(t, err)
	_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")
	require.NoError(t, err)

	_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Equal(t, 30, u.Points, "points are awarded once")
}

func TestMarketplace_CompleteWithoutReservationAwardsNothing(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := f.svc.CompleteMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)
		assert.Equal(t, domain.MealCompleted, res.Meal.Status)
		assert.Zero(t, res.PointsAwarded)
	}

	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Zero(t, u.Points)
	assert.Equal(t, []domain.EventKind{domain.EventMealCompleted}, f.events.kinds())
}

func TestMarketplace_OtherUsersReservationIsForbidden(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "alice")
	f.login(t, "mallory")
	ctx := context.Background()

	_, err := f.svc.ReserveMeal(ctx, "alice", "seed-1")
	require.NoError(t, err)

	_, err = f.svc.CompleteMeal(ctx, "mallory", "seed-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.ReserveMeal(ctx, "mallory", "seed-1")
	require.ErrorIs(t, err, domain.ErrForbidden)

	meal, _ := f.meals.Get("seed-1")
	assert.Equal(t, domain.MealReserved, meal.Status)
	assert.Equal(t, "alice", meal.RecipientID)
	m, _ := f.sessions.ledgers["mallory"].User()
	assert.Zero(t, m.Points)
	assert.Zero(t, m.ReceivedCount)

	res, err := f.svc.CompleteMeal(ctx, "alice", "seed-1")
	require.NoError(t, err)
	assert.Equal(t, 30, res.User.Points)
	assert.Equal(t, 1, res.User.ReceivedCount)
}

func TestMarketplace_RepeatedReserveCountsOnce(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)
	}

	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Equal(t, 1, u.ReceivedCount)
	assert.Len(t, f.meals.Reserved("recipient"), 1)
	assert.Equal(t, []domain.EventKind{domain.EventMealReserved}, f.events.kinds())
}

func TestMarketplace_CompletionAwardedOncePerMeal(t *testing.T) {
	f := newMarketplaceFixture(t)
	f.login(t, "recipient")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)
		_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)
	}

	u, _ := f.sessions.ledgers["recipient"].User()
	assert.Equal(t, 30, u.Points)
	assert.Equal(t, 1, u.ReceivedCount, "re-reserving a completed meal is not a new pickup")
}

type stubCreditGuard struct {
	first    bool
	err      error
	released []string
}

func (g *stubCreditGuard) Claim(context.Context, string) (bool, error) { return g.first, g.err }

func (g *stubCreditGuard) Release(_ context.Context, key string) error {
	g.released = append(g.released, key)
	return nil
}

func TestMarketplace_CreditGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("claimed elsewhere", func(t *testing.T) {
		f := newMarketplaceFixture(t)
		f.svc = NewMarketplace(f.meals, f.restaurants, f.sessions, f.events, discardLogger,
			WithCreditGuard(&stubCreditGuard{first: false}))
		f.login(t, "recipient")
		_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)

		res, err := f.svc.CompleteMeal(ctx, "recipient", "seed-1")

		require.NoError(t, err)
		assert.Equal(t, domain.MealCompleted, res.Meal.Status)
		assert.Zero(t, res.PointsAwarded)
		assert.Zero(t, res.User.Points)
	})

	t.Run("guard unavailable", func(t *testing.T) {
		f := newMarketplaceFixture(t)
		f.svc = NewMarketplace(f.meals, f.restaurants, f.sessions, f.events, discardLogger,
			WithCreditGuard(&stubCreditGuard{err: errStoreDown}))
		f.login(t, "recipient")
		_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)

		_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")

		require.ErrorIs(t, err, domain.ErrOperationFailed)
		meal, _ := f.meals.Get("seed-1")
		assert.Equal(t, domain.MealReserved, meal.Status)
	})

	t.Run("released when credit fails", func(t *testing.T) {
		f := newMarketplaceFixture(t)
		guard := &stubCreditGuard{first: true}
		f.svc = NewMarketplace(f.meals, f.restaurants, f.sessions, f.events, discardLogger, WithCreditGuard(guard))
		f.login(t, "recipient")
		_, err := f.svc.ReserveMeal(ctx, "recipient", "seed-1")
		require.NoError(t, err)
		f.store.failAfter = f.store.saves

		_, err = f.svc.CompleteMeal(ctx, "recipient", "seed-1")

		require.ErrorIs(t, err, domain.ErrOperationFailed)
		assert.Equal(t, []string{"meal.completed:seed-1"}, guard.released)
	})
}

func TestMarketplace_NilPublisher(t *testing.T) {
	meals := newLoadedMealRegistry()
	sessions := NewSessions(nil, discardLogger)
	svc := NewMarketplace(meals, newLoadedRestaurantRegistry(), sessions, nil, discardLogger)
	_, err := sessions.Open(context.Background(), "r", testUser("r"))
	require.NoError(t, err)

	_, err = svc.ReserveMeal(context.Background(), "r", "seed-2")
	assert.NoError(t, err)
}
