package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs shared by the service tests
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type stubSeed struct {
	meals       []domain.Meal
	restaurants []domain.Restaurant
	err         error
}

func (s *stubSeed) Meals(context.Context) ([]domain.Meal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.Meal(nil), s.meals...), nil
}

func (s *stubSeed) Restaurants(context.Context) ([]domain.Restaurant, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Restaurant, len(s.restaurants))
	for i, r := range s.restaurants {
		out[i] = r.Clone()
	}
	return out, nil
}

// memSessionStore is an in-memory SessionStore/LanguageStore. failAfter > 0
// makes every save after that many successful saves fail.
type memSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]ports.LedgerSnapshot
	languages map[string]domain.Language
	saves     int
	failAfter int
	loadErr   error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		sessions:  make(map[string]ports.LedgerSnapshot),
		languages: make(map[string]domain.Language),
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *memSessionStore) LoadSession(_ context.Context, id string) (*ports.LedgerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	snap, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *memSessionStore) SaveSession(_ context.Context, id string, snap ports.LedgerSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && m.saves >= m.failAfter {
		return errStoreDown
	}
	m.saves++
	m.sessions[id] = snap
	return nil
}

func (m *memSessionStore) LoadLanguage(_ context.Context, id string) (domain.Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.languages[id], nil
}

func (m *memSessionStore) SaveLanguage(_ context.Context, id string, lang domain.Language) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && m.saves >= m.failAfter {
		return errStoreDown
	}
	m.saves++
	m.languages[id] = lang
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LifecycleEvent
}

func (p *recordingPublisher) Enqueue(e domain.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []domain.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func pizzaPalace() domain.Restaurant {
	return domain.Restaurant{
		ID:       "rest-1",
		Name:     "Pizza Palace",
		Cuisine:  "Italian",
		Distance: "0.8 km",
		Location: domain.Coordinates{Lat: 37.7749, Lng: -122.4194},
		MenuItems: []domain.MenuItem{
			{ID: "item-1", Name: "Margherita", Description: "Tomato and basil", Price: 10.00, Category: "Pizza", IsPopular: true},
		},
	}
}

func sushiSpot() domain.Restaurant {
	return domain.Restaurant{
		ID:             "rest-2",
		Name:           "Sushi Spot",
		Cuisine:        "Japanese",
		CampaignActive: true,
		MenuItems: []domain.MenuItem{
			{ID: "item-a", Name: "Salmon Roll", Price: 8.5},
			{ID: "item-b", Name: "Miso Soup", Price: 3.99},
		},
	}
}

func seededMeal(id string, status domain.MealStatus) domain.Meal {
	return domain.Meal{
		ID:           id,
		Name:         "Seed meal " + id,
		RestaurantID: "rest-1",
		Price:        6,
		Points:       30,
		Status:       status,
		CreatedAt:    fixedNow.Add(-time.Hour),
		ExpiresAt:    fixedNow.Add(3 * time.Hour),
	}
}

func newLoadedMealRegistry(opts ...MealRegistryOption) *MealRegistry {
	seed := &stubSeed{meals: []domain.Meal{
		seededMeal("seed-1", domain.MealAvailable),
		seededMeal("seed-2", domain.MealAvailable),
	}}
	opts = append([]MealRegistryOption{WithMealClock(func() time.Time { return fixedNow })}, opts...)
	r := NewMealRegistry(seed, discardLogger, opts...)
	if err := r.FetchAll(context.Background()); err != nil {
		panic(err)
	}
	return r
}

func newLoadedRestaurantRegistry(opts ...RestaurantRegistryOption) *RestaurantRegistry {
	seed := &stubSeed{restaurants: []domain.Restaurant{pizzaPalace(), sushiSpot()}}
	r := NewRestaurantRegistry(seed, discardLogger, opts...)
	if err := r.FetchAll(context.Background()); err != nil {
		panic(err)
	}
	return r
}

func donation(price float64, hours int) ports.DonateMealInput {
	return ports.DonateMealInput{
		Name:           "Margherita",
		RestaurantID:   "rest-1",
		RestaurantName: "Pizza Palace",
		Price:          price,
		ExpiryHours:    hours,
		DonorID:        "user-donor",
	}
}
