package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// RestaurantRegistry owns restaurant profiles, their menu catalogs and one
// "selected restaurant" slot per session, used by detail and donation screens.
type RestaurantRegistry struct {
	mu          sync.RWMutex
	restaurants []domain.Restaurant
	selected    map[string]string // session id -> restaurant id
	lastErr     error

	source ports.SeedSource
	events ports.EventPublisher
	newID  func() string
	log    zerolog.Logger
}

// RestaurantRegistryOption customises a RestaurantRegistry.
type RestaurantRegistryOption func(*RestaurantRegistry)

// WithCatalogEvents publishes menu and campaign changes.
func WithCatalogEvents(p ports.EventPublisher) RestaurantRegistryOption {
	return func(r *RestaurantRegistry) { r.events = p }
}

func NewRestaurantRegistry(source ports.SeedSource, log zerolog.Logger, opts ...RestaurantRegistryOption) *RestaurantRegistry {
	r := &RestaurantRegistry{
		source:   source,
		selected: make(map[string]string),
		newID:  func() string { return newID("menu") },
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FetchAll replaces the collection with the seed set, keeping the previous
// collection when the source fails.
func (r *RestaurantRegistry) FetchAll(ctx context.Context) error {
	seed, err := r.source.Restaurants(ctx)
	if err != nil {
		err = fmt.Errorf("fetch restaurants: %w: %v", domain.ErrOperationFailed, err)
		r.mu.Lock()
		r.lastErr = err
		r.mu.Unlock()
		r.log.Error().Err(err).Msg("restaurant seed load failed, keeping previous collection")
		return err
	}

	loaded := make([]domain.Restaurant, len(seed))
	for i, rest := range seed {
		loaded[i] = rest.Clone()
	}

	r.mu.Lock()
	r.restaurants = loaded
	r.lastErr = nil
	r.mu.Unlock()

	r.log.Info().Int("restaurants", len(loaded)).Msg("restaurants loaded")
	return nil
}

// GetByID returns the restaurant and makes it the session's selected one,
// discarding that session's previous selection. Other sessions keep theirs.
func (r *RestaurantRegistry) GetByID(ctx context.Context, sessionID, id string) (domain.Restaurant, error) {
	if err := ctx.Err(); err != nil {
		return domain.Restaurant{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx == -1 {
		r.lastErr = fmt.Errorf("get restaurant %s: %w", id, domain.ErrRestaurantNotFound)
		return domain.Restaurant{}, r.lastErr
	}
	r.selected[sessionID] = id
	r.lastErr = nil
	return r.restaurants[idx].Clone(), nil
}

// Find returns a copy of the restaurant without touching the selection.
func (r *RestaurantRegistry) Find(id string) (domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx := r.indexOf(id); idx != -1 {
		return r.restaurants[idx].Clone(), nil
	}
	return domain.Restaurant{}, domain.ErrRestaurantNotFound
}

// MenuItem returns a copy of one catalog entry.
func (r *RestaurantRegistry) MenuItem(restaurantID, itemID string) (domain.MenuItem, error) {
	rest, err := r.Find(restaurantID)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if i := rest.MenuItemIndex(itemID); i != -1 {
		return rest.MenuItems[i], nil
	}
	return domain.MenuItem{}, domain.ErrMenuItemNotFound
}

// AddMenuItem assigns a fresh id to item and appends it to the catalog.
func (r *RestaurantRegistry) AddMenuItem(ctx context.Context, restaurantID string, item domain.MenuItem) (domain.MenuItem, error) {
	var added domain.MenuItem
	err := r.mutate(ctx, "add menu item", domain.EventMenuChanged, restaurantID, func(rest *domain.Restaurant) error {
		if err := item.Validate(); err != nil {
			return err
		}
		added = item
		added.ID = r.newID()
		rest.MenuItems = append(rest.MenuItems, added)
		return nil
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	return added, nil
}

// UpdateMenuItem replaces the catalog entry with the same id, in place.
func (r *RestaurantRegistry) UpdateMenuItem(ctx context.Context, restaurantID string, item domain.MenuItem) error {
	return r.mutate(ctx, "update menu item", domain.EventMenuChanged, restaurantID, func(rest *domain.Restaurant) error {
		if err := item.Validate(); err != nil {
			return err
		}
		i := rest.MenuItemIndex(item.ID)
		if i == -1 {
			return domain.ErrMenuItemNotFound
		}
		rest.MenuItems[i] = item
		return nil
	})
}

// RemoveMenuItem drops the catalog entry with itemID. An unknown itemID is
// not an error.
func (r *RestaurantRegistry) RemoveMenuItem(ctx context.Context, restaurantID, itemID string) error {
	return r.mutate(ctx, "remove menu item", domain.EventMenuChanged, restaurantID, func(rest *domain.Restaurant) error {
		kept := rest.MenuItems[:0]
		for _, m := range rest.MenuItems {
			if m.ID != itemID {
				kept = append(kept, m)
			}
		}
		rest.MenuItems = kept
		return nil
	})
}

// ToggleCampaign flips the campaign flag and returns the new value.
func (r *RestaurantRegistry) ToggleCampaign(ctx context.Context, restaurantID string) (bool, error) {
	var active bool
	err := r.mutate(ctx, "toggle campaign", domain.EventCampaignToggled, restaurantID, func(rest *domain.Restaurant) error {
		rest.CampaignActive = !rest.CampaignActive
		active = rest.CampaignActive
		return nil
	})
	return active, err
}

// mutate applies fn to a private copy of the restaurant and swaps it in only
// when fn succeeds, so a failed operation never leaves a partial change.
func (r *RestaurantRegistry) mutate(ctx context.Context, op string, kind domain.EventKind, restaurantID string, fn func(*domain.Restaurant) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(restaurantID)
	if idx == -1 {
		r.lastErr = fmt.Errorf("%s: %w", op, domain.ErrRestaurantNotFound)
		return r.lastErr
	}

	next := r.restaurants[idx].Clone()
	if err := fn(&next); err != nil {
		r.lastErr = fmt.Errorf("%s: %w", op, err)
		return r.lastErr
	}
	r.restaurants[idx] = next
	r.lastErr = nil

	r.log.Info().Str("restaurant_id", restaurantID).Str("op", op).Msg("restaurant updated")
	if r.events != nil {
		r.events.Enqueue(domain.LifecycleEvent{Kind: kind, RestaurantID: restaurantID, OccurredAt: utcNow()})
	}
	return nil
}

// All returns copies of every restaurant in seed order.
func (r *RestaurantRegistry) All() []domain.Restaurant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Restaurant, len(r.restaurants))
	for i, rest := range r.restaurants {
		out[i] = rest.Clone()
	}
	return out
}

// Selected returns the current state of the restaurant the session last
// opened with GetByID.
func (r *RestaurantRegistry) Selected(sessionID string) (domain.Restaurant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.selected[sessionID]
	if !ok {
		return domain.Restaurant{}, false
	}
	idx := r.indexOf(id)
	if idx == -1 {
		return domain.Restaurant{}, false
	}
	return r.restaurants[idx].Clone(), true
}

func (r *RestaurantRegistry) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// indexOf must be called with r.mu held.
func (r *RestaurantRegistry) indexOf(id string) int {
	for i := range r.restaurants {
		if r.restaurants[i].ID == id {
			return i
		}
	}
	return -1
}
