package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

func TestRestaurantRegistry_FetchAll(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Pizza Palace", all[0].Name)
	_, selected := r.Selected("u1")
	assert.False(t, selected, "nothing is selected before a lookup")
}

func TestRestaurantRegistry_FetchAll_FailureKeepsPreviousCollection(t *testing.T) {
	seed := &stubSeed{restaurants: []domain.Restaurant{pizzaPalace()}}
	r := NewRestaurantRegistry(seed, discardLogger)
	require.NoError(t, r.FetchAll(context.Background()))

	seed.err = errors.New("timeout")
	err := r.FetchAll(context.Background())

	require.ErrorIs(t, err, domain.ErrOperationFailed)
	assert.Len(t, r.All(), 1)
	assert.ErrorIs(t, r.LastError(), domain.ErrOperationFailed)
}

func TestRestaurantRegistry_GetByID_SelectsRestaurant(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	got, err := r.GetByID(context.Background(), "u1", "rest-2")
	require.NoError(t, err)
	assert.Equal(t, "Sushi Spot", got.Name)

	selected, ok := r.Selected("u1")
	require.True(t, ok)
	assert.Equal(t, "rest-2", selected.ID)

	_, err = r.GetByID(context.Background(), "u1", "rest-1")
	require.NoError(t, err)
	selected, _ = r.Selected("u1")
	assert.Equal(t, "rest-1", selected.ID, "a new lookup replaces the selection")
}

func TestRestaurantRegistry_GetByID_NotFoundKeepsSelection(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	_, _ = r.GetByID(context.Background(), "u1", "rest-1")

	_, err := r.GetByID(context.Background(), "u1", "missing")

	require.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	selected, ok := r.Selected("u1")
	require.True(t, ok)
	assert.Equal(t, "rest-1", selected.ID)
}

func TestRestaurantRegistry_Find_DoesNotSelect(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	_, err := r.Find("rest-1")
	require.NoError(t, err)

	_, ok := r.Selected("u1")
	assert.False(t, ok)

	item, err := r.MenuItem("rest-1", "item-1")
	require.NoError(t, err)
	assert.Equal(t, 10.00, item.Price)

	_, err = r.MenuItem("rest-1", "nope")
	assert.ErrorIs(t, err, domain.ErrMenuItemNotFound)
}

func TestRestaurantRegistry_ToggleCampaign_Twice(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	_, _ = r.GetByID(context.Background(), "u1", "rest-1")

	active, err := r.ToggleCampaign(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.True(t, active)
	selected, _ := r.Selected("u1")
	assert.True(t, selected.CampaignActive, "the selected view follows the collection")

	active, err = r.ToggleCampaign(context.Background(), "rest-1")
	require.NoError(t, err)
	assert.False(t, active)
	found, _ := r.Find("rest-1")
	assert.False(t, found.CampaignActive)
}

func TestRestaurantRegistry_AddMenuItem(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	_, _ = r.GetByID(context.Background(), "u1", "rest-1")

	added, err := r.AddMenuItem(context.Background(), "rest-1", domain.MenuItem{ID: "client-id", Name: "Calzone", Price: 12})
	require.NoError(t, err)

	assert.NotEqual(t, "client-id", added.ID, "the registry assigns the id")
	assert.NotEmpty(t, added.ID)

	rest, _ := r.Find("rest-1")
	require.Len(t, rest.MenuItems, 2)
	assert.Equal(t, added, rest.MenuItems[1])

	selected, _ := r.Selected("u1")
	assert.Len(t, selected.MenuItems, 2)
}

func TestRestaurantRegistry_AddMenuItem_Validation(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	_, err := r.AddMenuItem(context.Background(), "rest-1", domain.MenuItem{Name: "Free lunch", Price: -3})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = r.AddMenuItem(context.Background(), "rest-1", domain.MenuItem{Price: 3})
	require.ErrorIs(t, err, domain.ErrValidation)

	rest, _ := r.Find("rest-1")
	assert.Len(t, rest.MenuItems, 1)
}

func TestRestaurantRegistry_UpdateMenuItem_InPlace(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	err := r.UpdateMenuItem(context.Background(), "rest-2", domain.MenuItem{ID: "item-a", Name: "Salmon Roll XL", Price: 11})
	require.NoError(t, err)

	rest, _ := r.Find("rest-2")
	require.Len(t, rest.MenuItems, 2)
	assert.Equal(t, "Salmon Roll XL", rest.MenuItems[0].Name)
	assert.Equal(t, "item-b", rest.MenuItems[1].ID, "order is preserved")
}

func TestRestaurantRegistry_UpdateMenuItem_UnknownItem(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	before, _ := r.Find("rest-2")

	err := r.UpdateMenuItem(context.Background(), "rest-2", domain.MenuItem{ID: "ghost", Name: "Ghost", Price: 1})

	require.ErrorIs(t, err, domain.ErrMenuItemNotFound)
	after, _ := r.Find("rest-2")
	assert.Equal(t, before, after)
	assert.ErrorIs(t, r.LastError(), domain.ErrNotFound)
}

func TestRestaurantRegistry_RemoveMenuItem(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	require.NoError(t, r.RemoveMenuItem(context.Background(), "rest-2", "item-a"))
	rest, _ := r.Find("rest-2")
	require.Len(t, rest.MenuItems, 1)
	assert.Equal(t, "item-b", rest.MenuItems[0].ID)
}

func TestRestaurantRegistry_RemoveMenuItem_UnknownItemIsNoop(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	before, _ := r.Find("rest-1")

	err := r.RemoveMenuItem(context.Background(), "rest-1", "x")

	require.NoError(t, err)
	after, _ := r.Find("rest-1")
	assert.Equal(t, before.MenuItems, after.MenuItems)
}

func TestRestaurantRegistry_UnknownRestaurant(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	before := r.All()
	ctx := context.Background()

	_, err := r.AddMenuItem(ctx, "nope", domain.MenuItem{Name: "x", Price: 1})
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.ErrorIs(t, r.UpdateMenuItem(ctx, "nope", domain.MenuItem{ID: "i", Name: "x"}), domain.ErrRestaurantNotFound)
	assert.ErrorIs(t, r.RemoveMenuItem(ctx, "nope", "i"), domain.ErrRestaurantNotFound)
	_, err = r.ToggleCampaign(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	assert.Equal(t, before, r.All())
}

func TestRestaurantRegistry_PublishesCatalogEvents(t *testing.T) {
	pub := &recordingPublisher{}
	r := newLoadedRestaurantRegistry(WithCatalogEvents(pub))
	ctx := context.Background()

	_, _ = r.ToggleCampaign(ctx, "rest-1")
	_, _ = r.AddMenuItem(ctx, "rest-1", domain.MenuItem{Name: "Calzone", Price: 9})
	_ = r.UpdateMenuItem(ctx, "rest-1", domain.MenuItem{ID: "ghost", Name: "x"})

	assert.Equal(t, []domain.EventKind{domain.EventCampaignToggled, domain.EventMenuChanged}, pub.kinds(),
		"failed mutations publish nothing")
}

func TestRestaurantRegistry_ReturnsCopies(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	all := r.All()
	all[0].MenuItems[0].Price = 999

	rest, _ := r.Find(all[0].ID)
	assert.Equal(t, 10.00, rest.MenuItems[0].Price)
}

func TestRestaurantRegistry_SelectionIsPerSession(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	ctx := context.Background()

	_, err := r.GetByID(ctx, "alice", "rest-1")
	require.NoError(t, err)
	_, err = r.GetByID(ctx, "bob", "rest-2")
	require.NoError(t, err)

	alice, ok := r.Selected("alice")
	require.True(t, ok)
	assert.Equal(t, "rest-1", alice.ID)
	bob, ok := r.Selected("bob")
	require.True(t, ok)
	assert.Equal(t, "rest-2", bob.ID)

	_, ok = r.Selected("carol")
	assert.False(t, ok)
}

func TestRestaurantRegistry_UnknownRestaurantBeforeValidation(t *testing.T) {
	r := newLoadedRestaurantRegistry()
	ctx := context.Background()
	invalid := domain.MenuItem{ID: "item-1", Price: -1}

	_, err := r.AddMenuItem(ctx, "nope", invalid)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	err = r.UpdateMenuItem(ctx, "nope", invalid)
	assert.ErrorIs(t, err, domain.ErrRestaurantNotFound)

	err = r.UpdateMenuItem(ctx, "rest-1", invalid)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, r.LastError(), domain.ErrValidation)
}

func TestRestaurantRegistry_PriceCap(t *testing.T) {
	r := newLoadedRestaurantRegistry()

	_, err := r.AddMenuItem(context.Background(), "rest-1", domain.MenuItem{Name: "Gold leaf", Price: domain.MaxPrice + 1})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = r.AddMenuItem(context.Background(), "rest-1", domain.MenuItem{Name: "Banquet", Price: domain.MaxPrice})
	require.NoError(t, err)
}
