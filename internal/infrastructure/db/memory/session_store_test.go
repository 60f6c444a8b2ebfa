package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

func TestSessionStore_RoundTripIsolatesUser(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	missing, err := store.LoadSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	user := &domain.User{ID: "user-1", Points: 10}
	require.NoError(t, store.SaveSession(ctx, "user-1", ports.LedgerSnapshot{
		User: user, IsAuthenticated: true, CurrentRole: domain.ViewDonor,
	}))
	user.Points = 999

	snap, err := store.LoadSession(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 10, snap.User.Points)
	assert.True(t, snap.IsAuthenticated)

	snap.User.Points = 500
	again, err := store.LoadSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 10, again.User.Points)
}

func TestSessionStore_Language(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	lang, err := store.LoadLanguage(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, lang)

	require.NoError(t, store.SaveLanguage(ctx, "user-1", domain.LangChinese))
	lang, err = store.LoadLanguage(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.LangChinese, lang)
}
