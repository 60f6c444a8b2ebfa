package ports

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// LedgerSnapshot is the persisted form of one session's ledger.
type LedgerSnapshot struct {
	User            *domain.User    `json:"user"`
	IsAuthenticated bool            `json:"isAuthenticated"`
	CurrentRole     domain.ViewRole `json:"currentRole"`
}

// SessionStore persists ledger snapshots keyed by session id.
// LoadSession returns (nil, nil) when nothing has been stored yet.
type SessionStore interface {
	LoadSession(ctx context.Context, sessionID string) (*LedgerSnapshot, error)
	SaveSession(ctx context.Context, sessionID string, snap LedgerSnapshot) error
}

// LanguageStore persists the language preference of a session.
// LoadLanguage returns "" when no preference has been stored.
type LanguageStore interface {
	LoadLanguage(ctx context.Context, sessionID string) (domain.Language, error)
	SaveLanguage(ctx context.Context, sessionID string, lang domain.Language) error
}
