package ports

import (
	"context"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// AuthService issues mock sessions. Login and register always succeed for
// well-formed input.
type AuthService interface {
	Login(ctx context.Context, name, email, role string) (string, *domain.User, error)
	Register(ctx context.Context, name, email, role string) (string, *domain.User, error)
}

// SessionService exposes the ledger of one session to the transport.
type SessionService interface {
	Snapshot(ctx context.Context, sessionID string) (LedgerSnapshot, error)
	SetRole(ctx context.Context, sessionID string, role domain.ViewRole) (LedgerSnapshot, error)
	Logout(ctx context.Context, sessionID string) error
}

// LanguageService resolves and stores the UI language of a session.
type LanguageService interface {
	Get(ctx context.Context, sessionID, acceptLanguage string) (domain.Language, error)
	Set(ctx context.Context, sessionID, lang string) (domain.Language, error)
}

// StatsOverview is the admin dashboard aggregate.
type StatsOverview struct {
	Restaurants     int                       `json:"restaurants"`
	ActiveCampaigns int                       `json:"active_campaigns"`
	MenuItems       int                       `json:"menu_items"`
	Meals           int                       `json:"meals"`
	MealsByStatus   map[domain.MealStatus]int `json:"meals_by_status"`
	DonatedValue    float64                   `json:"donated_value"`
	PointsIssued    int                       `json:"points_issued"`
	ActiveSessions  int                       `json:"active_sessions"`
}

// StatsService aggregates platform statistics for the admin view.
type StatsService interface {
	Overview(ctx context.Context) StatsOverview
}
