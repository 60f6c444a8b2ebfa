package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// Ledger holds one authenticated session and its reward bookkeeping.
// Each mutation is persisted before it becomes visible; when the store
// rejects the write the in-memory state is left as it was.
type Ledger struct {
	mu        sync.Mutex
	sessionID string
	state     ports.LedgerSnapshot
	store     ports.SessionStore
	log       zerolog.Logger
}

// NewLedger returns an empty ledger for sessionID. A nil store keeps the
// ledger in memory only.
func NewLedger(sessionID string, store ports.SessionStore, log zerolog.Logger) *Ledger {
	return &Ledger{
		sessionID: sessionID,
		state:     ports.LedgerSnapshot{CurrentRole: domain.ViewDonor},
		store:     store,
		log:       log,
	}
}

// SetUser replaces the session user. A nil user clears the session.
func (l *Ledger) SetUser(ctx context.Context, user *domain.User) error {
	return l.apply(ctx, "set user", func(s *ports.LedgerSnapshot) error {
		if user == nil {
			s.User = nil
		} else {
			u := *user
			s.User = &u
		}
		s.IsAuthenticated = s.User != nil
		return nil
	})
}

// SetRole switches the donor/recipient view. The account role is untouched.
func (l *Ledger) SetRole(ctx context.Context, role domain.ViewRole) error {
	if _, err := domain.ParseViewRole(string(role)); err != nil {
		return err
	}
	return l.apply(ctx, "set role", func(s *ports.LedgerSnapshot) error {
		s.CurrentRole = role
		return nil
	})
}

func (l *Ledger) Logout(ctx context.Context) error {
	return l.apply(ctx, "logout", func(s *ports.LedgerSnapshot) error {
		s.User = nil
		s.IsAuthenticated = false
		return nil
	})
}

// AddPoints credits n points. Without a user it does nothing.
func (l *Ledger) AddPoints(ctx context.Context, n int) error {
	return l.Credit(ctx, n, 0, 0)
}

func (l *Ledger) IncrementDonationCount(ctx context.Context) error {
	return l.Credit(ctx, 0, 1, 0)
}

func (l *Ledger) IncrementReceivedCount(ctx context.Context) error {
	return l.Credit(ctx, 0, 0, 1)
}

// Credit applies a points award and counter increments as one persisted
// step. Counters only grow, so negative amounts are rejected.
func (l *Ledger) Credit(ctx context.Context, points, donations, received int) error {
	if points < 0 || donations < 0 || received < 0 {
		return domain.Invalid("credit", "must not be negative")
	}
	return l.apply(ctx, "credit", func(s *ports.LedgerSnapshot) error {
		if s.User == nil {
			return nil
		}
		u := *s.User
		u.Points += points
		u.DonationCount += donations
		u.ReceivedCount += received
		s.User = &u
		return nil
	})
}

// User returns a copy of the session user.
func (l *Ledger) User() (domain.User, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.User == nil {
		return domain.User{}, false
	}
	return *l.state.User, true
}

func (l *Ledger) IsAuthenticated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.IsAuthenticated
}

func (l *Ledger) CurrentRole() domain.ViewRole {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.CurrentRole
}

// Snapshot returns a deep copy of the ledger state.
func (l *Ledger) Snapshot() ports.LedgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copySnapshot(l.state)
}

func (l *Ledger) restore(snap ports.LedgerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = copySnapshot(snap)
	if l.state.CurrentRole == "" {
		l.state.CurrentRole = domain.ViewDonor
	}
	l.state.IsAuthenticated = l.state.User != nil
}

func (l *Ledger) apply(ctx context.Context, op string, fn func(*ports.LedgerSnapshot) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := copySnapshot(l.state)
	if err := fn(&next); err != nil {
		return err
	}

	if l.store != nil {
		if err := l.store.SaveSession(ctx, l.sessionID, next); err != nil {
			l.log.Error().Err(err).Str("session_id", l.sessionID).Str("op", op).Msg("ledger persist failed")
			return fmt.Errorf("%s: %w: %v", op, domain.ErrOperationFailed, err)
		}
	}
	l.state = next
	return nil
}

func copySnapshot(s ports.LedgerSnapshot) ports.LedgerSnapshot {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
