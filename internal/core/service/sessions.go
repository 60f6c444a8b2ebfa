package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// Sessions keeps one Ledger per session id. Ledgers are restored from the
// session store the first time a session is touched after start-up.
type Sessions struct {
	mu      sync.Mutex
	ledgers map[string]*Ledger
	store   ports.SessionStore
	log     zerolog.Logger
}

func NewSessions(store ports.SessionStore, log zerolog.Logger) *Sessions {
	return &Sessions{
		ledgers: make(map[string]*Ledger),
		store:   store,
		log:     log,
	}
}

// Ledger returns the ledger for sessionID, restoring it if needed. An
// unknown session yields an empty, unauthenticated ledger.
func (s *Sessions) Ledger(ctx context.Context, sessionID string) (*Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.ledgers[sessionID]; ok {
		return l, nil
	}

	l := NewLedger(sessionID, s.store, s.log)
	if s.store != nil {
		snap, err := s.store.LoadSession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("restore session: %w: %v", domain.ErrOperationFailed, err)
		}
		if snap != nil {
			l.restore(*snap)
			s.log.Debug().Str("session_id", sessionID).Msg("session restored")
		}
	}
	s.ledgers[sessionID] = l
	return l, nil
}

// Open starts a session for user, replacing whatever the session held.
func (s *Sessions) Open(ctx context.Context, sessionID string, user *domain.User) (*Ledger, error) {
	l, err := s.Ledger(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := l.SetUser(ctx, user); err != nil {
		return nil, err
	}
	return l, nil
}

// Snapshot implements ports.SessionService.
func (s *Sessions) Snapshot(ctx context.Context, sessionID string) (ports.LedgerSnapshot, error) {
	l, err := s.Ledger(ctx, sessionID)
	if err != nil {
		return ports.LedgerSnapshot{}, err
	}
	return l.Snapshot(), nil
}

// SetRole implements ports.SessionService.
func (s *Sessions) SetRole(ctx context.Context, sessionID string, role domain.ViewRole) (ports.LedgerSnapshot, error) {
	l, err := s.Ledger(ctx, sessionID)
	if err != nil {
		return ports.LedgerSnapshot{}, err
	}
	if err := l.SetRole(ctx, role); err != nil {
		return ports.LedgerSnapshot{}, err
	}
	return l.Snapshot(), nil
}

// Logout clears the session and forgets its ledger.
func (s *Sessions) Logout(ctx context.Context, sessionID string) error {
	l, err := s.Ledger(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := l.Logout(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.ledgers, sessionID)
	s.mu.Unlock()
	return nil
}

// Active counts authenticated sessions held in memory.
func (s *Sessions) Active() int {
	s.mu.Lock()
	ledgers := make([]*Ledger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		ledgers = append(ledgers, l)
	}
	s.mu.Unlock()

	n := 0
	for _, l := range ledgers {
		if l.IsAuthenticated() {
			n++
		}
	}
	return n
}
