// Package memory holds process-local stand-ins for the Redis stores, used
// when REDIS_ADDR is not configured.
package memory

import (
	"context"
	"sync"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

// SessionStore keeps ledger snapshots and language preferences in maps.
// Contents are lost on restart.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]ports.LedgerSnapshot
	languages map[string]domain.Language
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]ports.LedgerSnapshot),
		languages: make(map[string]domain.Language),
	}
}

func (s *SessionStore) LoadSession(_ context.Context, sessionID string) (*ports.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return &snap, nil
}

func (s *SessionStore) SaveSession(_ context.Context, sessionID string, snap ports.LedgerSnapshot) error {
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	s.mu.Lock()
	s.sessions[sessionID] = snap
	s.mu.Unlock()
	return nil
}

// LoadLanguage returns "" when nothing is stored.
func (s *SessionStore) LoadLanguage(_ context.Context, sessionID string) (domain.Language, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.languages[sessionID], nil
}

func (s *SessionStore) SaveLanguage(_ context.Context, sessionID string, lang domain.Language) error {
	s.mu.Lock()
	s.languages[sessionID] = lang
	s.mu.Unlock()
	return nil
}
