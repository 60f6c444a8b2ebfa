package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

const (
	sessionNamespace  = "user-storage"
	languageNamespace = "language-storage"
)

// SessionStore persists ledger snapshots and language preferences as JSON.
// Key format: user-storage:<session_id>, language-storage:<session_id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps client. A zero ttl keeps keys forever.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

var (
	_ ports.SessionStore  = (*SessionStore)(nil)
	_ ports.LanguageStore = (*SessionStore)(nil)
)

type languageRecord struct {
	Language domain.Language `json:"language"`
}

func (s *SessionStore) LoadSession(ctx context.Context, sessionID string) (*ports.LedgerSnapshot, error) {
	var snap ports.LedgerSnapshot
	found, err := s.load(ctx, sessionKey(sessionID), &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, sessionID string, snap ports.LedgerSnapshot) error {
	return s.save(ctx, sessionKey(sessionID), snap)
}

func (s *SessionStore) LoadLanguage(ctx context.Context, sessionID string) (domain.Language, error) {
	var rec languageRecord
	if _, err := s.load(ctx, languageKey(sessionID), &rec); err != nil {
		return "", err
	}
	return rec.Language, nil
}

func (s *SessionStore) SaveLanguage(ctx context.Context, sessionID string, lang domain.Language) error {
	return s.save(ctx, languageKey(sessionID), languageRecord{Language: lang})
}

func (s *SessionStore) load(ctx context.Context, key string, dst any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SessionStore) save(ctx context.Context, key string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return sessionNamespace + ":" + sessionID
}

func languageKey(sessionID string) string {
	return languageNamespace + ":" + sessionID
}
