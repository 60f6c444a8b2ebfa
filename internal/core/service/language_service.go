package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

type languageService struct {
	store ports.LanguageStore
	log   zerolog.Logger
}

// NewLanguageService returns a LanguageService persisting to store.
func NewLanguageService(store ports.LanguageStore, log zerolog.Logger) ports.LanguageService {
	return &languageService{store: store, log: log}
}

// Get returns the stored preference, falling back to the best match for the
// client's Accept-Language header.
func (s *languageService) Get(ctx context.Context, sessionID, acceptLanguage string) (domain.Language, error) {
	lang, err := s.store.LoadLanguage(ctx, sessionID)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("language load failed, using client locale")
	} else if lang != "" {
		return lang, nil
	}
	return languageFromHeader(acceptLanguage), nil
}

func (s *languageService) Set(ctx context.Context, sessionID, raw string) (domain.Language, error) {
	lang, err := domain.ParseLanguage(raw)
	if err != nil {
		return "", err
	}
	if err := s.store.SaveLanguage(ctx, sessionID, lang); err != nil {
		return "", fmt.Errorf("save language: %w: %v", domain.ErrOperationFailed, err)
	}
	return lang, nil
}

func languageFromHeader(header string) domain.Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return domain.LangEnglish
	}
	base, _ := tags[0].Base()
	return domain.LanguageFromLocale(base.String())
}
