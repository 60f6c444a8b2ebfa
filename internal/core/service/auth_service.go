package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// AuthService issues mock sessions: any well-formed login succeeds and gets
// a fresh user with zeroed counters. The token subject is the session id.
type AuthService struct {
	sessions  *Sessions
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(sessions *Sessions, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login opens a session for the given identity. An empty role defaults to
// donor, the app's landing role.
func (s *AuthService) Login(ctx context.Context, name, email, role string) (string, *domain.User, error) {
	if strings.TrimSpace(role) == "" {
		role = string(domain.RoleDonor)
	}
	return s.open(ctx, name, email, role)
}

// Register is Login with a mandatory role.
func (s *AuthService) Register(ctx context.Context, name, email, role string) (string, *domain.User, error) {
	if strings.TrimSpace(role) == "" {
		return "", nil, domain.Invalid("role", "is required")
	}
	return s.open(ctx, name, email, role)
}

func (s *AuthService) open(ctx context.Context, name, email, rawRole string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" {
		return "", nil, domain.Invalid("email", "is required")
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := domain.NewUser(newID("user"), name, email, role, utcNow())
	if err != nil {
		return "", nil, err
	}
	if _, err := s.sessions.Open(ctx, user.ID, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("session_id", user.ID).Str("role", string(role)).Msg("session opened")
	return token, user, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
