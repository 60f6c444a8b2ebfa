package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, role string) (string, *domain.User, error)
	loginFn    func(ctx context.Context, name, email, role string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, role string) (string, *domain.User, error) {
	return s.registerFn(ctx, name, email, role)
}

func (s *stubAuthService) Login(ctx context.Context, name, email, role string) (string, *domain.User, error) {
	return s.loginFn(ctx, name, email, role)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, name, email, role string) (string, *domain.User, error) {
			if name != "Alice" || email != "alice@example.com" || role != "restaurant" {
				t.Fatalf("unexpected args: %s %s %s", name, email, role)
			}
			return "token-123", &domain.User{ID: "user-1", Name: name, Email: email, Role: domain.RoleRestaurant}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com","role":"restaurant"}`))
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	decode(t, rec, &resp)
	if resp["token"] != "token-123" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "user-1" || user["role"] != "restaurant" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
}

func TestAuthHandler_Register_MissingRole(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/auth/register",
		strings.NewReader(`{"name":"Alice","email":"alice@example.com"}`))
	expectHTTPError(t, h.Register(c), http.StatusUnprocessableEntity)
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/auth/register", strings.NewReader(`{"name":`))
	expectHTTPError(t, h.Register(c), http.StatusBadRequest)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, name, email, role string) (string, *domain.User, error) {
			if email != "bob@example.com" || role != "" {
				t.Fatalf("unexpected args: %s %s", email, role)
			}
			return "token-xyz", &domain.User{ID: "user-2", Email: email, Role: domain.RoleDonor}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"bob@example.com"}`))
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	decode(t, rec, &resp)
	if resp["token"] != "token-xyz" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_PropagatesServiceError(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, name, email, role string) (string, *domain.User, error) {
			return "", nil, domain.Invalid("role", "must be one of donor, recipient, restaurant, admin")
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"bob@example.com"}`))
	if err := h.Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	expectHTTPError(t, h.Login(c), http.StatusUnprocessableEntity)
}
