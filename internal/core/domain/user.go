package domain

import (
	"strings"
	"time"
)

// Role is the immutable account role chosen at registration.
type Role string

const (
	RoleDonor      Role = "donor"
	RoleRecipient  Role = "recipient"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleDonor, RoleRecipient, RoleRestaurant, RoleAdmin:
		return r, nil
	}
	return "", Invalid("role", "must be one of donor, recipient, restaurant, admin")
}

// ViewRole is the donor/recipient toggle in the app, independent of Role.
type ViewRole string

const (
	ViewDonor     ViewRole = "donor"
	ViewRecipient ViewRole = "recipient"
)

func ParseViewRole(s string) (ViewRole, error) {
	switch v := ViewRole(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewDonor, ViewRecipient:
		return v, nil
	}
	return "", Invalid("role", "must be donor or recipient")
}

// User models the authenticated actor and its reward bookkeeping.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`
	Role            Role      `json:"role"`
	Points          int       `json:"points"`
	DonationCount   int       `json:"donation_count"`
	ReceivedCount   int       `json:"received_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewUser builds a user with zeroed counters.
func NewUser(id, name, email string, role Role, now time.Time) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, Invalid("id", "is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now.UTC(),
	}, nil
}
