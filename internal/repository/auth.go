package repository

import (
	"context"

	"carpool/internal/domain"
)

// Credentials are what the login form submits.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is what the sign-up form submits.
type Registration struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	DisplayName string      `json:"display_name"`
	Role        domain.Role `json:"role,omitempty"`
}

// AuthRepository defines the remote credential exchange operations.
type AuthRepository interface {
	// Login exchanges credentials for the signed-in identity.
	Login(ctx context.Context, creds Credentials) (*domain.Identity, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, reg Registration) (*domain.Identity, error)

	// Logout ends the remote session.
	Logout(ctx context.Context) error

	// Me returns the identity bound to the current remote session.
	Me(ctx context.Context) (*domain.Identity, error)
}
