package remote

import (
	"context"
	"net/http"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/transport"
)

// AuthRepository implements repository.AuthRepository.
type AuthRepository struct {
	api Doer
}

// NewAuthRepository creates a new AuthRepository.
func NewAuthRepository(api Doer) *AuthRepository {
	return &AuthRepository{api: api}
}

var _ repository.AuthRepository = (*AuthRepository)(nil)

type authResponse struct {
	User domain.Identity `json:"user"`
}

// Login posts the credentials to /auth/login.
func (r *AuthRepository) Login(ctx context.Context, creds repository.Credentials) (*domain.Identity, error) {
	var resp authResponse
	err := r.api.DoJSON(ctx, transport.Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register posts the sign-up form to /auth/register.
func (r *AuthRepository) Register(ctx context.Context, reg repository.Registration) (*domain.Identity, error) {
	var resp authResponse
	err := r.api.DoJSON(ctx, transport.Request{Method: http.MethodPost, Path: "/auth/register", Body: reg}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout posts to /auth/logout.
func (r *AuthRepository) Logout(ctx context.Context) error {
	return r.api.DoJSON(ctx, transport.Request{Method: http.MethodPost, Path: "/auth/logout"}, nil)
}

// Me fetches /auth/me.
func (r *AuthRepository) Me(ctx context.Context) (*domain.Identity, error) {
	var resp authResponse
	if err := r.api.DoJSON(ctx, transport.Request{Method: http.MethodGet, Path: "/auth/me"}, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}
