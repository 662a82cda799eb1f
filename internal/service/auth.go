package service

import (
	"context"
	"strings"

	"carpool/internal/domain"
	"carpool/internal/repository"
	"carpool/internal/transport"
)

// SessionWriter is the set of mutations the auth flows may perform.
type SessionWriter interface {
	SetAuthenticated(identity domain.Identity)
	Clear()
}

// AuthService handles sign-in, sign-up, sign-out and session restore.
type AuthService struct {
	repo     repository.AuthRepository
	sessions SessionWriter
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo repository.AuthRepository, sessions SessionWriter) *AuthService {
	return &AuthService{repo: repo, sessions: sessions}
}

// Login exchanges credentials and marks the session authenticated.
func (s *AuthService) Login(ctx context.Context, creds repository.Credentials) (*domain.Identity, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrMissingCredentials
	}

	identity, err := s.repo.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.authenticate(identity)
}

// Register creates an account and marks the session authenticated.
func (s *AuthService) Register(ctx context.Context, reg repository.Registration) (*domain.Identity, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.DisplayName = strings.TrimSpace(reg.DisplayName)
	if reg.Email == "" || reg.Password == "" {
		return nil, ErrMissingCredentials
	}

	identity, err := s.repo.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.authenticate(identity)
}

// Logout ends the remote session. The local session is cleared even when the
// remote call fails; a 401 means the remote session was already gone.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.repo.Logout(ctx)
	s.sessions.Clear()
	if err != nil && !transport.IsKind(err, transport.KindUnauthorized) {
		return err
	}
	return nil
}

// Restore asks the API who is signed in and adopts that identity. It reports
// false when there is no remote session.
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	identity, err := s.repo.Me(ctx)
	if err != nil {
		if transport.IsKind(err, transport.KindUnauthorized) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.authenticate(identity); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) authenticate(identity *domain.Identity) (*domain.Identity, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrMissingIdentity
	}
	s.sessions.SetAuthenticated(*identity)
	return identity, nil
}
