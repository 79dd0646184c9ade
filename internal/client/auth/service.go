package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lockmart/lockmart/internal/client/session"
	"github.com/lockmart/lockmart/internal/validation"
	"github.com/lockmart/lockmart/pkg/api"
)

// ErrRefreshInFlight is returned when a refresh is already running
var ErrRefreshInFlight = errors.New("refresh already in flight")

// Store is the slice of the session cache the auth service needs
type Store interface {
	SaveSession(ctx context.Context, token string, user *api.User) error
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*api.User, error)
	Clear(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// Client is the slice of the API client the auth service needs
type Client interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Refresh(ctx context.Context, oldToken string) (*api.RefreshResponse, error)
	Logout(ctx context.Context, token string) error
}

// Service drives the client-side session lifecycle: sign in/up, token
// refresh and sign out, all against the local session cache.
type Service struct {
	logger    *slog.Logger
	apiClient Client
	store     Store
	bus       *session.Bus
	guard     *session.RefreshGuard
}

// NewService creates an auth service
func NewService(logger *slog.Logger, apiClient Client, store Store, bus *session.Bus, guard *session.RefreshGuard) *Service {
	return &Service{
		logger:    logger,
		apiClient: apiClient,
		store:     store,
		bus:       bus,
		guard:     guard,
	}
}

// Register creates an account and caches the resulting session
func (s *Service) Register(ctx context.Context, name, email, password, phone string) (*api.User, error) {
	email = validation.NormalizeEmail(email)

	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Register(ctx, api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Phone:    phone,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	if err := s.store.SaveSession(ctx, resp.Token, &resp.User); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	return &resp.User, nil
}

// Login authenticates and caches the resulting session
func (s *Service) Login(ctx context.Context, email, password string) (*api.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	resp, err := s.apiClient.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if err := s.store.SaveSession(ctx, resp.Token, &resp.User); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}

	return &resp.User, nil
}

// AdoptSession caches a session obtained out of band (OAuth flow)
func (s *Service) AdoptSession(ctx context.Context, token string, user *api.User) error {
	if token == "" || user == nil {
		return errors.New("token and user are required")
	}
	return s.store.SaveSession(ctx, token, user)
}

// Refresh swaps the cached token for a fresh one. Only one refresh
// runs at a time; concurrent calls get ErrRefreshInFlight. On success
// EventAuthRefreshed is broadcast.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	if !s.guard.TryAcquire() {
		return "", ErrRefreshInFlight
	}
	defer s.guard.Release()

	oldToken, err := s.store.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("no session to refresh: %w", err)
	}

	resp, err := s.apiClient.Refresh(ctx, oldToken)
	if err != nil {
		return "", fmt.Errorf("refresh failed: %w", err)
	}

	if err := s.store.SaveToken(ctx, resp.Token); err != nil {
		return "", fmt.Errorf("failed to cache refreshed token: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(session.EventAuthRefreshed)
	}

	s.logger.Debug("token refreshed")

	return resp.Token, nil
}

// Logout notifies the server on a best-effort basis and always clears
// the local session, even when the server is unreachable.
func (s *Service) Logout(ctx context.Context) error {
	token, err := s.store.Token(ctx)
	if err != nil {
		s.logger.Debug("no cached session during logout", "error", err)
	} else if logoutErr := s.apiClient.Logout(ctx, token); logoutErr != nil {
		s.logger.Warn("server logout failed, clearing local session anyway", "error", logoutErr)
	}

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear local session: %w", err)
	}

	return nil
}

// CurrentUser returns the cached user snapshot
func (s *Service) CurrentUser(ctx context.Context) (*api.User, error) {
	return s.store.User(ctx)
}

// IsAuthenticated reports whether a session is cached locally
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.store.IsAuthenticated(ctx)
}
