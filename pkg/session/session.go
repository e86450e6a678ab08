// Package session owns the authenticated identity and bearer credential.
//
// The session store is the single writer of the persisted credential.
// Every other component observes authentication state through it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/deadside-ru/hub/pkg/api"
	"github.com/deadside-ru/hub/pkg/keystore"
	"github.com/deadside-ru/hub/pkg/model"
)

// Fallback messages shown when the backend response carries no detail.
// Kept in Russian to match the hub's audience.
const (
	loginFallback    = "Ошибка входа"
	registerFallback = "Ошибка регистрации"
	profileFallback  = "Ошибка обновления профиля"
)

// CredentialStore abstracts the durable credential storage so tests can
// substitute an in-memory fake.
type CredentialStore interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	DeleteToken() error
	SaveProfile(profileJSON string) error
	LoadProfile() (string, error)
}

// Store holds the current identity and credential. A non-nil identity
// always implies a non-empty credential.
type Store struct {
	mu    sync.RWMutex
	api   *api.Client
	creds CredentialStore
	user  *model.User
	token string
}

// New creates a session store and installs its token as the API client's
// credential source.
func New(apiClient *api.Client, creds CredentialStore) *Store {
	s := &Store{api: apiClient, creds: creds}
	apiClient.SetTokenFunc(s.Token)
	return s
}

// Login authenticates with the backend. On success the identity and
// credential are stored and the credential persisted. On failure the
// returned error's message is the backend's detail, or a generic one.
func (s *Store) Login(ctx context.Context, username, password string) error {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		return userMessage(err, loginFallback)
	}
	s.establish(resp)
	return nil
}

// Register creates an account and authenticates as it.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	if err := model.ValidateUsername(username); err != nil {
		return err
	}
	if err := model.ValidateEmail(email); err != nil {
		return err
	}
	resp, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return userMessage(err, registerFallback)
	}
	s.establish(resp)
	return nil
}

// Logout clears the identity and credential and removes the persisted
// credential. It always succeeds locally; storage errors are logged.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := s.creds.DeleteToken(); err != nil {
		slog.Error("failed to remove persisted credential", "err", err)
	}
}

// UpdateProfile submits a profile update and replaces the identity in
// place on success.
func (s *Store) UpdateProfile(ctx context.Context, username, email string, avatar *api.Attachment) error {
	if !s.Authenticated() {
		return errors.New("session: not authenticated")
	}
	user, err := s.api.UpdateProfile(ctx, username, email, avatar)
	if err != nil {
		return userMessage(err, profileFallback)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.cacheProfile(user)
	return nil
}

// Restore loads a persisted credential, if any, and re-validates it by
// fetching the profile. A backend rejection is treated as credential
// expiry and forces a logout; a transport failure keeps the credential
// and returns the error so callers can fall back to CachedUser. Returns
// nil when no credential is persisted.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.creds.LoadToken()
	if errors.Is(err, keystore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: load credential: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.api.Profile(ctx)
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		slog.Info("persisted credential rejected, logging out", "err", err)
		s.Logout()
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: validate credential: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.cacheProfile(user)
	return nil
}

// Authenticated reports whether an identity is present. Derived, never
// stored.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns a copy of the current identity, or nil.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the current credential, or the empty string.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CachedUser returns the last persisted profile without a network call,
// or nil when none is cached.
func (s *Store) CachedUser() *model.User {
	raw, err := s.creds.LoadProfile()
	if err != nil {
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func (s *Store) establish(resp *api.TokenResponse) {
	user := resp.User

	s.mu.Lock()
	s.user = &user
	s.token = resp.AccessToken
	s.mu.Unlock()

	if err := s.creds.SaveToken(resp.AccessToken); err != nil {
		slog.Error("failed to persist credential", "err", err)
	}
	s.cacheProfile(&user)
}

func (s *Store) cacheProfile(user *model.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.creds.SaveProfile(string(raw)); err != nil {
		slog.Debug("failed to cache profile", "err", err)
	}
}

// userMessage keeps the backend's detail as the leading message, falling
// back to a generic one, while preserving the error chain.
func userMessage(err error, fallback string) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return fmt.Errorf("%s: %w", apiErr.Detail, err)
	}
	return fmt.Errorf("%s: %w", fallback, err)
}
