package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mentorflow/mentorflow/internal/domain"
)

// AuthStore holds who is signed in. The user is set from the remote session at start and
// afterwards only from auth state notifications, plus the local merge done by UpdateUser.
type AuthStore struct {
	api AuthAPI

	mu          sync.RWMutex
	user        *domain.User
	loading     bool
	sawEvent    bool
	unsubscribe func()
}

func NewAuthStore(api AuthAPI) *AuthStore {
	return &AuthStore{
		api:     api,
		loading: true,
	}
}

// Start subscribes to auth state changes and loads the current session once. A failed
// session query is logged and leaves the store signed out.
func (s *AuthStore) Start(ctx context.Context) {
	unsubscribe := s.api.OnAuthStateChange(s.onAuthStateChange)

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	user, err := s.api.GetSession(ctx)
	if err != nil {
		slog.Error("failed to load session", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// any notification that raced the query is newer than its result
	if !s.sawEvent && user != nil {
		s.user = copyUser(user)
	}
	s.loading = false
}

func (s *AuthStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *AuthStore) onAuthStateChange(event domain.AuthEvent, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sawEvent = true
	switch event {
	case domain.AuthSignedIn, domain.AuthUserUpdated:
		s.user = copyUser(user)
	case domain.AuthSignedOut:
		s.user = nil
	}
}

func copyUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// User returns a copy of the signed-in user, or nil.
func (s *AuthStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

// CurrentUser implements Identity.
func (s *AuthStore) CurrentUser() *domain.User {
	return s.User()
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading reports whether the initial session query is still pending.
func (s *AuthStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SignIn returns the refusal as an error; on success the user arrives through the
// SIGNED_IN notification.
func (s *AuthStore) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.api.SignInWithPassword(ctx, email, password); err != nil {
		slog.Error("sign in failed", "email", email, "error", err)
		return err
	}
	return nil
}

// SignUp registers a new account. When signedIn is false the caller has to sign in
// separately.
func (s *AuthStore) SignUp(ctx context.Context, email, password string, attrs domain.ProfileAttributes) (signedIn bool, err error) {
	_, signedIn, err = s.api.SignUp(ctx, email, password, attrs)
	if err != nil {
		slog.Error("sign up failed", "email", email, "error", err)
		return false, err
	}
	return signedIn, nil
}

// UpdateUser writes attrs to the session metadata and merges them into the local user
// without reloading it.
func (s *AuthStore) UpdateUser(ctx context.Context, attrs domain.UserAttributes) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if _, err := s.api.UpdateUser(ctx, attrs); err != nil {
		slog.Error("failed to update profile", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		merged := s.user.Merge(attrs)
		s.user = &merged
	}
	return nil
}

// Logout ends the remote session. The local user is cleared even when the remote call
// fails; the error is still returned.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.api.SignOut(ctx)
	if err != nil {
		slog.Error("sign out failed", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	return err
}
