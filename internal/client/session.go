// Package client is a Go client for the dealership API. It keeps the
// access/refresh token pair of one signed-in user and refreshes it
// transparently when the server rejects the access token.
package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoSession is returned when a call needs credentials that are not held.
var ErrNoSession = errors.New("not logged in")

// User is the identity returned at login.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// State is the persisted part of a session.
type State struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// refreshFunc exchanges a refresh token for a new pair.
type refreshFunc func(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)

// flight is one refresh call. err is written once, before done is closed, and
// only read after done is closed.
type flight struct {
	done chan struct{}
	err  error
}

func (f *flight) wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}

// Session holds the credentials of one user. All reads and writes of the
// token pair happen under mu. refreshing is non-nil exactly while one refresh
// is in flight.
type Session struct {
	mu           sync.Mutex
	user         *User
	accessToken  string
	refreshToken string

	refreshing *flight

	onChange func(State)
}

// NewSession returns an empty session. onChange, if set, is called under the
// session lock after every transition.
func NewSession(onChange func(State)) *Session {
	return &Session{onChange: onChange}
}

// Restore loads previously persisted credentials without firing onChange.
func (s *Session) Restore(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = state.User
	s.accessToken = state.AccessToken
	s.refreshToken = state.RefreshToken
}

// State returns a copy of the current credentials.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

// AccessToken returns the token to attach to the next request.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accessToken
}

// IsRefreshing reports whether a refresh is in flight.
func (s *Session) IsRefreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshing != nil
}

// LoggedIn reports whether an access token is held.
func (s *Session) LoggedIn() bool {
	return s.AccessToken() != ""
}

// Login stores the pair and user issued by a successful login.
func (s *Session) Login(user *User, accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = user
	s.accessToken = accessToken
	s.refreshToken = refreshToken
	s.notifyLocked()
}

// Logout forgets everything.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
}

// Refresh makes sure the access token that was rejected (staleToken) is
// replaced. At most one refresh runs at a time: a caller arriving while one is
// in flight waits for it and shares its result. If the token already changed
// since staleToken was sent, Refresh returns immediately. A failed refresh
// clears the whole session.
func (s *Session) Refresh(ctx context.Context, staleToken string, refresh refreshFunc) error {
	s.mu.Lock()

	if inFlight := s.refreshing; inFlight != nil {
		s.mu.Unlock()

		return inFlight.wait(ctx)
	}

	if s.accessToken == "" || s.refreshToken == "" {
		s.mu.Unlock()

		return ErrNoSession
	}

	if s.accessToken != staleToken {
		s.mu.Unlock()

		return nil
	}

	current := &flight{done: make(chan struct{})}
	s.refreshing = current
	refreshToken := s.refreshToken
	s.mu.Unlock()

	accessToken, newRefreshToken, err := refresh(ctx, refreshToken)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
		s.accessToken = accessToken
		s.refreshToken = newRefreshToken
		s.notifyLocked()
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		// The server never answered; the stored pair may still be good.
	default:
		s.clearLocked()
	}

	current.err = err
	s.refreshing = nil
	close(current.done)

	return err
}

func (s *Session) clearLocked() {
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.notifyLocked()
}

func (s *Session) stateLocked() State {
	state := State{AccessToken: s.accessToken, RefreshToken: s.refreshToken}
	if s.user != nil {
		user := *s.user
		state.User = &user
	}

	return state
}

func (s *Session) notifyLocked() {
	if s.onChange != nil {
		s.onChange(s.stateLocked())
	}
}
