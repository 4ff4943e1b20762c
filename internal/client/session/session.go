// Package session owns the authentication state of the client: who is
// signed in and with which token.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the subset of the gateway the session needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Signup(ctx context.Context, username, email, password string) (api.AuthResult, error)
	Me(ctx context.Context) (api.User, error)
}

// TokenStore persists the token between runs. Check returns the stored
// token only when it passes the local expiry pre-check; Valid reports the
// same without the token.
type TokenStore interface {
	Check(ctx context.Context) (string, error)
	Valid(ctx context.Context) bool
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// State is a snapshot of the session.
type State struct {
	User            *api.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

type Session struct {
	api    AuthAPI
	tokens TokenStore
	log    logging.Logger

	mu    sync.Mutex
	state State
}

// New returns a session in the loading state; call Initialize once.
func New(a AuthAPI, tokens TokenStore, log logging.Logger) *Session {
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		api:    a,
		tokens: tokens,
		log:    log,
		state:  State{IsLoading: true},
	}
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// User returns the signed-in user or ErrNotAuthenticated.
func (s *Session) User() (api.User, error) {
	st := s.State()
	if !st.IsAuthenticated {
		return api.User{}, ErrNotAuthenticated
	}
	return *st.User, nil
}

// Initialize restores a persisted session. A missing, expired or rejected
// token leaves the session signed out and the token purged. Loading ends
// when Initialize returns, whatever the outcome.
func (s *Session) Initialize(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.state.IsLoading = false
		s.mu.Unlock()
	}()

	token, err := s.tokens.Check(ctx)
	if err != nil {
		s.log.Debug(ctx, "no usable stored token", "err", err)
		s.purge(ctx)
		return
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Info(ctx, "stored token rejected", "err", err)
		s.purge(ctx)
		return
	}

	s.set(user, token)
	s.log.Info(ctx, "session restored", "user", user.Username)
}

// Login authenticates and persists the token. On failure the state is
// left as it was.
func (s *Session) Login(ctx context.Context, email, password string) error {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

// Signup registers a new account and signs it in.
func (s *Session) Signup(ctx context.Context, username, email, password string) error {
	res, err := s.api.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

// Logout forgets the user and the stored token. It never fails; storage
// errors are logged.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.mu.Unlock()

	s.purge(ctx)
}

// Expire signs out a session whose stored token no longer passes the
// local expiry check, and reports whether it did. Signed-out sessions are
// left alone.
func (s *Session) Expire(ctx context.Context) bool {
	if !s.State().IsAuthenticated || s.tokens.Valid(ctx) {
		return false
	}
	s.log.Info(ctx, "stored token expired, signing out")
	s.Logout(ctx)
	return true
}

// UpdateUser merges patch into the current user. Without a user it does
// nothing.
func (s *Session) UpdateUser(patch api.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return
	}
	u := patch.Apply(*s.state.User)
	s.state.User = &u
}

func (s *Session) establish(ctx context.Context, res api.AuthResult) error {
	if err := s.tokens.Set(ctx, res.Token); err != nil {
		return err
	}
	s.set(res.User, res.Token)
	s.log.Info(ctx, "signed in", "user", res.User.Username)
	return nil
}

func (s *Session) set(user api.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.User = &user
	s.state.Token = token
	s.state.IsAuthenticated = true
}

func (s *Session) purge(ctx context.Context) {
	if err := s.tokens.Remove(ctx); err != nil {
		s.log.Error(ctx, "removing stored token failed", "err", err)
	}
}
