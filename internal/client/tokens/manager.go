// Package tokens persists the credential token and pre-checks its expiry
// locally. The check decodes the JWT claims without verifying the
// signature; the server stays authoritative.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/chirpkeeper/internal/client/storage"
)

// Key is the metadata key the raw token string is stored under.
const Key = "token"

var (
	ErrNoToken      = errors.New("no token stored")
	ErrTokenExpired = errors.New("token expired")
	ErrMalformed    = errors.New("malformed token")
)

// Manager reads and writes the token through a storage.KV.
type Manager struct {
	kv  storage.KV
	now func() time.Time
}

func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv, now: time.Now}
}

// Get returns the stored token, or "" when there is none.
func (m *Manager) Get(ctx context.Context) (string, error) {
	b, err := m.kv.Get(ctx, Key)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(b), nil
}

func (m *Manager) Set(ctx context.Context, token string) error {
	if err := m.kv.Set(ctx, Key, []byte(token)); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Remove deletes the stored token; removing an absent token is fine.
func (m *Manager) Remove(ctx context.Context) error {
	if err := m.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// ExpiresAt decodes the exp claim of token. A token without exp yields
// the zero time and no error.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// Check validates the stored token locally. It returns the token when it is
// present, decodable and not past its exp claim. Tokens lacking an exp
// claim are rejected, matching the server contract that always sets one.
func (m *Manager) Check(ctx context.Context) (string, error) {
	token, err := m.Get(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}

	exp, err := ExpiresAt(token)
	if err != nil {
		return "", err
	}
	if exp.IsZero() || !exp.After(m.now()) {
		return "", ErrTokenExpired
	}
	return token, nil
}

// Valid reports whether Check succeeds.
func (m *Manager) Valid(ctx context.Context) bool {
	_, err := m.Check(ctx)
	return err == nil
}
