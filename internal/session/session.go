// Package session maps browser sessions to authenticated users and gates protected routes.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when a token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data is the state held for one browser session.
type Data struct {
	UserID string
}

// Decision is the outcome of authorizing a session.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Authorize allows a session that carries a user ID and denies anything else.
func Authorize(d Data) Decision {
	if d.UserID != "" {
		return Allow
	}
	return Deny
}

// Store persists sessions keyed by an opaque token.
type Store interface {
	// Create starts a session for the user and returns its token.
	Create(ctx context.Context, userID string) (string, error)
	// Get returns the session for a token, or ErrNotFound.
	Get(ctx context.Context, token string) (Data, error)
	// Destroy removes the session. Unknown tokens are ignored.
	Destroy(ctx context.Context, token string) error
}
