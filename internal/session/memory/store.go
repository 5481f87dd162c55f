// Package memory provides an in-process session store with TTL expiry.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session"
)

// Store keeps sessions in a TTL cache. Sessions expire TTL after creation.
type Store struct {
	cache *ttlcache.Cache[string, string]
}

// New creates a store and starts its expiry loop. Call Close to stop it.
func New(ttl time.Duration) *Store {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go cache.Start()

	return &Store{cache: cache}
}

// Create starts a session for the user.
func (s *Store) Create(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	s.cache.Set(token, userID, ttlcache.DefaultTTL)
	return token, nil
}

// Get returns the session for a token.
func (s *Store) Get(_ context.Context, token string) (session.Data, error) {
	item := s.cache.Get(token)
	if item == nil || item.IsExpired() {
		return session.Data{}, session.ErrNotFound
	}
	return session.Data{UserID: item.Value()}, nil
}

// Destroy removes a session.
func (s *Store) Destroy(_ context.Context, token string) error {
	s.cache.Delete(token)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Close stops the expiry loop.
func (s *Store) Close() {
	s.cache.Stop()
}
