// Package redis provides a Redis-backed session store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session"
)

const keyPrefix = "sobreaviso:session:"

// Client is the subset of the Redis client used by the store.
type Client interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Store keeps sessions in Redis with a per-key TTL.
type Store struct {
	client Client
	ttl    time.Duration
}

// New creates a Redis session store.
func New(client Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create starts a session for the user.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get returns the session for a token.
func (s *Store) Get(ctx context.Context, token string) (session.Data, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return session.Data{}, session.ErrNotFound
		}
		return session.Data{}, fmt.Errorf("get session: %w", err)
	}
	return session.Data{UserID: userID}, nil
}

// Destroy removes a session.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
