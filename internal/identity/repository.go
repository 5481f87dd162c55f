package identity

import (
	"context"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
)

// Repository defines the interface for user lookups.
type Repository interface {
	// GetUserByUsername returns ErrUserNotFound when no user has that exact username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
