// Package identity provides login and logout for the roster administrators.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Service implements credential checks.
type Service struct {
	repo Repository
	// dummyHash is compared against when the user does not exist,
	// so unknown usernames cost the same as wrong passwords.
	dummyHash []byte
}

// NewService creates a new identity service.
func NewService(repo Repository) (*Service, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("sobreaviso-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &Service{repo: repo, dummyHash: dummy}, nil
}

// LoginInput holds submitted credentials.
type LoginInput struct {
	Username string
	Password string
}

// Login checks the credentials and returns the matching user.
// Any mismatch is reported as ErrInvalidCredentials; repository failures are returned wrapped.
func (s *Service) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword returns the bcrypt hash stored for a password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
