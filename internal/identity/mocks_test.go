package identity

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	users   map[string]*domain.User
	err     error
	lookups int
}

func newMockRepository(t *testing.T, username, password string) *mockRepository {
	t.Helper()
	hash, err := HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	return &mockRepository{
		users: map[string]*domain.User{
			username: {ID: "1", Username: username, PasswordHash: hash},
		},
	}
}

func (m *mockRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

// mockSessions implements SessionManager for testing.
type mockSessions struct {
	startedFor string
	startErr   error
	ended      bool
	endErr     error
}

func (m *mockSessions) Start(_ context.Context, w http.ResponseWriter, userID string) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.startedFor = userID
	http.SetCookie(w, &http.Cookie{Name: "sid", Value: "token-" + userID})
	return nil
}

func (m *mockSessions) End(_ http.ResponseWriter, _ *http.Request) error {
	m.ended = true
	return m.endErr
}

// mockRenderer records the last rendered page.
type mockRenderer struct {
	name string
	data any
}

func (m *mockRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	m.name = name
	m.data = data
	w.WriteHeader(status)
	_, err := fmt.Fprintf(w, "%s:%v", name, data)
	return err
}
