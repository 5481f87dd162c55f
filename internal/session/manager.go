package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/httputil"
)

// DefaultCookieName is used when CookieSettings.Name is empty.
const DefaultCookieName = "sobreaviso_session"

// LoginPath is where denied requests are redirected.
const LoginPath = "/login"

// CookieSettings contains settings for the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
	Domain string
	TTL    time.Duration
}

// Manager ties a Store to the session cookie.
type Manager struct {
	store  Store
	cookie CookieSettings
}

// NewManager creates a session manager.
func NewManager(store Store, cookie CookieSettings) *Manager {
	if cookie.Name == "" {
		cookie.Name = DefaultCookieName
	}
	return &Manager{store: store, cookie: cookie}
}

// Start creates a session for the user and sets the session cookie.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, userID string) error {
	token, err := m.store.Create(ctx, userID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   m.cookie.Domain,
		MaxAge:   int(m.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load returns the session attached to the request.
// A missing cookie or an unknown token yields empty Data and no error.
func (m *Manager) Load(r *http.Request) (Data, error) {
	cookie, err := r.Cookie(m.cookie.Name)
	if err != nil || cookie.Value == "" {
		return Data{}, nil
	}

	data, err := m.store.Get(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Data{}, nil
		}
		return Data{}, fmt.Errorf("load session: %w", err)
	}
	return data, nil
}

// End destroys the request's session, if any, and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	var destroyErr error
	if cookie, err := r.Cookie(m.cookie.Name); err == nil && cookie.Value != "" {
		if err := m.store.Destroy(r.Context(), cookie.Value); err != nil {
			destroyErr = fmt.Errorf("destroy session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   m.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return destroyErr
}

// Gate lets requests with an authorized session through and redirects the rest to the login page.
// The decision is made on every request.
func (m *Manager) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := m.Load(r)
		if err != nil {
			httputil.ServerError(r.Context(), w, "load session", err)
			return
		}

		if Authorize(data) == Deny {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		ctx := httputil.WithUserID(r.Context(), data.UserID)
		ctx = ctxlog.With(ctx, "user_id", data.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
