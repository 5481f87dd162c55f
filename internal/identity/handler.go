package identity

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/httputil"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/metrics"
)

// TemplateLogin is the name of the login page template.
const TemplateLogin = "login"

// Messages shown on the login page. They never say which field was wrong.
const (
	MessageInvalidCredentials = "Credenciais inválidas"
	MessageTooManyAttempts    = "Muitas tentativas. Tente novamente em instantes."
)

// Renderer renders a named page template.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// SessionManager starts and ends browser sessions.
type SessionManager interface {
	Start(ctx context.Context, w http.ResponseWriter, userID string) error
	End(w http.ResponseWriter, r *http.Request) error
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	sessions  SessionManager
	renderer  Renderer
	limiter   *Limiter
	validator *validator.Validate
}

// NewHandler creates a new identity handler. A nil limiter disables throttling.
func NewHandler(service *Service, sessions SessionManager, renderer Renderer, limiter *Limiter) *Handler {
	return &Handler{
		service:   service,
		sessions:  sessions,
		renderer:  renderer,
		limiter:   limiter,
		validator: validator.New(),
	}
}

// RegisterRoutes registers the login and logout routes. None of them are gated.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
}

// LoginPage is the data passed to the login template.
type LoginPage struct {
	Error    string
	Username string
}

// LoginRequest represents the submitted login form.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginPage handles GET /login.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, LoginPage{})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		h.render(w, r, http.StatusTooManyRequests, LoginPage{Error: MessageTooManyAttempts})
		return
	}

	if err := r.ParseForm(); err != nil {
		httputil.Text(w, http.StatusBadRequest, "invalid form")
		return
	}

	req := LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	if err := h.validator.Struct(req); err != nil {
		h.rejectCredentials(w, r, req.Username)
		return
	}

	user, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.rejectCredentials(w, r, req.Username)
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		httputil.ServerError(r.Context(), w, "authenticate", err)
		return
	}

	if err := h.sessions.Start(r.Context(), w, user.ID); err != nil {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		httputil.ServerError(r.Context(), w, "start session", err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	ctxlog.FromContext(r.Context()).Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(w, r); err != nil {
		ctxlog.FromContext(r.Context()).Warn("logout error", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) rejectCredentials(w http.ResponseWriter, r *http.Request, username string) {
	metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	ctxlog.FromContext(r.Context()).Info("login rejected")
	h.render(w, r, http.StatusOK, LoginPage{Error: MessageInvalidCredentials, Username: username})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page LoginPage) {
	if err := h.renderer.Render(w, status, TemplateLogin, page); err != nil {
		ctxlog.FromContext(r.Context()).Error("render template", "template", TemplateLogin, "error", err)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
