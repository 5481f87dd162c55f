// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/config"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/identity"
	identitypostgres "github.com/thiagoblake/Sistema-SobreAviso/internal/identity/postgres"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/ctxlog"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/datefmt"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/httputil"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/metrics"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/pkg/postgres"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/roster"
	rosterpostgres "github.com/thiagoblake/Sistema-SobreAviso/internal/roster/postgres"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/session/memory"
	sessionredis "github.com/thiagoblake/Sistema-SobreAviso/internal/session/redis"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/version"
	"github.com/thiagoblake/Sistema-SobreAviso/internal/web"
	"github.com/thiagoblake/Sistema-SobreAviso/migrations"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	db            *pgxpool.Pool
	server        *http.Server
	metricsServer *http.Server
	metricsCancel context.CancelFunc

	// closers run on shutdown after the servers stop, in order.
	closers []func() error
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(migrations.FS, cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	defer connectCancel()

	db, err := postgres.Connect(connectCtx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	metricsCtx, metricsCancel := context.WithCancel(context.Background())

	app := &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		metricsCancel: metricsCancel,
	}

	go app.collectDBMetrics(metricsCtx)

	router, err := app.setupRouter(connectCtx)
	if err != nil {
		app.close()
		db.Close()
		metricsCancel()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
		"session_backend", a.config.Session.Backend,
		"locale", a.config.Locale,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	a.metricsCancel()

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	a.db.Close()

	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *App) collectDBMetrics(ctx context.Context) {
	// Collect immediately on start
	metrics.RecordDBPoolMetrics(a.db)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			metrics.RecordDBPoolMetrics(a.db)
		case <-ctx.Done():
			return
		}
	}
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

// newRouter returns a router with the common middleware chain installed.
// Forwarded client addresses are honored only when the server trusts proxy headers,
// because login throttling is keyed on the client address.
func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	if a.config.Server.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	return r
}

func (a *App) setupRouter(ctx context.Context) (*chi.Mux, error) {
	r := a.newRouter()

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	store, err := a.newSessionStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	sessions := session.NewManager(store, session.CookieSettings{
		Name:   a.config.Session.CookieName,
		Secure: a.config.Session.CookieSecure,
		Domain: a.config.Session.CookieDomain,
		TTL:    a.config.Session.TTL,
	})

	identityService, err := identity.NewService(identitypostgres.NewRepository(a.db))
	if err != nil {
		return nil, fmt.Errorf("create identity service: %w", err)
	}
	limiter := identity.NewLimiter(identity.LimiterConfig{
		Rate:    a.config.Login.Rate,
		Burst:   a.config.Login.Burst,
		IdleTTL: a.config.Login.IdleTTL,
	})
	a.onClose(func() error {
		limiter.Close()
		return nil
	})
	identityHandler := identity.NewHandler(identityService, sessions, renderer, limiter)

	formatter := datefmt.New(a.config.Locale)
	rosterService := roster.NewService(rosterpostgres.NewRepository(a.db), formatter)
	rosterHandler := roster.NewHandler(rosterService, renderer)

	identityHandler.RegisterRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(sessions.Gate)
		rosterHandler.RegisterRoutes(r)
	})

	return r, nil
}

func (a *App) newSessionStore(ctx context.Context) (session.Store, error) {
	switch a.config.Session.Backend {
	case config.SessionBackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.config.Session.Redis.Addr,
			Password: a.config.Session.Redis.Password,
			DB:       a.config.Session.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		a.onClose(client.Close)
		return sessionredis.New(client, a.config.Session.TTL), nil
	case config.SessionBackendMemory, "":
		store := memory.New(a.config.Session.TTL)
		a.onClose(func() error {
			store.Close()
			return nil
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", a.config.Session.Backend)
	}
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		ctxlog.FromContext(r.Context()).Error("readiness check failed", "error", err)
		httputil.Text(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig, out io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}
