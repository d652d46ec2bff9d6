// Package app wires configuration, storage, services and the HTTP surface
// into one runnable TaskFlow instance. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/forgo/taskflow/internal/config"
	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/handler"
	"github.com/forgo/taskflow/internal/jobs"
	"github.com/forgo/taskflow/internal/metrics"
	"github.com/forgo/taskflow/internal/middleware"
	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/repository"
	"github.com/forgo/taskflow/internal/service"
)

// Version is reported by /health
var Version = "dev"

// App holds the wired components
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    database.Store
	Registry *prometheus.Registry
	Profiles *service.ProfileService
	Board    *service.Board
}

// ParseLevel converts a LOG_LEVEL value into a slog level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// NewJSONLogger builds the server logger
func NewJSONLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// NewTextLogger builds the CLI logger
func NewTextLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// New opens the configured store and builds the services on top of it
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scope, err := repository.ParseKeyScope(cfg.Storage.KeyScope)
	if err != nil {
		return nil, err
	}

	store, err := database.Open(ctx, database.Options{
		Driver:     cfg.Storage.Driver,
		Path:       cfg.Storage.Path,
		QuotaBytes: cfg.Storage.QuotaBytes,
		Redis: database.RedisSettings{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
		Surreal: database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	logger.Debug("opened store", "driver", cfg.Storage.Driver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	taskMetrics, err := metrics.NewTaskMetrics(metrics.Options{Registerer: registry})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	identities := repository.NewIdentityRepository(store, logger)
	lifecycle := service.NewLifecycle(service.LifecycleConfig{})

	profiles := service.NewProfileService(service.ProfileServiceConfig{
		ProfileRepo: identities,
		Logger:      logger,
	})
	board := service.NewBoard(service.BoardConfig{
		TaskRepo:     repository.NewTaskRepository(store, logger),
		IdentityRepo: identities,
		Seeder: service.NewSeederService(service.SeederServiceConfig{
			URL:       cfg.Seed.URL,
			Timeout:   cfg.Seed.Timeout,
			Limit:     cfg.Seed.Limit,
			Lifecycle: lifecycle,
			Logger:    logger,
		}),
		Lifecycle: lifecycle,
		Metrics:   taskMetrics,
		Logger:    logger,
		KeyFunc: func(p *model.UserProfile) string {
			return repository.TaskKey(p, scope)
		},
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Registry: registry,
		Profiles: profiles,
		Board:    board,
	}, nil
}

// StartSession initializes the board from the stored profile. A seed that
// could not be saved is reported but does not stop the session.
func (a *App) StartSession(ctx context.Context) (model.RenderModel, model.InitResult, error) {
	profile, err := a.Profiles.Current(ctx)
	if err != nil {
		return model.RenderModel{}, model.InitResult{}, err
	}
	return a.Board.Initialize(ctx, profile)
}

// Handler builds the HTTP handler with the global middleware chain
func (a *App) Handler() (http.Handler, error) {
	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{Registerer: a.Registry})
	if err != nil {
		return nil, err
	}

	mux := handler.NewMux(handler.RouterConfig{
		Board:    a.Board,
		Profiles: a.Profiles,
		Session:  a.Board,
		Store:    a.Store,
		Gatherer: a.Registry,
		Version:  Version,
		Logger:   a.Logger,
	})

	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger(a.Logger),
		middleware.Recovery(a.Logger),
		middleware.CORS(a.Config.Server.AllowedOrigins),
		middleware.Compress,
		httpMetrics.Handler(),
	), nil
}

// SessionRefresher builds the last-login refresher for a long-running process
func (a *App) SessionRefresher() *jobs.SessionRefresher {
	return jobs.NewSessionRefresher(jobs.SessionRefresherConfig{
		Profiles:     a.Profiles,
		Interval:     a.Config.Session.RefreshInterval,
		StaleAfter:   a.Config.Session.StaleAfter,
		InitialDelay: 5 * time.Second,
		Logger:       a.Logger,
	})
}

// Serve runs the HTTP server and the session refresher until ctx is done,
// then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}

	refresher := a.SessionRefresher()
	refresher.Start()
	defer refresher.Stop()

	server := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      h,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("starting server",
			slog.String("port", a.Config.Server.Port),
			slog.String("env", a.Config.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	a.Logger.Info("server exited")
	return nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
