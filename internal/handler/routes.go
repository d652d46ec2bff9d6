package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds everything the HTTP surface is built from
type RouterConfig struct {
	Board    BoardService
	Profiles ProfileService
	Session  SessionResetter
	Store    Pinger
	Gatherer prometheus.Gatherer // nil disables /metrics
	Location *time.Location
	Version  string
	Logger   *slog.Logger
}

// NewMux registers every route on a new ServeMux
func NewMux(cfg RouterConfig) *http.ServeMux {
	healthHandler := NewHealthHandler(cfg.Store, cfg.Version)
	profileHandler := NewProfileHandler(cfg.Profiles, cfg.Session)
	boardHandler := NewBoardHandler(BoardHandlerConfig{
		Board:    cfg.Board,
		Profiles: cfg.Profiles,
		Logger:   cfg.Logger,
	})
	pageHandler := NewPageHandler(boardHandler, cfg.Location, cfg.Logger)

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Profile endpoints
	mux.HandleFunc("GET /v1/profile", profileHandler.Get)
	mux.HandleFunc("POST /v1/profile", profileHandler.Register)
	mux.HandleFunc("DELETE /v1/profile", profileHandler.Delete)

	// Session and task endpoints
	mux.HandleFunc("POST /v1/session", boardHandler.StartSession)
	mux.HandleFunc("GET /v1/tasks", boardHandler.List)
	mux.HandleFunc("POST /v1/tasks", boardHandler.Create)
	mux.HandleFunc("POST /v1/tasks/{id}/move", boardHandler.Move)
	mux.HandleFunc("POST /v1/actions", boardHandler.Dispatch)

	// Board page
	mux.HandleFunc("GET /{$}", pageHandler.Board)

	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{DisableCompression: true}))
	}

	return mux
}
