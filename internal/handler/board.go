package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/service"
)

// BoardService is the task board surface the handlers depend on
type BoardService interface {
	Initialize(ctx context.Context, profile *model.UserProfile) (model.RenderModel, model.InitResult, error)
	AddTask(ctx context.Context, text string) (model.RenderModel, error)
	MoveTask(ctx context.Context, from model.Stage, id string, to model.Stage) (model.RenderModel, error)
	Dispatch(ctx context.Context, action model.Action) (model.RenderModel, error)
	Render() model.RenderModel
	Profile() *model.UserProfile
}

// ProfileReader loads the stored profile
type ProfileReader interface {
	Current(ctx context.Context) (*model.UserProfile, error)
}

// BoardHandler handles session and task endpoints
type BoardHandler struct {
	board    BoardService
	profiles ProfileReader
	logger   *slog.Logger
}

// BoardHandlerConfig holds dependencies for the board handler
type BoardHandlerConfig struct {
	Board    BoardService
	Profiles ProfileReader
	Logger   *slog.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(cfg BoardHandlerConfig) *BoardHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &BoardHandler{
		board:    cfg.Board,
		profiles: cfg.Profiles,
		logger:   cfg.Logger,
	}
}

// SessionResponse is the body of POST /v1/session
type SessionResponse struct {
	Profile *model.UserProfile `json:"profile"`
	Init    model.InitResult   `json:"init"`
	Board   model.RenderModel  `json:"board"`
}

var taskLinks = map[string]string{
	"self":    "/v1/tasks",
	"actions": "/v1/actions",
}

// StartSession handles POST /v1/session - load or seed the stored
// profile's tasks
func (h *BoardHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	view, result, err := h.startSession(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	status := http.StatusOK
	if result.IsFresh() {
		status = http.StatusCreated
	}
	WriteData(w, status, SessionResponse{
		Profile: h.board.Profile(),
		Init:    result,
		Board:   view,
	}, taskLinks)
}

// startSession initializes the board from the stored profile. A seed that
// could not be written still starts the session; the failure is logged
// and the in-memory board is served.
func (h *BoardHandler) startSession(ctx context.Context) (model.RenderModel, model.InitResult, error) {
	profile, err := h.profiles.Current(ctx)
	if err != nil {
		return model.RenderModel{}, model.InitResult{}, err
	}

	view, result, err := h.board.Initialize(ctx, profile)
	if err != nil && errors.Is(err, service.ErrPersistence) && result.Kind != "" {
		h.logger.Warn("session started without saving seed", "error", err)
		return view, result, nil
	}
	return view, result, err
}

// List handles GET /v1/tasks
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.board.Profile() == nil {
		WriteError(w, MapServiceError(service.ErrNotInitialized))
		return
	}
	WriteData(w, http.StatusOK, h.board.Render(), taskLinks)
}

// Create handles POST /v1/tasks - add a task to the front of todo
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTaskRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	view, err := h.board.AddTask(r.Context(), req.Text)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, view, taskLinks)
}

// Move handles POST /v1/tasks/{id}/move
func (h *BoardHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req model.MoveTaskRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	view, err := h.board.MoveTask(r.Context(), model.Stage(req.From), id, model.Stage(req.To))
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, view, taskLinks)
}

// Dispatch handles POST /v1/actions - apply a typed add or move action
func (h *BoardHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var action model.Action
	if err := DecodeJSON(w, r, &action); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	view, err := h.board.Dispatch(r.Context(), action)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, view, taskLinks)
}
