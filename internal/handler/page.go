package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/service"
)

//go:embed templates/board.html
var templateFS embed.FS

// LastModifiedLayout is the display format for task timestamps
const LastModifiedLayout = "Jan 2, 2006, 3:04 PM"

// pageData is the template input for the board page
type pageData struct {
	Profile *model.UserProfile
	Board   *model.RenderModel
	Notice  string
}

// PageHandler serves the server-rendered board
type PageHandler struct {
	boards   *BoardHandler
	tmpl     *template.Template
	location *time.Location
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler. Timestamps are shown in loc,
// or the local zone when loc is nil.
func NewPageHandler(boards *BoardHandler, loc *time.Location, logger *slog.Logger) *PageHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	h := &PageHandler{boards: boards, location: loc, logger: logger}
	h.tmpl = template.Must(template.New("board.html").Funcs(template.FuncMap{
		"lastModified": h.lastModified,
	}).ParseFS(templateFS, "templates/board.html"))
	return h
}

func (h *PageHandler) lastModified(t time.Time) string {
	return "Last modified: " + t.In(h.location).Format(LastModifiedLayout)
}

// Board handles GET / - starts the session on first visit like the app
// shell does, then renders all three stages
func (h *PageHandler) Board(w http.ResponseWriter, r *http.Request) {
	data, status := h.load(r.Context())

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.Error("failed to render board", "error", err)
		WriteError(w, model.NewInternalError(""))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) load(ctx context.Context) (pageData, int) {
	board := h.boards.board
	if board.Profile() == nil {
		_, _, err := h.boards.startSession(ctx)
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			return pageData{Notice: service.UserMessage(err)}, http.StatusOK
		case err != nil:
			problem := MapServiceError(err)
			return pageData{Notice: service.UserMessage(err)}, problem.Status
		}
	}

	view := board.Render()
	return pageData{Profile: board.Profile(), Board: &view}, http.StatusOK
}
