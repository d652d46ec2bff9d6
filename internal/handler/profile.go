package handler

import (
	"context"
	"net/http"

	"github.com/forgo/taskflow/internal/model"
)

// ProfileService is the onboarding surface the handler depends on
type ProfileService interface {
	Register(ctx context.Context, req *model.RegisterProfileRequest) (*model.UserProfile, error)
	Current(ctx context.Context) (*model.UserProfile, error)
	SignOut(ctx context.Context) error
}

// SessionResetter ends the active board session
type SessionResetter interface {
	Reset()
}

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	profiles ProfileService
	session  SessionResetter
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles ProfileService, session SessionResetter) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		session:  session,
	}
}

// Get handles GET /v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Current(r.Context())
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, map[string]string{
		"self":    "/v1/profile",
		"session": "/v1/session",
	})
}

// Register handles POST /v1/profile - sign up, replacing any stored profile
func (h *ProfileHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	profile, err := h.profiles.Register(r.Context(), &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	// A new identity owns a different task slot
	if h.session != nil {
		h.session.Reset()
	}

	WriteData(w, http.StatusCreated, profile, map[string]string{
		"self":    "/v1/profile",
		"session": "/v1/session",
	})
}

// Delete handles DELETE /v1/profile - sign out; stored tasks are kept
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.SignOut(r.Context()); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	if h.session != nil {
		h.session.Reset()
	}
	WriteNoContent(w)
}
