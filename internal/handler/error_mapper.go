package handler

import (
	"errors"

	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/service"
)

// fieldErrorer is implemented by service validation errors
type fieldErrorer interface {
	FieldErrors() []model.FieldError
}

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrValidation):
		var fe fieldErrorer
		if errors.As(err, &fe) {
			return model.NewValidationError(fe.FieldErrors())
		}
		return model.NewValidationError([]model.FieldError{{Field: "request", Message: service.UserMessage(err)}})

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrTaskNotFound):
		return model.NewNotFoundError("task")
	case errors.Is(err, service.ErrProfileNotFound):
		return model.NewNotFoundError("profile")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrNotInitialized):
		return model.NewNotInitializedError()

	// ===== Storage Errors → 503 =====
	case errors.Is(err, service.ErrPersistence):
		return model.NewStorageError(service.UserMessage(err))
	}

	// ===== Unknown → 500 =====
	return model.NewInternalError("")
}
