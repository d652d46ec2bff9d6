package service

import (
	"errors"
	"fmt"

	"github.com/forgo/taskflow/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Validation Errors =====
var (
	ErrValidation       = errors.New("validation failed")
	ErrTaskTextRequired = errors.New("task text is required")
	ErrTaskTextTooLong  = errors.New("task text exceeds maximum length")
	ErrInvalidStage     = errors.New("invalid stage")
)

// ===== Task Errors =====
var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrNotInitialized = errors.New("board not initialized")
)

// ===== Storage Errors =====
var (
	ErrPersistence = errors.New("failed to save tasks")
	ErrSeedFetch   = errors.New("seed fetch failed")
)

// ===== Profile Errors =====
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ValidationError reports a rejected field. It matches ErrValidation and
// the field-specific cause with errors.Is.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// FieldErrors converts the error into problem-details field errors
func (e *ValidationError) FieldErrors() []model.FieldError {
	return []model.FieldError{{Field: e.Field, Message: UserMessage(e.Err)}}
}

// ProfileValidationError carries every field error from the onboarding form
type ProfileValidationError struct {
	Errors []model.FieldError
}

func (e *ProfileValidationError) Error() string {
	if len(e.Errors) == 0 {
		return ErrValidation.Error()
	}
	return fmt.Sprintf("%s: %s", e.Errors[0].Field, e.Errors[0].Message)
}

func (e *ProfileValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors returns the collected field errors
func (e *ProfileValidationError) FieldErrors() []model.FieldError {
	return e.Errors
}

func newValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// userMessages are the texts shown to the user for known errors
var userMessages = []struct {
	err error
	msg string
}{
	{ErrTaskTextRequired, "Please enter a task description"},
	{ErrTaskTextTooLong, "Task description must be less than 200 characters"},
	{ErrInvalidStage, "Stage must be todo, completed, or archived"},
	{ErrTaskNotFound, "Task not found"},
	{ErrPersistence, "Failed to save tasks"},
	{ErrNotInitialized, "Start a session before changing tasks"},
	{ErrProfileNotFound, "No profile found. Sign up first"},
}

// UserMessage returns the display text for err, falling back to err.Error()
func UserMessage(err error) string {
	var pve *ProfileValidationError
	if errors.As(err, &pve) && len(pve.Errors) > 0 {
		return pve.Errors[0].Message
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
