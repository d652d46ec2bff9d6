// Package service implements the task lifecycle and the session logic for TaskFlow.
//
// # Components
//
//   - Lifecycle: the task state machine (Create, Move) over a TaskCollection
//   - SeederService: first-run seed fetch with a fixed fallback set
//   - Present: stateless projection of a collection into a RenderModel
//   - Board: owns one user's collection, persists after every change
//   - ProfileService: onboarding, sign-out and last-login refresh
//
// # Service Pattern
//
// Services follow a consistent pattern:
//
//   - Constructor function (NewXxx) accepts a config struct with repository dependencies
//   - Services define their own repository interfaces, so tests can mock them
//   - Context is passed through for cancellation
//
// # Error Handling
//
// Errors are sentinel values defined in errors.go and checked with errors.Is.
// Input problems are *ValidationError (or *ProfileValidationError) and match
// ErrValidation. Storage write failures match ErrPersistence; the in-memory
// collection keeps the change so the caller can retry.
//
// # Example Usage
//
//	board := NewBoard(BoardConfig{
//	    TaskRepo: taskRepository,
//	    Seeder:   NewSeederService(SeederServiceConfig{}),
//	})
//	view, init, err := board.Initialize(ctx, profile)
//	view, err = board.AddTask(ctx, "Buy milk")
package service
