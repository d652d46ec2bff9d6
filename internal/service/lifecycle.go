package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/taskflow/internal/model"
)

// Lifecycle is the task state machine. It mutates the collection it is
// given and never touches storage; the Board persists after each call.
type Lifecycle struct {
	now   func() time.Time
	newID func() string
}

// LifecycleConfig holds the time and id sources. Zero values use the
// wall clock and random UUIDs.
type LifecycleConfig struct {
	Now   func() time.Time
	NewID func() string
}

// NewLifecycle creates a new lifecycle
func NewLifecycle(cfg LifecycleConfig) *Lifecycle {
	l := &Lifecycle{
		now:   cfg.Now,
		newID: cfg.NewID,
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.newID == nil {
		l.newID = uuid.NewString
	}
	return l
}

// NewTask builds a task with a fresh id and both timestamps set to now.
// text is used as given.
func (l *Lifecycle) NewTask(text string) model.Task {
	now := l.now().UTC()
	return model.Task{
		ID:        l.newID(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Create validates rawText and inserts a new task at the front of todo.
// The collection is unchanged on error.
func (l *Lifecycle) Create(c *model.TaskCollection, rawText string) (model.Task, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return model.Task{}, newValidationError("text", ErrTaskTextRequired)
	}
	if model.TextLength(text) > model.MaxTaskTextLength {
		return model.Task{}, newValidationError("text", ErrTaskTextTooLong)
	}

	task := l.NewTask(text)
	c.Prepend(model.StageTodo, task)
	return task, nil
}

// Move takes the task with id out of from and inserts it at the front of
// to with a refreshed UpdatedAt. Moving to the same stage brings the task
// to the front. The collection is unchanged on error.
func (l *Lifecycle) Move(c *model.TaskCollection, from model.Stage, id string, to model.Stage) (model.Task, error) {
	if !from.Valid() {
		return model.Task{}, newValidationError("from", ErrInvalidStage)
	}
	if !to.Valid() {
		return model.Task{}, newValidationError("to", ErrInvalidStage)
	}

	index := c.Find(from, id)
	if index < 0 {
		return model.Task{}, ErrTaskNotFound
	}

	task := c.Remove(from, index)
	now := l.now().UTC()
	// Every transition advances UpdatedAt, even under clock skew or
	// sub-millisecond calls
	if !now.After(task.UpdatedAt) {
		now = task.UpdatedAt.Add(time.Millisecond)
	}
	task.UpdatedAt = now
	c.Prepend(to, task)
	return task, nil
}
