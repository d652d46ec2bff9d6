package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/model"
)

// KeyScope selects how a profile maps to its task slot
type KeyScope string

const (
	// KeyScopeName keys tasks by display name. Two profiles with the same
	// name share one collection.
	KeyScopeName KeyScope = "name"
	// KeyScopeID keys tasks by the profile's stable id
	KeyScopeID KeyScope = "id"
)

// ParseKeyScope converts a config value into a KeyScope
func ParseKeyScope(s string) (KeyScope, error) {
	switch KeyScope(strings.ToLower(strings.TrimSpace(s))) {
	case KeyScopeName, "":
		return KeyScopeName, nil
	case KeyScopeID:
		return KeyScopeID, nil
	}
	return "", fmt.Errorf("unknown key scope %q", s)
}

// TaskKey derives the task slot key for a profile
func TaskKey(profile *model.UserProfile, scope KeyScope) string {
	if scope == KeyScopeID && profile.ID != "" {
		return "tasks_id_" + profile.ID
	}
	return "tasks_" + profile.Name
}

// storedCollection distinguishes a missing array from an empty one
type storedCollection struct {
	Todo      *[]model.Task `json:"todo"`
	Completed *[]model.Task `json:"completed"`
	Archived  *[]model.Task `json:"archived"`
}

// TaskRepository reads and writes task collection slots
type TaskRepository struct {
	store  database.Store
	logger *slog.Logger
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store database.Store, logger *slog.Logger) *TaskRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskRepository{store: store, logger: logger}
}

// Load returns the collection stored under key, or nil when the slot is
// missing or does not hold three valid stage sequences
func (r *TaskRepository) Load(ctx context.Context, key string) (*model.TaskCollection, error) {
	raw, ok, err := readSlot(ctx, r.store, key)
	if err != nil || !ok {
		return nil, err
	}

	var stored storedCollection
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		r.logger.Warn("ignoring malformed task collection", "key", key, "error", err)
		return nil, nil
	}
	if stored.Todo == nil || stored.Completed == nil || stored.Archived == nil {
		r.logger.Warn("ignoring incomplete task collection", "key", key)
		return nil, nil
	}

	collection := model.NewTaskCollection()
	collection.SetList(model.StageTodo, *stored.Todo)
	collection.SetList(model.StageCompleted, *stored.Completed)
	collection.SetList(model.StageArchived, *stored.Archived)

	if err := collection.Validate(); err != nil {
		r.logger.Warn("ignoring invalid task collection", "key", key, "error", err)
		return nil, nil
	}
	return collection, nil
}

// Save persists the full collection under key
func (r *TaskRepository) Save(ctx context.Context, key string, collection *model.TaskCollection) error {
	if collection == nil {
		return fmt.Errorf("save %s: nil collection", key)
	}
	// Clone so nil sequences are written as [] rather than null
	return writeSlot(ctx, r.store, key, collection.Clone())
}
