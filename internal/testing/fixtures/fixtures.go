package fixtures

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/model"
)

// BaseTime is the timestamp fixtures are stamped with by default
var BaseTime = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

// Factory creates test entities in a slot store
type Factory struct {
	store database.Store
}

// New creates a new fixture factory
func New(store database.Store) *Factory {
	return &Factory{store: store}
}

func (f *Factory) put(t *testing.T, key string, v interface{}) {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("fixtures: failed to encode %s: %v", key, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.store.Set(ctx, key, string(raw)); err != nil {
		t.Fatalf("fixtures: failed to write %s: %v", key, err)
	}
}

// ============================================================================
// Profile Fixtures
// ============================================================================

// ProfileOpts customizes profile creation
type ProfileOpts struct {
	Name        string
	DateOfBirth string
	LastLogin   time.Time
}

// WithName sets the profile name
func WithName(name string) func(*ProfileOpts) {
	return func(o *ProfileOpts) { o.Name = name }
}

// WithLastLogin sets the stored last-login time
func WithLastLogin(at time.Time) func(*ProfileOpts) {
	return func(o *ProfileOpts) { o.LastLogin = at }
}

// CreateProfile stores the single user profile
func (f *Factory) CreateProfile(t *testing.T, opts ...func(*ProfileOpts)) *model.UserProfile {
	t.Helper()

	o := &ProfileOpts{
		Name:        "Ada",
		DateOfBirth: "1990-05-01",
		LastLogin:   BaseTime,
	}
	for _, fn := range opts {
		fn(o)
	}

	profile := &model.UserProfile{
		ID:          uuid.NewString(),
		Name:        o.Name,
		DateOfBirth: o.DateOfBirth,
		CreatedAt:   BaseTime,
		LastLogin:   o.LastLogin,
	}
	f.put(t, "user", profile)
	return profile
}

// ============================================================================
// Task Fixtures
// ============================================================================

// Task builds a task stamped at BaseTime plus offset
func Task(text string, offset time.Duration) model.Task {
	at := BaseTime.Add(offset)
	return model.Task{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// CollectionOpts customizes collection creation
type CollectionOpts struct {
	Todo      []string
	Completed []string
	Archived  []string
}

// WithTodo appends texts to todo, most recent first
func WithTodo(texts ...string) func(*CollectionOpts) {
	return func(o *CollectionOpts) { o.Todo = append(o.Todo, texts...) }
}

// WithCompleted appends texts to completed
func WithCompleted(texts ...string) func(*CollectionOpts) {
	return func(o *CollectionOpts) { o.Completed = append(o.Completed, texts...) }
}

// WithArchived appends texts to archived
func WithArchived(texts ...string) func(*CollectionOpts) {
	return func(o *CollectionOpts) { o.Archived = append(o.Archived, texts...) }
}

// CreateCollection stores a task collection under key and returns it
func (f *Factory) CreateCollection(t *testing.T, key string, opts ...func(*CollectionOpts)) *model.TaskCollection {
	t.Helper()

	o := &CollectionOpts{}
	for _, fn := range opts {
		fn(o)
	}

	c := model.NewTaskCollection()
	offset := time.Duration(0)
	build := func(texts []string) []model.Task {
		tasks := make([]model.Task, 0, len(texts))
		for _, text := range texts {
			tasks = append(tasks, Task(text, offset))
			offset += time.Minute
		}
		return tasks
	}
	c.SetList(model.StageTodo, build(o.Todo))
	c.SetList(model.StageCompleted, build(o.Completed))
	c.SetList(model.StageArchived, build(o.Archived))

	f.put(t, key, c)
	return c
}

// CreateRaw stores value under key as is, for malformed-data cases
func (f *Factory) CreateRaw(t *testing.T, key, value string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.store.Set(ctx, key, value); err != nil {
		t.Fatalf("fixtures: failed to write %s: %v", key, err)
	}
}
