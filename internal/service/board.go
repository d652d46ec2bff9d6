package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/forgo/taskflow/internal/metrics"
	"github.com/forgo/taskflow/internal/model"
)

// BoardTaskRepository defines the interface for task collection storage
type BoardTaskRepository interface {
	Load(ctx context.Context, key string) (*model.TaskCollection, error)
	Save(ctx context.Context, key string, collection *model.TaskCollection) error
}

// BoardIdentityRepository stamps the profile's last login at session start
type BoardIdentityRepository interface {
	TouchLastLogin(ctx context.Context) *model.UserProfile
}

// Seeder builds the first-run collection
type Seeder interface {
	Bootstrap(ctx context.Context) (*model.TaskCollection, string)
}

// Board owns one user's task collection for a session. Every operation,
// including its write to storage, runs under the board mutex.
type Board struct {
	mu sync.Mutex

	tasks      BoardTaskRepository
	identities BoardIdentityRepository
	seeder     Seeder
	lifecycle  *Lifecycle
	metrics    *metrics.TaskMetrics
	logger     *slog.Logger
	keyFunc    func(*model.UserProfile) string

	profile    *model.UserProfile
	key        string
	collection *model.TaskCollection
}

// BoardConfig holds configuration for the board
type BoardConfig struct {
	TaskRepo     BoardTaskRepository
	IdentityRepo BoardIdentityRepository // optional
	Seeder       Seeder
	Lifecycle    *Lifecycle
	Metrics      *metrics.TaskMetrics // optional
	Logger       *slog.Logger
	// KeyFunc derives the task slot for a profile; defaults to "tasks_" + name
	KeyFunc func(*model.UserProfile) string
}

// NewBoard creates a new board
func NewBoard(cfg BoardConfig) *Board {
	b := &Board{
		tasks:      cfg.TaskRepo,
		identities: cfg.IdentityRepo,
		seeder:     cfg.Seeder,
		lifecycle:  cfg.Lifecycle,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		keyFunc:    cfg.KeyFunc,
	}
	if b.lifecycle == nil {
		b.lifecycle = NewLifecycle(LifecycleConfig{})
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.keyFunc == nil {
		b.keyFunc = func(p *model.UserProfile) string { return "tasks_" + p.Name }
	}
	return b
}

// Initialize starts a session for profile. The task key always derives from
// the given profile; only LastLogin is taken from the stored record. A stored
// collection is loaded
// as is; otherwise the seed is bootstrapped and persisted once. When that
// first write fails the seeded collection is still in use and the returned
// error wraps ErrPersistence.
func (b *Board) Initialize(ctx context.Context, profile *model.UserProfile) (model.RenderModel, model.InitResult, error) {
	if !profile.Complete() {
		return model.RenderModel{}, model.InitResult{}, ErrProfileNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	session := *profile
	if b.identities != nil {
		if touched := b.identities.TouchLastLogin(ctx); touched != nil {
			session.LastLogin = touched.LastLogin
		}
	}
	profile = &session

	key := b.keyFunc(profile)
	stored, err := b.tasks.Load(ctx, key)
	if err != nil {
		b.logger.Error("failed to load tasks", "key", key, "error", err)
		return model.RenderModel{}, model.InitResult{}, persistenceError("load", err)
	}

	b.profile = profile
	b.key = key

	if stored != nil {
		b.collection = stored
		b.logger.Info("loaded tasks", "key", key, "count", stored.Len())
		return Present(b.collection), model.InitResult{Kind: model.InitReturning, Collection: stored.Clone()}, nil
	}

	collection, source := b.seeder.Bootstrap(ctx)
	b.collection = collection
	b.metrics.SeedLoaded(source)
	b.logger.Info("seeded tasks", "key", key, "source", source, "count", collection.Len())

	result := model.InitResult{Kind: model.InitFresh, Collection: collection.Clone(), SeedSource: source}
	if err := b.persist(ctx, "seed"); err != nil {
		return Present(b.collection), result, err
	}
	return Present(b.collection), result, nil
}

// AddTask creates a task at the front of todo and persists the collection.
// On ErrPersistence the task stays in memory.
func (b *Board) AddTask(ctx context.Context, text string) (model.RenderModel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.collection == nil {
		return model.RenderModel{}, ErrNotInitialized
	}

	task, err := b.lifecycle.Create(b.collection, text)
	if err != nil {
		return Present(b.collection), err
	}
	b.metrics.TaskCreated()
	b.logger.Debug("added task", "id", task.ID)

	if err := b.persist(ctx, "add"); err != nil {
		return Present(b.collection), err
	}
	return Present(b.collection), nil
}

// MoveTask moves a task between stages and persists the collection.
// On ErrPersistence the move stays in memory.
func (b *Board) MoveTask(ctx context.Context, from model.Stage, id string, to model.Stage) (model.RenderModel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.collection == nil {
		return model.RenderModel{}, ErrNotInitialized
	}

	task, err := b.lifecycle.Move(b.collection, from, id, to)
	if err != nil {
		return Present(b.collection), err
	}
	b.metrics.TaskMoved(string(from), string(to))
	b.logger.Info("moved task", "text", task.Text, "to", to.Label())

	if err := b.persist(ctx, "move"); err != nil {
		return Present(b.collection), err
	}
	return Present(b.collection), nil
}

// Dispatch routes a typed action to AddTask or MoveTask
func (b *Board) Dispatch(ctx context.Context, action model.Action) (model.RenderModel, error) {
	switch action.Kind {
	case model.ActionAdd:
		return b.AddTask(ctx, action.Text)
	case model.ActionMove:
		return b.MoveTask(ctx, action.From, action.TaskID, action.To)
	}
	return b.Render(), newValidationError("kind", fmt.Errorf("unknown action %q", action.Kind))
}

// Render returns the current render model; empty before Initialize
func (b *Board) Render() model.RenderModel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Present(b.collection)
}

// Profile returns the session profile, or nil before Initialize
func (b *Board) Profile() *model.UserProfile {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.profile == nil {
		return nil
	}
	p := *b.profile
	return &p
}

// Snapshot returns a copy of the in-memory collection, or nil before Initialize
func (b *Board) Snapshot() *model.TaskCollection {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.collection == nil {
		return nil
	}
	return b.collection.Clone()
}

// Key returns the storage key of the current session
func (b *Board) Key() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

// Reset ends the session. Stored tasks are left untouched.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profile = nil
	b.key = ""
	b.collection = nil
}

// persist writes the collection; callers hold b.mu
func (b *Board) persist(ctx context.Context, op string) error {
	if err := b.tasks.Save(ctx, b.key, b.collection); err != nil {
		b.metrics.PersistenceFailed(op)
		b.logger.Error("failed to save tasks", "key", b.key, "op", op, "error", err)
		return persistenceError(op, err)
	}
	return nil
}
