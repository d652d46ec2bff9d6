package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/metrics"
	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/repository"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockTaskRepo struct {
	loadFunc func(ctx context.Context, key string) (*model.TaskCollection, error)
	saveFunc func(ctx context.Context, key string, c *model.TaskCollection) error
}

func (m *mockTaskRepo) Load(ctx context.Context, key string) (*model.TaskCollection, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockTaskRepo) Save(ctx context.Context, key string, c *model.TaskCollection) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, key, c)
	}
	return nil
}

type stubSeeder struct {
	calls  int
	texts  []string
	source string
	l      *Lifecycle
}

func (s *stubSeeder) Bootstrap(ctx context.Context) (*model.TaskCollection, string) {
	s.calls++
	c := model.NewTaskCollection()
	tasks := make([]model.Task, 0, len(s.texts))
	for _, text := range s.texts {
		tasks = append(tasks, s.l.NewTask(text))
	}
	c.SetList(model.StageTodo, tasks)
	return c, s.source
}

// ============================================================================
// Test Fixture
// ============================================================================

type boardFixture struct {
	board      *Board
	store      *database.MemoryStore
	tasks      *repository.TaskRepository
	identities *repository.IdentityRepository
	metrics    *metrics.TaskMetrics
	profile    *model.UserProfile
}

// unreachableSeedURL refuses connections so the seeder always falls back
const unreachableSeedURL = "http://127.0.0.1:1/todos"

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()

	store := database.NewMemoryStore(0)
	lifecycle := NewLifecycle(LifecycleConfig{Now: fakeClock(baseTime, time.Second)})
	tm, err := metrics.NewTaskMetrics(metrics.Options{Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)

	f := &boardFixture{
		store:      store,
		tasks:      repository.NewTaskRepository(store, nil),
		identities: repository.NewIdentityRepository(store, nil),
		metrics:    tm,
		profile: &model.UserProfile{
			ID:          "p-1",
			Name:        "Ada",
			DateOfBirth: "1990-05-01",
			CreatedAt:   baseTime,
			LastLogin:   baseTime,
		},
	}
	f.board = NewBoard(BoardConfig{
		TaskRepo:     f.tasks,
		IdentityRepo: f.identities,
		Seeder: NewSeederService(SeederServiceConfig{
			URL:        unreachableSeedURL,
			HTTPClient: &http.Client{Timeout: time.Second},
			Lifecycle:  lifecycle,
		}),
		Lifecycle: lifecycle,
		Metrics:   tm,
	})
	return f
}

func (f *boardFixture) stored(t *testing.T) *model.TaskCollection {
	t.Helper()
	c, err := f.tasks.Load(context.Background(), "tasks_Ada")
	require.NoError(t, err)
	return c
}

// ============================================================================
// End-to-End Scenarios
// ============================================================================

// Fresh user, nothing stored, seed unreachable: todo holds exactly the two
// fallback tasks and the collection is persisted.
func TestBoard_Scenario_FreshUserWithFallbackSeed(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()

	rm, init, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	assert.True(t, init.IsFresh())
	assert.Equal(t, SeedSourceFallback, init.SeedSource)
	require.Equal(t, 2, rm.Stage(model.StageTodo).Count)
	assert.Equal(t, FallbackSeedTexts[0], rm.Stage(model.StageTodo).Items[0].Text)
	assert.Equal(t, FallbackSeedTexts[1], rm.Stage(model.StageTodo).Items[1].Text)
	assert.Equal(t, 0, rm.Stage(model.StageCompleted).Count)
	assert.Equal(t, 0, rm.Stage(model.StageArchived).Count)

	stored := f.stored(t)
	require.NotNil(t, stored)
	assert.Equal(t, init.Collection, stored)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.SeedLoads.WithLabelValues(SeedSourceFallback)))
}

// Create then move: todo empties, completed holds the task with its text
// unchanged and UpdatedAt strictly after CreatedAt.
func TestBoard_Scenario_CreateThenComplete(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Set(ctx, "tasks_Ada", `{"todo":[],"completed":[],"archived":[]}`))

	_, init, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	assert.False(t, init.IsFresh())

	rm, err := f.board.AddTask(ctx, "Buy milk")
	require.NoError(t, err)
	require.Equal(t, 1, rm.Stage(model.StageTodo).Count)
	id := rm.Stage(model.StageTodo).Items[0].ID

	rm, err = f.board.MoveTask(ctx, model.StageTodo, id, model.StageCompleted)
	require.NoError(t, err)

	assert.Equal(t, 0, rm.Stage(model.StageTodo).Count)
	require.Equal(t, 1, rm.Stage(model.StageCompleted).Count)
	task := rm.Stage(model.StageCompleted).Items[0]
	assert.Equal(t, id, task.ID)
	assert.Equal(t, "Buy milk", task.Text)
	assert.True(t, task.UpdatedAt.After(task.CreatedAt))

	assert.Equal(t, f.board.Snapshot(), f.stored(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Created))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Moved.WithLabelValues("todo", "completed")))
}

// Empty text is rejected and no stage count changes.
func TestBoard_Scenario_EmptyTextRejected(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()

	before, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	rm, err := f.board.AddTask(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	for _, stage := range model.Stages() {
		assert.Equal(t, before.Stage(stage).Count, rm.Stage(stage).Count)
	}
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.Created))
}

// ============================================================================
// Initialize Tests
// ============================================================================

func TestBoard_Initialize_ReturningUserSkipsSeed(t *testing.T) {
	t.Parallel()

	seeder := &stubSeeder{texts: []string{"seed"}, source: SeedSourceRemote, l: newTestLifecycle()}
	stored := model.NewTaskCollection()
	stored.Prepend(model.StageArchived, model.Task{ID: "old", Text: "old"})

	board := NewBoard(BoardConfig{
		TaskRepo: &mockTaskRepo{loadFunc: func(ctx context.Context, key string) (*model.TaskCollection, error) {
			assert.Equal(t, "tasks_Ada", key)
			return stored, nil
		}},
		Seeder: seeder,
	})

	rm, init, err := board.Initialize(context.Background(), &model.UserProfile{Name: "Ada", DateOfBirth: "1990-05-01"})
	require.NoError(t, err)

	assert.Equal(t, model.InitReturning, init.Kind)
	assert.Equal(t, 0, seeder.calls)
	assert.Equal(t, 1, rm.Stage(model.StageArchived).Count)
}

func TestBoard_Initialize_SeedsOnlyOnce(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()

	_, first, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	assert.True(t, first.IsFresh())

	// A later session finds the stored fallback set and does not reseed
	_, second, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	assert.False(t, second.IsFresh())
	assert.Equal(t, first.Collection, second.Collection)
}

func TestBoard_Initialize_SeedPersistFailureKeepsSeed(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	f.store.FailWrites("tasks_Ada", database.ErrQuotaExceeded)

	rm, init, err := f.board.Initialize(context.Background(), f.profile)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.True(t, init.IsFresh())
	assert.Equal(t, 2, rm.Stage(model.StageTodo).Count)
	assert.Nil(t, f.stored(t))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.PersistenceFailures.WithLabelValues("seed")))
}

func TestBoard_Initialize_RequiresCompleteProfile(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)

	_, _, err := f.board.Initialize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, _, err = f.board.Initialize(context.Background(), &model.UserProfile{Name: "Ada"})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestBoard_Initialize_LoadFailureIsPersistenceError(t *testing.T) {
	t.Parallel()

	board := NewBoard(BoardConfig{
		TaskRepo: &mockTaskRepo{loadFunc: func(ctx context.Context, key string) (*model.TaskCollection, error) {
			return nil, database.ErrConnection
		}},
		Seeder: &stubSeeder{l: newTestLifecycle()},
	})

	_, _, err := board.Initialize(context.Background(), &model.UserProfile{Name: "Ada", DateOfBirth: "1990-05-01"})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, board.Profile())
}

func TestBoard_Initialize_TouchesLastLogin(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	later := baseTime.Add(3 * time.Hour)
	f.identities.SetClock(func() time.Time { return later })
	require.NoError(t, f.identities.Save(ctx, f.profile))

	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	assert.True(t, f.board.Profile().LastLogin.Equal(later))
}

func TestBoard_Initialize_KeyFromGivenProfile(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	later := baseTime.Add(2 * time.Hour)
	f.identities.SetClock(func() time.Time { return later })

	stored := *f.profile
	stored.Name = "Grace"
	require.NoError(t, f.identities.Save(ctx, &stored))

	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	assert.Equal(t, "tasks_Ada", f.board.Key())
	assert.Equal(t, "Ada", f.board.Profile().Name)
	assert.True(t, f.board.Profile().LastLogin.Equal(later))
	assert.True(t, f.profile.LastLogin.Equal(baseTime), "caller's profile must not be modified")
}

func TestBoard_Initialize_KeyFunc(t *testing.T) {
	t.Parallel()

	var loadedKey string
	board := NewBoard(BoardConfig{
		TaskRepo: &mockTaskRepo{loadFunc: func(ctx context.Context, key string) (*model.TaskCollection, error) {
			loadedKey = key
			return model.NewTaskCollection(), nil
		}},
		Seeder: &stubSeeder{l: newTestLifecycle()},
		KeyFunc: func(p *model.UserProfile) string {
			return repository.TaskKey(p, repository.KeyScopeID)
		},
	})

	_, _, err := board.Initialize(context.Background(), &model.UserProfile{ID: "abc", Name: "Ada", DateOfBirth: "1990-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "tasks_id_abc", loadedKey)
	assert.Equal(t, "tasks_id_abc", board.Key())
}

// ============================================================================
// Operation Tests
// ============================================================================

func TestBoard_OperationsBeforeInitialize(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()

	_, err := f.board.AddTask(ctx, "x")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = f.board.MoveTask(ctx, model.StageTodo, "x", model.StageCompleted)
	assert.ErrorIs(t, err, ErrNotInitialized)

	assert.Equal(t, 0, f.board.Render().Total())
	assert.Nil(t, f.board.Profile())
	assert.Nil(t, f.board.Snapshot())
}

func TestBoard_ResetKeepsStoredTasks(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()

	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	_, err = f.board.AddTask(ctx, "Keep me")
	require.NoError(t, err)

	f.board.Reset()

	assert.Nil(t, f.board.Profile())
	assert.Empty(t, f.board.Key())
	_, err = f.board.AddTask(ctx, "x")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, result, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	assert.Equal(t, model.InitReturning, result.Kind)
	assert.Equal(t, "Keep me", result.Collection.Todo[0].Text)
}

func TestBoard_PersistenceFailureKeepsChangeInMemory(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)
	storedBefore := f.stored(t)

	f.store.FailWrites("tasks_Ada", database.ErrQuotaExceeded)

	rm, err := f.board.AddTask(ctx, "won't fit")
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 3, rm.Stage(model.StageTodo).Count)
	assert.Equal(t, "won't fit", rm.Stage(model.StageTodo).Items[0].Text)
	assert.Equal(t, storedBefore, f.stored(t))

	// Next successful save brings storage back in line
	f.store.FailWrites("tasks_Ada", nil)
	id := rm.Stage(model.StageTodo).Items[0].ID
	_, err = f.board.MoveTask(ctx, model.StageTodo, id, model.StageArchived)
	require.NoError(t, err)
	assert.Equal(t, f.board.Snapshot(), f.stored(t))
}

func TestBoard_MoveNotFoundIsNotPersisted(t *testing.T) {
	t.Parallel()

	saves := 0
	board := NewBoard(BoardConfig{
		TaskRepo: &mockTaskRepo{
			loadFunc: func(ctx context.Context, key string) (*model.TaskCollection, error) {
				return model.NewTaskCollection(), nil
			},
			saveFunc: func(ctx context.Context, key string, c *model.TaskCollection) error {
				saves++
				return nil
			},
		},
		Seeder: &stubSeeder{l: newTestLifecycle()},
	})
	ctx := context.Background()
	_, _, err := board.Initialize(ctx, &model.UserProfile{Name: "Ada", DateOfBirth: "1990-05-01"})
	require.NoError(t, err)

	_, err = board.MoveTask(ctx, model.StageTodo, "ghost", model.StageCompleted)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 0, saves)
}

func TestBoard_Dispatch(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	rm, err := f.board.Dispatch(ctx, model.AddAction("via dispatch"))
	require.NoError(t, err)
	id := rm.Stage(model.StageTodo).Items[0].ID

	rm, err = f.board.Dispatch(ctx, model.MoveAction(model.StageTodo, id, model.StageArchived))
	require.NoError(t, err)
	assert.Equal(t, id, rm.Stage(model.StageArchived).Items[0].ID)

	_, err = f.board.Dispatch(ctx, model.Action{Kind: "delete"})
	assert.ErrorIs(t, err, ErrValidation)
}

// Concurrent callers are serialized: every add lands exactly once and
// storage matches memory afterwards.
func TestBoard_ConcurrentAddsAreSerialized(t *testing.T) {
	t.Parallel()

	f := newBoardFixture(t)
	ctx := context.Background()
	_, _, err := f.board.Initialize(ctx, f.profile)
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := f.board.AddTask(ctx, fmt.Sprintf("task %d", i)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}

	snapshot := f.board.Snapshot()
	assert.Len(t, snapshot.Todo, workers+len(FallbackSeedTexts))
	assert.NoError(t, snapshot.Validate())
	assert.Equal(t, snapshot, f.stored(t))
}

// Two boards on the same key overwrite each other's writes. There is no
// cross-instance locking, so no resolution behavior is asserted.
func TestBoard_MultipleInstancesSameKey_Unsupported(t *testing.T) {
	t.Skip("multiple boards writing one task slot is unsupported: last write wins")
}

// ============================================================================
// Error Helper Tests
// ============================================================================

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Please enter a task description", UserMessage(newValidationError("text", ErrTaskTextRequired)))
	assert.Equal(t, "Failed to save tasks", UserMessage(persistenceError("add", errors.New("disk full"))))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))

	pve := &ProfileValidationError{Errors: []model.FieldError{{Field: "name", Message: "Name can only contain letters and spaces"}}}
	assert.Equal(t, "Name can only contain letters and spaces", UserMessage(pve))
	assert.ErrorIs(t, pve, ErrValidation)
}
