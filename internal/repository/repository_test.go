package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/taskflow/internal/database"
	"github.com/forgo/taskflow/internal/model"
	"github.com/forgo/taskflow/internal/testing/testdb"
)

var fixedNow = time.Date(2026, time.March, 4, 15, 30, 0, 0, time.UTC)

func sampleProfile() *model.UserProfile {
	return &model.UserProfile{
		ID:          "0f8c2a8e-8f0b-4b3c-9d55-3f1f6b8f5a10",
		Name:        "Ada",
		DateOfBirth: "1990-05-01",
		CreatedAt:   fixedNow.Add(-48 * time.Hour),
		LastLogin:   fixedNow.Add(-2 * time.Hour),
	}
}

// ============================================================================
// IdentityRepository Tests
// ============================================================================

func TestIdentityRepository_SaveLoad(t *testing.T) {
	t.Parallel()

	store := testdb.NewSQLite(t)
	repo := NewIdentityRepository(store, nil)
	ctx := context.Background()

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, repo.Save(ctx, sampleProfile()))

	loaded, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Ada", loaded.Name)
	assert.True(t, loaded.LastLogin.Equal(fixedNow.Add(-2*time.Hour)))
}

func TestIdentityRepository_Load_TreatsBadDataAsAbsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"name":`},
		{"missing name", `{"dob":"1990-05-01"}`},
		{"missing dob", `{"name":"Ada"}`},
		{"wrong type", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := database.NewMemoryStore(0)
			require.NoError(t, store.Set(context.Background(), ProfileSlot, tt.raw))

			loaded, err := NewIdentityRepository(store, nil).Load(context.Background())
			assert.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestIdentityRepository_TouchLastLogin(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(0)
	repo := NewIdentityRepository(store, nil)
	repo.SetClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	// No profile: silent no-op
	assert.Nil(t, repo.TouchLastLogin(ctx))

	require.NoError(t, repo.Save(ctx, sampleProfile()))
	touched := repo.TouchLastLogin(ctx)
	require.NotNil(t, touched)
	assert.True(t, touched.LastLogin.Equal(fixedNow))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.LastLogin.Equal(fixedNow))
}

func TestIdentityRepository_TouchLastLogin_SwallowsWriteFailure(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(0)
	repo := NewIdentityRepository(store, nil)
	repo.SetClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleProfile()))
	store.FailWrites(ProfileSlot, errors.New("disk full"))

	touched := repo.TouchLastLogin(ctx)
	require.NotNil(t, touched)

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.LastLogin.Equal(fixedNow.Add(-2*time.Hour)))
}

func TestIdentityRepository_Clear_KeepsTasks(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(0)
	ctx := context.Background()
	identities := NewIdentityRepository(store, nil)
	tasks := NewTaskRepository(store, nil)

	require.NoError(t, identities.Save(ctx, sampleProfile()))
	require.NoError(t, tasks.Save(ctx, "tasks_Ada", model.NewTaskCollection()))

	require.NoError(t, identities.Clear(ctx))

	loaded, err := identities.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	collection, err := tasks.Load(ctx, "tasks_Ada")
	require.NoError(t, err)
	assert.NotNil(t, collection)
}

// ============================================================================
// TaskRepository Tests
// ============================================================================

func TestTaskKey(t *testing.T) {
	t.Parallel()

	p := sampleProfile()
	assert.Equal(t, "tasks_Ada", TaskKey(p, KeyScopeName))
	assert.Equal(t, "tasks_id_"+p.ID, TaskKey(p, KeyScopeID))

	// Case sensitive
	p.Name = "ada"
	assert.Equal(t, "tasks_ada", TaskKey(p, KeyScopeName))
}

func TestParseKeyScope(t *testing.T) {
	t.Parallel()

	scope, err := ParseKeyScope("")
	require.NoError(t, err)
	assert.Equal(t, KeyScopeName, scope)

	scope, err = ParseKeyScope("ID")
	require.NoError(t, err)
	assert.Equal(t, KeyScopeID, scope)

	_, err = ParseKeyScope("email")
	assert.Error(t, err)
}

func TestTaskRepository_SaveLoad_PreservesOrderAndTimestamps(t *testing.T) {
	t.Parallel()

	store, _ := testdb.NewRedis(t)
	repo := NewTaskRepository(store, nil)
	ctx := context.Background()

	c := model.NewTaskCollection()
	c.Prepend(model.StageTodo, model.Task{ID: "1", Text: "one", CreatedAt: fixedNow, UpdatedAt: fixedNow})
	c.Prepend(model.StageTodo, model.Task{ID: "2", Text: "two", CreatedAt: fixedNow, UpdatedAt: fixedNow.Add(time.Minute)})
	c.Prepend(model.StageArchived, model.Task{ID: "3", Text: "<b>three</b>", CreatedAt: fixedNow, UpdatedAt: fixedNow})

	require.NoError(t, repo.Save(ctx, "tasks_Ada", c))

	loaded, err := repo.Load(ctx, "tasks_Ada")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"2", "1"}, []string{loaded.Todo[0].ID, loaded.Todo[1].ID})
	assert.Empty(t, loaded.Completed)
	assert.Equal(t, "<b>three</b>", loaded.Archived[0].Text)
	assert.True(t, loaded.Todo[0].UpdatedAt.Equal(fixedNow.Add(time.Minute)))
}

func TestTaskRepository_Load_AcceptsStoredWireFormat(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(0)
	raw := `{"todo":[{"id":"a","text":"Buy milk","created":"2024-01-05T10:00:00.000Z","updated":"2024-01-05T10:00:00.000Z"}],"completed":[],"archived":[]}`
	require.NoError(t, store.Set(context.Background(), "tasks_Ada", raw))

	loaded, err := NewTaskRepository(store, nil).Load(context.Background(), "tasks_Ada")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Todo, 1)
	assert.Equal(t, "Buy milk", loaded.Todo[0].Text)
	assert.Equal(t, 2024, loaded.Todo[0].CreatedAt.Year())
}

func TestTaskRepository_Load_TreatsBadDataAsAbsent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"todo":[`},
		{"missing archived", `{"todo":[],"completed":[]}`},
		{"null stage", `{"todo":null,"completed":[],"archived":[]}`},
		{"stage not array", `{"todo":{},"completed":[],"archived":[]}`},
		{"task without id", `{"todo":[{"text":"x"}],"completed":[],"archived":[]}`},
		{"duplicate id", `{"todo":[{"id":"a"}],"completed":[{"id":"a"}],"archived":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := database.NewMemoryStore(0)
			require.NoError(t, store.Set(context.Background(), "tasks_Ada", tt.raw))

			loaded, err := NewTaskRepository(store, nil).Load(context.Background(), "tasks_Ada")
			assert.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestTaskRepository_Save_ReportsBackendFailure(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(16)
	repo := NewTaskRepository(store, nil)

	c := model.NewTaskCollection()
	c.Prepend(model.StageTodo, model.Task{ID: "a", Text: "this will not fit in sixteen bytes"})

	err := repo.Save(context.Background(), "tasks_Ada", c)
	assert.ErrorIs(t, err, database.ErrQuotaExceeded)
}

func TestTaskRepository_Save_NilSequencesWrittenAsEmpty(t *testing.T) {
	t.Parallel()

	store := database.NewMemoryStore(0)
	repo := NewTaskRepository(store, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tasks_Ada", &model.TaskCollection{}))

	loaded, err := repo.Load(ctx, "tasks_Ada")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 0, loaded.Len())
}
