package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/taskflow/internal/model"
)

func newSeedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func todosJSON(texts ...string) string {
	items := make([]string, 0, len(texts))
	for i, text := range texts {
		items = append(items, fmt.Sprintf(`{"id":%d,"todo":%q,"completed":true,"userId":1}`, i+1, text))
	}
	return fmt.Sprintf(`{"todos":[%s],"total":%d,"skip":0,"limit":30}`, strings.Join(items, ","), len(texts))
}

func newTestSeeder(url string) *SeederService {
	return NewSeederService(SeederServiceConfig{
		URL:       url,
		Timeout:   time.Second,
		Lifecycle: newTestLifecycle(),
	})
}

// ============================================================================
// FetchSeed Tests
// ============================================================================

func TestSeederService_FetchSeed_TakesFirstEight(t *testing.T) {
	t.Parallel()

	texts := make([]string, 12)
	for i := range texts {
		texts[i] = fmt.Sprintf("todo %d", i+1)
	}
	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(todosJSON(texts...)))
	})

	got, source := newTestSeeder(server.URL).FetchSeed(context.Background())

	assert.Equal(t, SeedSourceRemote, source)
	assert.Equal(t, texts[:8], got)
}

func TestSeederService_FetchSeed_SkipsBlankAndTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 250)
	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(todosJSON("  ", "Walk the dog", long)))
	})

	got, source := newTestSeeder(server.URL).FetchSeed(context.Background())

	assert.Equal(t, SeedSourceRemote, source)
	require.Len(t, got, 2)
	assert.Equal(t, "Walk the dog", got[0])
	assert.Equal(t, model.MaxTaskTextLength, model.TextLength(got[1]))
}

func TestSeederService_FetchSeed_BlankItemsCountTowardLimit(t *testing.T) {
	t.Parallel()

	texts := []string{""}
	for i := 1; i <= 9; i++ {
		texts = append(texts, fmt.Sprintf("item %d", i))
	}
	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(todosJSON(texts...)))
	})

	got, source := newTestSeeder(server.URL).FetchSeed(context.Background())

	assert.Equal(t, SeedSourceRemote, source)
	require.Len(t, got, 7)
	assert.Equal(t, "item 1", got[0])
	assert.Equal(t, "item 7", got[6])
}

func TestSeederService_FetchSeed_FallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"todos": [`))
		}},
		{"missing todos", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": []}`))
		}},
		{"only blank items", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(todosJSON("", " ")))
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := newSeedServer(t, tt.handler)

			got, source := newTestSeeder(server.URL).FetchSeed(context.Background())

			assert.Equal(t, SeedSourceFallback, source)
			assert.Equal(t, FallbackSeedTexts, got)
		})
	}
}

func TestSeederService_FetchSeed_TimeoutFallsBack(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	seeder := NewSeederService(SeederServiceConfig{URL: server.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	got, source := seeder.FetchSeed(context.Background())

	assert.Equal(t, SeedSourceFallback, source)
	assert.Equal(t, FallbackSeedTexts, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSeederService_FetchSeed_TimeoutAppliesToInjectedClient(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	seeder := NewSeederService(SeederServiceConfig{
		URL:        server.URL,
		Timeout:    50 * time.Millisecond,
		HTTPClient: &http.Client{},
	})

	start := time.Now()
	got, source := seeder.FetchSeed(context.Background())

	assert.Equal(t, SeedSourceFallback, source)
	assert.Equal(t, FallbackSeedTexts, got)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestSeederService_FetchSeed_UnreachableFallsBack(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, source := newTestSeeder(url).FetchSeed(context.Background())
	assert.Equal(t, SeedSourceFallback, source)
}

func TestSeederService_FetchSeed_FallbackIsACopy(t *testing.T) {
	t.Parallel()

	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got, _ := newTestSeeder(server.URL).FetchSeed(context.Background())
	got[0] = "mutated"

	assert.Equal(t, "Welcome to TaskFlow! This is your first task.", FallbackSeedTexts[0])
}

// ============================================================================
// Bootstrap Tests
// ============================================================================

func TestSeederService_Bootstrap_BuildsTodoInReceivedOrder(t *testing.T) {
	t.Parallel()

	server := newSeedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(todosJSON("one", "two", "three")))
	})

	collection, source := newTestSeeder(server.URL).Bootstrap(context.Background())

	assert.Equal(t, SeedSourceRemote, source)
	require.Len(t, collection.Todo, 3)
	assert.Equal(t, "one", collection.Todo[0].Text)
	assert.Equal(t, "three", collection.Todo[2].Text)
	assert.Empty(t, collection.Completed)
	assert.Empty(t, collection.Archived)
	for _, task := range collection.Todo {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	}
	assert.NoError(t, collection.Validate())
}
