// Package testdb provides slot store environments for tests.
//
// SQLite and Redis (miniredis) stores are always available. The SurrealDB
// store runs real queries against a real instance and is only created when
// TEST_DB_HOST is set; otherwise the test is skipped.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    store := testdb.NewSQLite(t)
//	    _ = store.Set(ctx, "user", `{"name":"Ada"}`)
//	}
package testdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"

	"github.com/forgo/taskflow/internal/database"
)

var (
	// counterMu protects the namespace counter
	counterMu sync.Mutex
	counter   int64
)

// getSurrealConfig returns database config from environment or defaults
func getSurrealConfig() (database.Config, bool) {
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		return database.Config{}, false
	}

	port := os.Getenv("TEST_DB_PORT")
	if port == "" {
		port = "8000"
	}

	user := os.Getenv("TEST_DB_USER")
	if user == "" {
		user = "root"
	}

	password := os.Getenv("TEST_DB_PASSWORD")
	if password == "" {
		password = "root"
	}

	return database.Config{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
	}, true
}

// uniqueNamespace generates a unique namespace for test isolation
func uniqueNamespace() string {
	counterMu.Lock()
	defer counterMu.Unlock()
	counter++
	return fmt.Sprintf("test_%d_%d", time.Now().UnixNano(), counter)
}

// NewSurreal connects a SurrealStore in a fresh namespace. The namespace is
// removed when the test finishes.
func NewSurreal(t *testing.T) *database.SurrealStore {
	t.Helper()

	cfg, ok := getSurrealConfig()
	if !ok {
		t.Skip("TEST_DB_HOST not set; skipping SurrealDB store test")
	}
	cfg.Namespace = uniqueNamespace()
	cfg.Database = "test"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := database.NewSurrealStore(cfg)
	if err := store.Connect(ctx); err != nil {
		t.Fatalf("testdb: failed to connect: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Ignore errors on cleanup
		_ = store.Execute(ctx, fmt.Sprintf("REMOVE NAMESPACE %s", cfg.Namespace), nil)
		_ = store.Close()
	})

	return store
}

// NewSQLite opens a SQLite store in the test's temp dir
func NewSQLite(t *testing.T) *database.SQLiteStore {
	t.Helper()

	store, err := database.NewSQLiteStore(filepath.Join(t.TempDir(), "taskflow.db"))
	if err != nil {
		t.Fatalf("testdb: failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// NewRedis starts a miniredis server and returns a store on it together
// with the server for inspection
func NewRedis(t *testing.T) (*database.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("testdb: failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})
	store := database.NewRedisStore(client, "test")

	t.Cleanup(func() {
		_ = store.Close()
		server.Close()
	})

	return store, server
}

// NewMemory returns an unlimited in-memory store
func NewMemory(t *testing.T) *database.MemoryStore {
	t.Helper()
	return database.NewMemoryStore(0)
}

// Ctx returns a context with a reasonable timeout for test operations.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
