// Package database provides the durable slot store used by TaskFlow.
//
// A slot is a named string value, the same shape as browser local storage.
// The profile lives in the "user" slot and each task collection lives in a
// "tasks_<name>" slot. Every backend implements the Store interface:
//
//	type Store interface {
//	    Get(ctx context.Context, key string) (string, error)
//	    Set(ctx context.Context, key, value string) error
//	    Delete(ctx context.Context, key string) error
//	    Ping(ctx context.Context) error
//	    Close() error
//	}
//
// # Backends
//
//   - SQLiteStore: local file, the default (mattn/go-sqlite3)
//   - RedisStore: shared slots under a key prefix (go-redis)
//   - SurrealStore: a "slot" table in SurrealDB
//   - MemoryStore: process memory with a byte quota, used by tests and
//     the "memory" driver
//
// Use Open to build a backend from Options.
//
// # Error Types
//
//   - ErrNotFound: slot does not exist
//   - ErrConnection: backend unreachable
//   - ErrQuery: backend rejected a read or write
//   - ErrQuotaExceeded: write would exceed the configured quota
//
// Use errors.Is() to check error types:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // treat as absent
//	}
package database
