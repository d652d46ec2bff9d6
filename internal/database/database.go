package database

import (
	"context"
	"errors"
)

// Standard errors for slot store operations.
// Use errors.Is() to check these error types in calling code.
var (
	// ErrNotFound indicates the requested slot does not exist.
	ErrNotFound = errors.New("slot not found")

	// ErrConnection indicates a failure to connect to or communicate with the backend.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a read or write failure reported by the backend.
	ErrQuery = errors.New("query error")

	// ErrQuotaExceeded indicates the write would exceed the store's byte quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrInvalidKey indicates an empty slot key.
	ErrInvalidKey = errors.New("invalid slot key")
)

// Store is a durable key/value slot store. Values are opaque strings
// (JSON text in practice) and a Set replaces the whole slot.
type Store interface {
	// Get returns the slot value or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set writes the whole slot, replacing any prior value
	Set(ctx context.Context, key, value string) error

	// Delete removes the slot; deleting a missing slot is not an error
	Delete(ctx context.Context, key string) error

	// Connection management
	Ping(ctx context.Context) error
	Close() error
}

// Config holds SurrealDB connection configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}

func checkKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}
