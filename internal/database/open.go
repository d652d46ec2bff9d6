package database

import (
	"context"
	"fmt"
)

// Supported store drivers
const (
	DriverSQLite    = "sqlite"
	DriverRedis     = "redis"
	DriverSurrealDB = "surrealdb"
	DriverMemory    = "memory"
)

// Options selects and configures a Store backend
type Options struct {
	Driver     string
	Path       string // sqlite
	QuotaBytes int    // memory
	Redis      RedisSettings
	Surreal    Config
}

// Open builds and connects the configured backend
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		return NewSQLiteStore(opts.Path)
	case DriverMemory:
		return NewMemoryStore(opts.QuotaBytes), nil
	case DriverRedis:
		client, err := NewRedisClient(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.Redis.Prefix), nil
	case DriverSurrealDB:
		store := NewSurrealStore(opts.Surreal)
		if err := store.Connect(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
