package database

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

const slotTable = "slot"

// SurrealStore implements Store on a SurrealDB "slot" table. Each slot is
// one record whose id is the slot key.
type SurrealStore struct {
	db     *surrealdb.DB
	config Config
}

// NewSurrealStore creates a new SurrealStore instance
func NewSurrealStore(cfg Config) *SurrealStore {
	return &SurrealStore{
		config: cfg,
	}
}

// Connect establishes a connection to SurrealDB
func (s *SurrealStore) Connect(ctx context.Context) error {
	endpoint := fmt.Sprintf("ws://%s:%s", s.config.Host, s.config.Port)

	db, err := surrealdb.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Sign in as root user
	_, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.config.User,
		Password: s.config.Password,
	})
	if err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: signin failed: %v", ErrConnection, err)
	}

	if err := db.Use(ctx, s.config.Namespace, s.config.Database); err != nil {
		_ = db.Close(ctx)
		return fmt.Errorf("%w: use failed: %v", ErrConnection, err)
	}

	s.db = db

	if err := s.Execute(ctx, "DEFINE TABLE IF NOT EXISTS "+slotTable+" SCHEMALESS", nil); err != nil {
		_ = db.Close(ctx)
		s.db = nil
		return fmt.Errorf("%w: define %s table: %v", ErrConnection, slotTable, err)
	}
	return nil
}

// Close closes the database connection
func (s *SurrealStore) Close() error {
	if s.db != nil {
		return s.db.Close(context.Background())
	}
	return nil
}

// Ping checks the database connection
func (s *SurrealStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrConnection
	}
	if _, err := s.db.Version(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return nil
}

// Get returns the value stored in a slot
func (s *SurrealStore) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}

	query := `SELECT value FROM type::thing($table, $key)`
	result, err := s.queryOne(ctx, query, map[string]interface{}{
		"table": slotTable,
		"key":   key,
	})
	if err != nil {
		return "", err
	}

	row, ok := result.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: unexpected row type %T", ErrQuery, result)
	}
	value, ok := row["value"].(string)
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set upserts the slot record
func (s *SurrealStore) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	query := `
		UPSERT type::thing($table, $key) CONTENT {
			value: $value,
			updated_on: time::now()
		}
	`
	_, err := s.query(ctx, query, map[string]interface{}{
		"table": slotTable,
		"key":   key,
		"value": value,
	})
	return err
}

// Delete removes the slot record
func (s *SurrealStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	query := `DELETE type::thing($table, $key)`
	_, err := s.query(ctx, query, map[string]interface{}{
		"table": slotTable,
		"key":   key,
	})
	return err
}

// Execute runs a statement and discards its results
func (s *SurrealStore) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := s.query(ctx, query, vars)
	return err
}

// query executes a statement and returns the per-statement results
func (s *SurrealStore) query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, ErrConnection
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuery, err)
	}
	if results == nil {
		return nil, nil
	}

	output := make([]interface{}, 0, len(*results))
	for _, r := range *results {
		if r.Status != "OK" {
			if r.Error != nil {
				return nil, fmt.Errorf("%w: %s", ErrQuery, r.Error.Message)
			}
			return nil, ErrQuery
		}
		output = append(output, r.Result)
	}
	return output, nil
}

// queryOne returns the first record of the first statement
func (s *SurrealStore) queryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := s.query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	// SELECT yields an array of records
	if rows, ok := results[0].([]interface{}); ok {
		if len(rows) == 0 {
			return nil, ErrNotFound
		}
		return rows[0], nil
	}
	if results[0] == nil {
		return nil, ErrNotFound
	}
	return results[0], nil
}
