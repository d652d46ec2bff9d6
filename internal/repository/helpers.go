package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/forgo/taskflow/internal/database"
)

// readSlot returns the raw slot value. A missing slot is reported as
// ("", false, nil); only backend failures produce an error.
func readSlot(ctx context.Context, store database.Store, key string) (string, bool, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, true, nil
}

// writeSlot encodes v as JSON and replaces the slot value
func writeSlot(ctx context.Context, store database.Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
