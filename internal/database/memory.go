package database

import (
	"context"
	"fmt"
	"sync"
)

// DefaultQuotaBytes mirrors the usual browser local storage allowance
const DefaultQuotaBytes = 5 << 20

// MemoryStore implements Store in process memory. Writes that would push
// the total of key and value bytes past the quota fail with ErrQuotaExceeded
// and leave the previous value in place.
type MemoryStore struct {
	mu     sync.RWMutex
	slots  map[string]string
	used   int
	quota  int
	failOn map[string]error
}

// NewMemoryStore creates a store with the given quota; quota <= 0 means unlimited
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		slots: make(map[string]string),
		quota: quota,
	}
}

// FailWrites makes every Set and Delete on key return err until cleared
// with a nil err. Used to simulate a full or broken backend.
func (m *MemoryStore) FailWrites(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == nil {
		m.failOn = make(map[string]error)
	}
	if err == nil {
		delete(m.failOn, key)
		return
	}
	m.failOn[key] = err
}

// Get returns the value stored in a slot
func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set replaces the slot value
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[key]; err != nil {
		return err
	}

	used := m.used
	if prev, ok := m.slots[key]; ok {
		used -= len(key) + len(prev)
	}
	used += len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, m.quota)
	}

	m.slots[key] = value
	m.used = used
	return nil
}

// Delete removes the slot
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[key]; err != nil {
		return err
	}
	if prev, ok := m.slots[key]; ok {
		m.used -= len(key) + len(prev)
		delete(m.slots, key)
	}
	return nil
}

// Used returns the number of bytes currently stored
func (m *MemoryStore) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
