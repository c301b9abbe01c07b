package session

import (
	"context"
	"sync"
)

// Store is the durable key-value persistence the Resolver reads and writes.
// Any call may fail; no atomicity across keys is assumed.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// MemoryStore is a map-backed Store. The Fail maps inject an error for a
// given key, which lets tests simulate an unavailable backend.
type MemoryStore struct {
	mu         sync.Mutex
	values     map[string]string
	FailGet    map[string]error
	FailSet    map[string]error
	FailRemove map[string]error
}

// NewMemoryStore creates a MemoryStore seeded with values
func NewMemoryStore(values map[string]string) *MemoryStore {
	m := &MemoryStore{
		values:     make(map[string]string, len(values)),
		FailGet:    make(map[string]error),
		FailSet:    make(map[string]error),
		FailRemove: make(map[string]error),
	}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailGet[key]; err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailSet[key]; err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.FailRemove[key]; err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

// Snapshot returns a copy of the stored values
func (m *MemoryStore) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}
