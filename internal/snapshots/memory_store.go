package snapshots

import (
	"context"
	"sync"
)

// MemoryStore keeps the document in process. Used for ephemeral runs and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
	// Saves counts successful writes.
	Saves int
}

// NewMemoryStore returns an empty in-memory backend.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *MemoryStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.Saves++
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
