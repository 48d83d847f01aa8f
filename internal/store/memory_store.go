package store

import (
	"sync"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
)

// MemoryStore keeps a thread-safe snapshot of the tournament in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	state  tournament.State
	loaded bool
}

// NewMemoryStore constructs a store holding the not-initialized state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: tournament.Empty()}
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *MemoryStore) State() tournament.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Match retrieves a match by ID.
func (s *MemoryStore) Match(id string) (matches.Match, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Match(id)
}

// SetState replaces the snapshot and marks the store loaded.
func (s *MemoryStore) SetState(state tournament.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.loaded = true
}

// Loaded reports whether a snapshot has been set since startup.
func (s *MemoryStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
