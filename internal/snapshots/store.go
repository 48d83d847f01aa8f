package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
)

// DefaultKey is the single key the tournament document lives under.
const DefaultKey = "cricket_tournament_data"

var (
	// ErrNotFound means no document has been saved yet.
	ErrNotFound = errors.New("snapshot not found")
	// ErrCorrupted means a document exists but cannot be decoded.
	ErrCorrupted = errors.New("snapshot corrupted")
)

// Backend stores the raw tournament document.
type Backend interface {
	Name() string
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// Store encodes tournament state to and from a Backend.
type Store struct {
	backend Backend
}

// NewStore wraps backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the name of the underlying backend.
func (s *Store) Backend() string {
	if s == nil || s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// Load returns the persisted state. A missing document yields the empty state;
// an undecodable one yields the empty state and an error wrapping ErrCorrupted.
func (s *Store) Load(ctx context.Context) (tournament.State, error) {
	if s == nil || s.backend == nil {
		return tournament.Empty(), errors.New("snapshot store not configured")
	}
	data, err := s.backend.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return tournament.Empty(), nil
	}
	if err != nil {
		return tournament.Empty(), err
	}
	state, err := Decode(data)
	if err != nil {
		return tournament.Empty(), err
	}
	return state, nil
}

// Save persists the whole state.
func (s *Store) Save(ctx context.Context, state tournament.State) error {
	if s == nil || s.backend == nil {
		return errors.New("snapshot store not configured")
	}
	data, err := Encode(state)
	if err != nil {
		return err
	}
	return s.backend.Save(ctx, data)
}

// Clear deletes the persisted document.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.backend == nil {
		return errors.New("snapshot store not configured")
	}
	return s.backend.Clear(ctx)
}

// Encode renders the state as the persisted JSON document.
func Encode(state tournament.State) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// Decode parses a persisted document. Cached innings figures are recomputed from history.
func Decode(data []byte) (tournament.State, error) {
	state := tournament.Empty()
	if err := json.Unmarshal(data, &state); err != nil {
		return tournament.Empty(), fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if state.Teams == nil {
		state.Teams = tournament.Empty().Teams
	}
	if state.Matches == nil {
		state.Matches = tournament.Empty().Matches
	}
	for i, m := range state.Matches {
		state.Matches[i] = matches.Reproject(m)
	}
	return state, nil
}
