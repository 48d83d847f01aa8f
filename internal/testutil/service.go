package testutil

import (
	"context"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/snapshots"
	"github.com/preston-bernstein/cricket-tournament-service/internal/store"
)

// NewService builds a tournament service over an in-memory document preloaded with state.
// The returned backend exposes saved bytes for assertions.
func NewService(state tournament.State, opts apptournament.Options) (*apptournament.Service, *snapshots.MemoryStore, *metrics.Recorder) {
	backend := snapshots.NewMemoryStore()
	docs := snapshots.NewStore(backend)
	if state.Initialized {
		if err := docs.Save(context.Background(), state); err != nil {
			panic(err)
		}
		backend.Saves = 0
	}
	if opts.NewID == nil {
		opts.NewID = SeqIDs("id")
	}
	rec := metrics.NewRecorder()
	logger, _ := NewBufferLogger()
	svc := apptournament.NewService(store.NewMemoryStore(), docs, logger, rec, opts)
	if err := svc.Load(context.Background()); err != nil {
		panic(err)
	}
	return svc, backend, rec
}
