package testutil

import (
	"fmt"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
)

// SeqIDs returns an id generator yielding prefix1, prefix2, ...
func SeqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// SampleTournament creates a tournament with deterministic ids. Teams get t1..tN
// and matches m1..mK in fixture order. Panics on invalid input; intended for tests.
func SampleTournament(overs int, names ...string) tournament.State {
	if len(names) == 0 {
		names = []string{"Lions", "Tigers", "Bears"}
	}
	teamIDs := SeqIDs("t")
	matchIDs := SeqIDs("m")
	count := 0
	newID := func() string {
		count++
		if count <= len(names) {
			return teamIDs()
		}
		return matchIDs()
	}
	st, err := tournament.Create(tournament.Settings{
		Name:          "Test Cup",
		TeamCount:     len(names),
		OversPerMatch: overs,
	}, names, newID)
	if err != nil {
		panic(err)
	}
	return st
}
