package matches

import "github.com/preston-bernstein/cricket-tournament-service/internal/domain/teams"

// GenerateFixtures builds one upcoming match per unordered pair of teams, in list order.
func GenerateFixtures(ts []teams.Team, totalOvers int, newID func() string) []Match {
	out := make([]Match, 0, len(ts)*(len(ts)-1)/2)
	for i := 0; i < len(ts); i++ {
		for j := i + 1; j < len(ts); j++ {
			a, b := ts[i].ID, ts[j].ID
			out = append(out, Match{
				ID:         newID(),
				TeamAID:    a,
				TeamBID:    b,
				Status:     StatusUpcoming,
				TotalOvers: totalOvers,
				Innings: map[string]Innings{
					a: NewInnings(a),
					b: NewInnings(b),
				},
			})
		}
	}
	return out
}
