package standings

import (
	"sort"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/teams"
)

const (
	PointsWin  = 2
	PointsTie  = 1
	PointsLoss = 0
)

// TeamStats is a team's row in the points table. It is derived and never persisted.
type TeamStats struct {
	teams.Team
	Played           int     `json:"played"`
	Won              int     `json:"won"`
	Lost             int     `json:"lost"`
	Tied             int     `json:"tied"`
	Points           int     `json:"points"`
	RunsScored       int     `json:"runsScored"`
	LegalBallsFaced  int     `json:"ballsFaced"`
	RunsConceded     int     `json:"runsConceded"`
	LegalBallsBowled int     `json:"ballsBowled"`
	NRR              float64 `json:"nrr"`
}

// OversFaced renders the balls faced used for NRR as overs.balls.
func (s TeamStats) OversFaced() string { return scoring.FormatOvers(s.LegalBallsFaced) }

// OversBowled renders the balls bowled used for NRR as overs.balls.
func (s TeamStats) OversBowled() string { return scoring.FormatOvers(s.LegalBallsBowled) }

// Compute aggregates completed matches into a ranked table: points, then NRR, then wins.
func Compute(ts []teams.Team, ms []matches.Match) []TeamStats {
	rows := make([]TeamStats, len(ts))
	index := make(map[string]int, len(ts))
	for i, t := range ts {
		rows[i] = TeamStats{Team: t}
		index[t.ID] = i
	}

	for _, m := range ms {
		if m.Status != matches.StatusCompleted {
			continue
		}
		for _, side := range [][2]string{{m.TeamAID, m.TeamBID}, {m.TeamBID, m.TeamAID}} {
			i, ok := index[side[0]]
			if !ok {
				continue
			}
			applyMatch(&rows[i], m, side[0], side[1])
		}
	}

	for i := range rows {
		rows[i].NRR = netRunRate(rows[i])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NRR != b.NRR {
			return a.NRR > b.NRR
		}
		return a.Won > b.Won
	})
	return rows
}

func applyMatch(row *TeamStats, m matches.Match, own, opp string) {
	row.Played++
	switch m.WinnerID {
	case own:
		row.Won++
		row.Points += PointsWin
	case "":
		row.Tied++
		row.Points += PointsTie
	default:
		row.Lost++
		row.Points += PointsLoss
	}

	mine := m.InningsFor(own)
	theirs := m.InningsFor(opp)
	row.RunsScored += mine.Runs
	row.LegalBallsFaced += effectiveBalls(mine, m.TotalOvers)
	row.RunsConceded += theirs.Runs
	row.LegalBallsBowled += effectiveBalls(theirs, m.TotalOvers)
}

// An all-out side is charged its full quota of overs.
func effectiveBalls(inn matches.Innings, totalOvers int) int {
	if inn.Wickets >= scoring.MaxWickets {
		return scoring.QuotaBalls(totalOvers)
	}
	return inn.BallsFaced
}

func netRunRate(s TeamStats) float64 {
	return runRate(s.RunsScored, s.LegalBallsFaced) - runRate(s.RunsConceded, s.LegalBallsBowled)
}

func runRate(runs, balls int) float64 {
	overs := scoring.OversDecimal(balls)
	if overs == 0 {
		return 0
	}
	return float64(runs) / overs
}
