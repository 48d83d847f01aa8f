package matches

import "github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"

// InningsComplete reports whether the innings is all out or has used its over quota.
func InningsComplete(inn Innings, totalOvers int) bool {
	return inn.Wickets >= scoring.MaxWickets || inn.BallsFaced >= scoring.QuotaBalls(totalOvers)
}

// Target is the chasing side's goal, defined once the bowling side has batted.
func Target(m Match) (int, bool) {
	if m.BowlingTeamID == "" {
		return 0, false
	}
	bowling := m.InningsFor(m.BowlingTeamID)
	if !bowling.HasProgress() {
		return 0, false
	}
	return bowling.Runs + 1, true
}

// FirstInningsComplete is true while the first innings has ended and the sides have not switched.
func FirstInningsComplete(m Match) bool {
	if m.BattingTeamID == "" {
		return false
	}
	if _, ok := Target(m); ok {
		return false
	}
	return InningsComplete(m.InningsFor(m.BattingTeamID), m.TotalOvers)
}

// MatchConcluded is true once the chase has been won or the second innings has ended.
func MatchConcluded(m Match) bool {
	target, ok := Target(m)
	if !ok || m.BattingTeamID == "" {
		return false
	}
	batting := m.InningsFor(m.BattingTeamID)
	return batting.Runs >= target || InningsComplete(batting, m.TotalOvers)
}

// ScoringDisabled blocks new balls until the operator switches or concludes.
func ScoringDisabled(m Match) bool {
	return FirstInningsComplete(m) || MatchConcluded(m)
}

// OverCompleted returns the over number when the change from before to after ended an over.
func OverCompleted(before, after Innings) (int, bool) {
	if after.BallsFaced <= before.BallsFaced || after.BallsFaced%scoring.BallsPerOver != 0 {
		return 0, false
	}
	return after.BallsFaced / scoring.BallsPerOver, true
}
