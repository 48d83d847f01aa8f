package matches

import (
	"fmt"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
)

// MarginKind describes how a result margin is expressed.
type MarginKind string

const (
	MarginWickets MarginKind = "wickets"
	MarginRuns    MarginKind = "runs"
	MarginTie     MarginKind = "tie"
)

// Resolution is the computed outcome of a concluded match. WinnerID is empty for a tie.
type Resolution struct {
	WinnerID string     `json:"winnerId"`
	Margin   int        `json:"margin"`
	Kind     MarginKind `json:"kind"`
	Text     string     `json:"text"`
}

// Resolve computes the outcome once MatchConcluded holds.
func Resolve(m Match, teamName func(id string) string) (Resolution, bool) {
	if !MatchConcluded(m) {
		return Resolution{}, false
	}
	target, _ := Target(m)
	if teamName == nil {
		teamName = func(id string) string { return id }
	}
	batting := m.InningsFor(m.BattingTeamID)

	switch {
	case batting.Runs >= target:
		n := scoring.MaxWickets - batting.Wickets
		return Resolution{
			WinnerID: m.BattingTeamID,
			Margin:   n,
			Kind:     MarginWickets,
			Text:     fmt.Sprintf("%s won by %d wickets", teamName(m.BattingTeamID), n),
		}, true
	case batting.Runs == target-1:
		return Resolution{Kind: MarginTie, Text: "Match Tied"}, true
	default:
		n := target - 1 - batting.Runs
		return Resolution{
			WinnerID: m.BowlingTeamID,
			Margin:   n,
			Kind:     MarginRuns,
			Text:     fmt.Sprintf("%s won by %d runs", teamName(m.BowlingTeamID), n),
		}, true
	}
}

// Conclude resolves a concluded match and completes it with the computed result.
func Conclude(m Match, teamName func(id string) string) (Match, bool) {
	res, ok := Resolve(m, teamName)
	if !ok {
		return m, false
	}
	out, err := CompleteMatch(m, res.WinnerID, res.Text)
	if err != nil {
		return m, false
	}
	return out, true
}
