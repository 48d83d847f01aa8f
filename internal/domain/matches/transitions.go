package matches

import (
	"errors"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
)

var (
	// ErrNoPlayRecorded rejects completing a match in which nothing was scored.
	ErrNoPlayRecorded = errors.New("cannot complete match without any play recorded")
	// ErrUnknownWinner rejects a winner that is not one of the two sides.
	ErrUnknownWinner = errors.New("winner is not a team in this match")
	// ErrInvalidTransition is returned when the match is not in a state that allows the operation.
	ErrInvalidTransition = errors.New("transition not allowed in current match state")
)

// StartMatch moves an upcoming match to live with battingTeamID at the crease.
func StartMatch(m Match, battingTeamID string) (Match, bool) {
	if m.Status != StatusUpcoming {
		return m, false
	}
	bowling, ok := m.Opponent(battingTeamID)
	if !ok || battingTeamID == "" {
		return m, false
	}

	out := m.Clone()
	for _, id := range []string{m.TeamAID, m.TeamBID} {
		if _, exists := out.Innings[id]; !exists {
			out.Innings[id] = NewInnings(id)
		}
	}
	out.Status = StatusLive
	out.BattingTeamID = battingTeamID
	out.BowlingTeamID = bowling
	return out, true
}

// RecordBall appends ev to the batting innings and re-derives its score.
func RecordBall(m Match, ev scoring.BallEvent, opts Options) (Match, bool) {
	if m.Status != StatusLive || m.BattingTeamID == "" || ScoringDisabled(m) || ev.Validate() != nil {
		return m, false
	}

	out := m.Clone()
	inn := out.InningsFor(out.BattingTeamID)
	out.Innings[out.BattingTeamID] = inn.withHistory(append(inn.History, ev))

	if opts.AutoSwitchInnings && FirstInningsComplete(out) {
		out = swapSides(out)
	}
	if opts.AutoCompleteMatch && MatchConcluded(out) {
		if concluded, ok := Conclude(out, opts.TeamName); ok {
			out = concluded
		}
	}
	return out, true
}

// SwitchInnings swaps batting and bowling sides before a target exists.
func SwitchInnings(m Match) (Match, bool) {
	if m.Status != StatusLive || m.BattingTeamID == "" {
		return m, false
	}
	if _, ok := Target(m); ok {
		return m, false
	}
	return swapSides(m.Clone()), true
}

func swapSides(m Match) Match {
	m.BattingTeamID, m.BowlingTeamID = m.BowlingTeamID, m.BattingTeamID
	return m
}

// Undo removes the last event of the batting innings.
// Undoing on a completed match always reopens it, whichever ball is removed.
func Undo(m Match) (Match, bool) {
	var batting string
	switch m.Status {
	case StatusLive:
		batting = m.BattingTeamID
	case StatusCompleted:
		batting = m.LastBattingTeamID
	}
	if batting == "" {
		return m, false
	}
	bowling, ok := m.Opponent(batting)
	if !ok {
		return m, false
	}
	inn := m.InningsFor(batting)
	if len(inn.History) == 0 {
		return m, false
	}

	out := m.Clone()
	history := out.InningsFor(batting).History
	out.Innings[batting] = inn.withHistory(history[:len(history)-1])

	if out.Status == StatusCompleted {
		out.Status = StatusLive
		out.WinnerID = ""
		out.Result = ""
		out.BattingTeamID = batting
		out.BowlingTeamID = bowling
		out.LastBattingTeamID = ""
	}
	return out, true
}

// CompleteMatch records the final outcome. An empty winnerID is a tie or no result.
func CompleteMatch(m Match, winnerID, resultText string) (Match, error) {
	if m.Status != StatusLive {
		return m, ErrInvalidTransition
	}
	if !hasPlay(m) {
		return m, ErrNoPlayRecorded
	}
	if winnerID != "" && !m.HasTeam(winnerID) {
		return m, ErrUnknownWinner
	}

	out := m.Clone()
	out.Status = StatusCompleted
	out.WinnerID = winnerID
	out.Result = resultText
	out.LastBattingTeamID = m.BattingTeamID
	out.BattingTeamID = ""
	out.BowlingTeamID = ""
	return out, nil
}

func hasPlay(m Match) bool {
	for _, inn := range m.Innings {
		if inn.Runs > 0 || inn.Wickets > 0 || inn.BallsFaced > 0 {
			return true
		}
	}
	return false
}
