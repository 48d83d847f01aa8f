package matches

import (
	"fmt"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
)

const (
	NoticeTargetChased   = "Target Chased! Match Won (Pending Confirmation)"
	NoticeTied           = "Match Tied! (Pending Confirmation)"
	NoticeDefended       = "Match Ended! Defending Team Won (Pending Confirmation)"
	NoticeInningsOver    = "Innings Completed! (Pending Switch)"
	noticeOverCompletedF = "Over %d Completed"
)

// OverNotice is the announcement for the end of over n.
func OverNotice(n int) string {
	return fmt.Sprintf(noticeOverCompletedF, n)
}

// MatchSummary is the read-side view of a match used by the scoring screen.
type MatchSummary struct {
	HasTarget            bool              `json:"hasTarget"`
	Target               int               `json:"target,omitempty"`
	RunsNeeded           int               `json:"runsNeeded,omitempty"`
	RemainingBalls       int               `json:"remainingBalls"`
	Overs                map[string]string `json:"overs"`
	FirstInningsComplete bool              `json:"firstInningsComplete"`
	MatchConcluded       bool              `json:"matchConcluded"`
	ScoringDisabled      bool              `json:"scoringDisabled"`
	CanSwitchInnings     bool              `json:"canSwitchInnings"`
	CanUndo              bool              `json:"canUndo"`
	Notice               string            `json:"notice,omitempty"`
}

// Summarize derives the scoring view for m.
func Summarize(m Match) MatchSummary {
	s := MatchSummary{
		Overs:                map[string]string{},
		FirstInningsComplete: FirstInningsComplete(m),
		MatchConcluded:       MatchConcluded(m),
		ScoringDisabled:      ScoringDisabled(m),
	}
	for _, id := range []string{m.TeamAID, m.TeamBID} {
		s.Overs[id] = scoring.FormatOvers(m.InningsFor(id).BallsFaced)
	}

	target, hasTarget := Target(m)
	s.HasTarget = hasTarget
	s.Target = target

	if m.Status == StatusLive && m.BattingTeamID != "" {
		batting := m.InningsFor(m.BattingTeamID)
		s.RemainingBalls = max(scoring.QuotaBalls(m.TotalOvers)-batting.BallsFaced, 0)
		s.CanSwitchInnings = !hasTarget
		s.CanUndo = len(batting.History) > 0
		if hasTarget {
			s.RunsNeeded = max(target-batting.Runs, 0)
		}
		s.Notice = pendingNotice(s, batting.Runs, target)
	}
	if m.Status == StatusCompleted && m.LastBattingTeamID != "" {
		s.CanUndo = len(m.InningsFor(m.LastBattingTeamID).History) > 0
	}
	return s
}

func pendingNotice(s MatchSummary, battingRuns, target int) string {
	switch {
	case s.MatchConcluded && battingRuns >= target:
		return NoticeTargetChased
	case s.MatchConcluded && battingRuns == target-1:
		return NoticeTied
	case s.MatchConcluded:
		return NoticeDefended
	case s.FirstInningsComplete:
		return NoticeInningsOver
	default:
		return ""
	}
}
