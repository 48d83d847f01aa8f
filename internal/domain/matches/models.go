package matches

import (
	"encoding/json"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
)

// Status mirrors the match lifecycle stored in the tournament document.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

// Innings is one team's batting record. Runs, Wickets and BallsFaced are cached projections of History.
type Innings struct {
	TeamID     string              `json:"teamId"`
	Runs       int                 `json:"runs"`
	Wickets    int                 `json:"wickets"`
	BallsFaced int                 `json:"ballsFaced"`
	History    []scoring.BallEvent `json:"history"`
}

// NewInnings returns an empty innings for the team.
func NewInnings(teamID string) Innings {
	return Innings{TeamID: teamID, History: []scoring.BallEvent{}}
}

// Score derives the innings score from its history.
func (in Innings) Score() scoring.Score {
	return scoring.DeriveScore(in.History)
}

// HasProgress reports whether anything has been recorded for the innings.
func (in Innings) HasProgress() bool {
	return in.Runs > 0 || in.BallsFaced > 0 || len(in.History) > 0
}

func (in Innings) withHistory(history []scoring.BallEvent) Innings {
	s := scoring.DeriveScore(history)
	in.History = history
	in.Runs = s.Runs
	in.Wickets = s.Wickets
	in.BallsFaced = s.LegalBalls
	return in
}

func (in Innings) clone() Innings {
	history := make([]scoring.BallEvent, len(in.History))
	copy(history, in.History)
	in.History = history
	return in
}

// Match is a single fixture between two teams.
// Empty WinnerID, BattingTeamID and BowlingTeamID are encoded as null.
type Match struct {
	ID            string             `json:"id"`
	TeamAID       string             `json:"teamAId"`
	TeamBID       string             `json:"teamBId"`
	Status        Status             `json:"status"`
	TotalOvers    int                `json:"totalOvers"`
	Innings       map[string]Innings `json:"innings"`
	WinnerID      string             `json:"winnerId"`
	BattingTeamID string             `json:"battingTeamId"`
	BowlingTeamID string             `json:"bowlingTeamId"`
	Result        string             `json:"result,omitempty"`
	// LastBattingTeamID is the side that was batting when the match was completed.
	LastBattingTeamID string `json:"lastBattingTeamId,omitempty"`
}

type matchJSON struct {
	ID                string             `json:"id"`
	TeamAID           string             `json:"teamAId"`
	TeamBID           string             `json:"teamBId"`
	Status            Status             `json:"status"`
	TotalOvers        int                `json:"totalOvers"`
	Innings           map[string]Innings `json:"innings"`
	WinnerID          *string            `json:"winnerId"`
	BattingTeamID     *string            `json:"battingTeamId"`
	BowlingTeamID     *string            `json:"bowlingTeamId"`
	Result            string             `json:"result,omitempty"`
	LastBattingTeamID string             `json:"lastBattingTeamId,omitempty"`
}

// MarshalJSON writes unset team references as null.
func (m Match) MarshalJSON() ([]byte, error) {
	return json.Marshal(matchJSON{
		ID:                m.ID,
		TeamAID:           m.TeamAID,
		TeamBID:           m.TeamBID,
		Status:            m.Status,
		TotalOvers:        m.TotalOvers,
		Innings:           m.Innings,
		WinnerID:          nullable(m.WinnerID),
		BattingTeamID:     nullable(m.BattingTeamID),
		BowlingTeamID:     nullable(m.BowlingTeamID),
		Result:            m.Result,
		LastBattingTeamID: m.LastBattingTeamID,
	})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Clone deep-copies the innings map and histories.
func (m Match) Clone() Match {
	out := m
	out.Innings = make(map[string]Innings, len(m.Innings))
	for id, inn := range m.Innings {
		out.Innings[id] = inn.clone()
	}
	return out
}

// Reproject recomputes every innings' cached figures from its history.
// Loaded documents go through it so the history stays the only source of truth.
func Reproject(m Match) Match {
	out := m.Clone()
	for id, inn := range out.Innings {
		if inn.TeamID == "" {
			inn.TeamID = id
		}
		if inn.History == nil {
			inn.History = []scoring.BallEvent{}
		}
		out.Innings[id] = inn.withHistory(inn.History)
	}
	return out
}

// HasTeam reports whether the team plays in the match.
func (m Match) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == m.TeamAID || teamID == m.TeamBID)
}

// Opponent returns the other side of the match.
func (m Match) Opponent(teamID string) (string, bool) {
	switch teamID {
	case m.TeamAID:
		return m.TeamBID, true
	case m.TeamBID:
		return m.TeamAID, true
	default:
		return "", false
	}
}

// InningsFor returns the innings of the team, empty when none has been recorded.
func (m Match) InningsFor(teamID string) Innings {
	if inn, ok := m.Innings[teamID]; ok {
		return inn
	}
	return NewInnings(teamID)
}

// Options toggles the automatic transitions applied by RecordBall.
type Options struct {
	AutoSwitchInnings bool
	AutoCompleteMatch bool
	// TeamName resolves names for the result text. Ids are used when nil.
	TeamName func(id string) string
}
