package tournament

import (
	"errors"
	"fmt"
	"strings"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/teams"
)

const (
	DefaultPlayersPerTeam = 11
	DefaultOversPerMatch  = 5
	// UnknownTeamName is shown for ids that are not part of the tournament.
	UnknownTeamName = "Unknown"
)

var (
	ErrInvalidSettings = errors.New("invalid tournament settings")
	ErrNotInitialized  = errors.New("tournament not initialized")
	ErrMatchNotFound   = errors.New("match not found")
)

// Settings are fixed when the tournament is created.
type Settings struct {
	Name           string `json:"name"`
	TeamCount      int    `json:"teamCount"`
	PlayersPerTeam int    `json:"playersPerTeam"`
	OversPerMatch  int    `json:"oversPerMatch"`
}

// State is the whole persisted tournament document.
type State struct {
	Settings    *Settings       `json:"settings"`
	Teams       []teams.Team    `json:"teams"`
	Matches     []matches.Match `json:"matches"`
	Initialized bool            `json:"isInitialized"`
}

// Empty returns the not-initialized state.
func Empty() State {
	return State{Teams: []teams.Team{}, Matches: []matches.Match{}}
}

// Create validates settings, registers the named teams and generates the round-robin fixtures.
// Blank names are dropped.
func Create(settings Settings, teamNames []string, newID func() string) (State, error) {
	name := strings.TrimSpace(settings.Name)
	if name == "" {
		return State{}, fmt.Errorf("%w: name is required", ErrInvalidSettings)
	}

	ts := make([]teams.Team, 0, len(teamNames))
	for _, n := range teamNames {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		ts = append(ts, teams.Team{ID: newID(), Name: n})
	}
	if len(ts) < 2 {
		return State{}, fmt.Errorf("%w: at least two teams are required, got %d", ErrInvalidSettings, len(ts))
	}

	settings.Name = name
	settings.TeamCount = len(ts)
	if settings.PlayersPerTeam <= 0 {
		settings.PlayersPerTeam = DefaultPlayersPerTeam
	}
	if settings.OversPerMatch <= 0 {
		settings.OversPerMatch = DefaultOversPerMatch
	}

	return State{
		Settings:    &settings,
		Teams:       ts,
		Matches:     matches.GenerateFixtures(ts, settings.OversPerMatch, newID),
		Initialized: true,
	}, nil
}

// Match looks up a match by id.
func (s State) Match(id string) (matches.Match, bool) {
	for _, m := range s.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return matches.Match{}, false
}

// Team looks up a team by id.
func (s State) Team(id string) (teams.Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return teams.Team{}, false
}

// TeamName returns the team's name or UnknownTeamName.
func (s State) TeamName(id string) string {
	if t, ok := s.Team(id); ok {
		return t.Name
	}
	return UnknownTeamName
}

// ReplaceMatch returns a copy of the state with the match of the same id swapped in.
func (s State) ReplaceMatch(m matches.Match) (State, bool) {
	for i := range s.Matches {
		if s.Matches[i].ID != m.ID {
			continue
		}
		out := s
		out.Matches = make([]matches.Match, len(s.Matches))
		copy(out.Matches, s.Matches)
		out.Matches[i] = m
		return out, true
	}
	return s, false
}

// Grouped lists matches by lifecycle status, preserving fixture order.
type Grouped struct {
	Live      []matches.Match `json:"live"`
	Upcoming  []matches.Match `json:"upcoming"`
	Completed []matches.Match `json:"completed"`
}

// MatchesByStatus groups the fixtures for listing.
func (s State) MatchesByStatus() Grouped {
	g := Grouped{Live: []matches.Match{}, Upcoming: []matches.Match{}, Completed: []matches.Match{}}
	for _, m := range s.Matches {
		switch m.Status {
		case matches.StatusLive:
			g.Live = append(g.Live, m)
		case matches.StatusCompleted:
			g.Completed = append(g.Completed, m)
		default:
			g.Upcoming = append(g.Upcoming, m)
		}
	}
	return g
}
