// Package mcptools exposes read-only tournament views as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/standings"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
)

const (
	ServerName = "cricket-tournament"

	ToolStandings    = "standings"
	ToolFixtures     = "fixtures"
	ToolMatchSummary = "match_summary"
)

// Reader is the read side of the tournament service.
type Reader interface {
	Standings() ([]standings.TeamStats, error)
	Fixtures() (tournament.Grouped, error)
	Match(id string) (apptournament.MatchView, error)
}

type StandingsArgs struct{}

type FixturesArgs struct {
	Status string `json:"status,omitempty" jsonschema:"optional filter: upcoming, live or completed"`
}

type MatchSummaryArgs struct {
	MatchID string `json:"match_id" jsonschema:"id of the match to summarize"`
}

// StandingsRow is one line of the points table as returned to agents.
type StandingsRow struct {
	Pos    int    `json:"pos"`
	TeamID string `json:"team_id"`
	Team   string `json:"team"`
	Played int    `json:"played"`
	Won    int    `json:"won"`
	Lost   int    `json:"lost"`
	Tied   int    `json:"tied"`
	Points int    `json:"points"`
	NRR    string `json:"nrr"`
	// For and Against are runs/overs as used for NRR, e.g. "16/0.3".
	For     string `json:"for"`
	Against string `json:"against"`
}

type tools struct {
	reader Reader
	logger *slog.Logger
}

// NewServer registers the read-only tools on a new MCP server.
func NewServer(reader Reader, version string, logger *slog.Logger) *mcp.Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	t := &tools{reader: reader, logger: logger}

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolStandings,
		Description: "Ranked points table with net run rate for every team",
	}, t.standings)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolFixtures,
		Description: "Round-robin fixtures grouped by status (live, upcoming, completed)",
	}, t.fixtures)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolMatchSummary,
		Description: "Scores, overs, target and result notice for one match",
	}, t.matchSummary)

	return server
}

// NewHandler serves server over streamable HTTP with plain JSON responses.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func (t *tools) standings(ctx context.Context, _ *mcp.CallToolRequest, _ StandingsArgs) (*mcp.CallToolResult, any, error) {
	table, err := t.reader.Standings()
	if err != nil {
		return t.toolError(ctx, ToolStandings, err), nil, nil
	}
	return toolJSON(buildStandings(table))
}

func (t *tools) fixtures(ctx context.Context, _ *mcp.CallToolRequest, args FixturesArgs) (*mcp.CallToolResult, any, error) {
	grouped, err := t.reader.Fixtures()
	if err != nil {
		return t.toolError(ctx, ToolFixtures, err), nil, nil
	}
	out, err := filterFixtures(grouped, args.Status)
	if err != nil {
		return t.toolError(ctx, ToolFixtures, err), nil, nil
	}
	return toolJSON(out, nil)
}

func (t *tools) matchSummary(ctx context.Context, _ *mcp.CallToolRequest, args MatchSummaryArgs) (*mcp.CallToolResult, any, error) {
	id := strings.TrimSpace(args.MatchID)
	if id == "" {
		return t.toolError(ctx, ToolMatchSummary, fmt.Errorf("match_id is required")), nil, nil
	}
	view, err := t.reader.Match(id)
	if err != nil {
		return t.toolError(ctx, ToolMatchSummary, err), nil, nil
	}
	return toolJSON(view, nil)
}

func buildStandings(table []standings.TeamStats) ([]StandingsRow, error) {
	rows := make([]StandingsRow, 0, len(table))
	for i, s := range table {
		rows = append(rows, StandingsRow{
			Pos:    i + 1,
			TeamID: s.ID,
			Team:   s.Name,
			Played: s.Played,
			Won:    s.Won,
			Lost:   s.Lost,
			Tied:   s.Tied,
			Points: s.Points,
			NRR:    fmt.Sprintf("%+.3f", s.NRR),

			For:     fmt.Sprintf("%d/%s", s.RunsScored, s.OversFaced()),
			Against: fmt.Sprintf("%d/%s", s.RunsConceded, s.OversBowled()),
		})
	}
	return rows, nil
}

func filterFixtures(grouped tournament.Grouped, status string) (any, error) {
	switch matches.Status(strings.ToLower(strings.TrimSpace(status))) {
	case "":
		return grouped, nil
	case matches.StatusUpcoming:
		return grouped.Upcoming, nil
	case matches.StatusLive:
		return grouped.Live, nil
	case matches.StatusCompleted:
		return grouped.Completed, nil
	default:
		return nil, fmt.Errorf("unknown status %q", status)
	}
}

func toolJSON(v any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func (t *tools) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	logging.Debug(logging.FromContext(ctx, t.logger), "mcp tool failed", "tool", tool, "err", err)
	return toolError(err)
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
