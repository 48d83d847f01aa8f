// Command cricketctl operates on the tournament document directly, without the HTTP server.
//
// Usage:
//
//	cricketctl create --name "Summer Cup" --overs 2 --team Lions --team Tigers --team Bears
//	cricketctl start <match-id> <batting-team-id>
//	cricketctl ball <match-id> 4
//	cricketctl standings
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/server"
	"github.com/preston-bernstein/cricket-tournament-service/internal/store"
)

var errNotApplied = errors.New("no change applied")

// opener yields a loaded service and a func releasing its storage.
type opener func(ctx context.Context) (*apptournament.Service, func(), error)

func main() {
	_ = godotenv.Load(".env")

	root := newRootCmd(openService)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openService(ctx context.Context) (*apptournament.Service, func(), error) {
	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	docs, closeFn, err := server.OpenDocuments(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	svc := apptournament.NewService(store.NewMemoryStore(), docs, logger, metrics.NewRecorder(), apptournament.Options{
		AutoSwitchInnings: cfg.Scoring.AutoSwitchInnings,
		AutoCompleteMatch: cfg.Scoring.AutoCompleteMatch,
		DefaultOvers:      cfg.Scoring.DefaultOvers,
		StoreTimeout:      cfg.Storage.Timeout,
	})
	if err := svc.Load(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load tournament: %w", err)
	}
	return svc, closeFn, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "cricketctl",
		Short:        "Manage a round-robin cricket tournament",
		SilenceUsage: true,
	}

	root.AddCommand(
		createCmd(open),
		resetCmd(open),
		fixturesCmd(open),
		standingsCmd(open),
		showCmd(open),
		startCmd(open),
		ballCmd(open),
		manualCmd(open),
		undoCmd(open),
		switchCmd(open),
		concludeCmd(open),
		completeCmd(open),
	)
	return root
}

// --------------------------------------------------------------------------
// tournament commands
// --------------------------------------------------------------------------

func createCmd(open opener) *cobra.Command {
	var (
		name  string
		overs int
		teams []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tournament, replacing any existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
				st, err := svc.Create(ctx, tournament.Settings{
					Name:          name,
					TeamCount:     len(teams),
					OversPerMatch: overs,
				}, teams)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), st)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Tournament name")
	cmd.Flags().IntVar(&overs, "overs", 0, "Overs per innings (0 uses DEFAULT_OVERS)")
	cmd.Flags().StringArrayVar(&teams, "team", nil, "Team name (repeat for each team)")
	return cmd
}

func resetCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the tournament document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
				if err := svc.Reset(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "tournament reset")
				return err
			})
		},
	}
}

func fixturesCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "List matches grouped by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
				grouped, err := svc.Fixtures()
				if err != nil {
					return err
				}
				st := svc.State()
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tSTATUS\tFIXTURE\tRESULT")
				for _, group := range [][]matches.Match{grouped.Live, grouped.Upcoming, grouped.Completed} {
					for _, m := range group {
						fmt.Fprintf(w, "%s\t%s\t%s vs %s\t%s\n", m.ID, m.Status, st.TeamName(m.TeamAID), st.TeamName(m.TeamBID), m.Result)
					}
				}
				return w.Flush()
			})
		},
	}
}

func standingsCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print the points table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
				table, err := svc.Standings()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "#\tTEAM\tP\tW\tL\tT\tPTS\tNRR\tFOR\tAGAINST")
				for i, row := range table {
					fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%+.3f\t%d/%s\t%d/%s\n",
						i+1, row.Name, row.Played, row.Won, row.Lost, row.Tied, row.Points, row.NRR,
						row.RunsScored, row.OversFaced(), row.RunsConceded, row.OversBowled())
				}
				return w.Flush()
			})
		},
	}
}

func showCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "show <match-id>",
		Short: "Show a match with its scoring summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
				view, err := svc.Match(args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

// --------------------------------------------------------------------------
// match commands
// --------------------------------------------------------------------------

func startCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "start <match-id> <batting-team-id>",
		Short: "Start a match with the given side batting first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.StartMatch(ctx, args[0], args[1])
			})
		},
	}
}

func ballCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "ball <match-id> <event>",
		Short: "Record a delivery such as 4, W, WD, NB2 or 1+W",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := scoring.ParseBall(args[1])
			if err != nil {
				return err
			}
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.RecordBall(ctx, args[0], ev)
			})
		},
	}
}

func manualCmd(open opener) *cobra.Command {
	var extra string
	cmd := &cobra.Command{
		Use:   "manual <match-id> <runs>",
		Short: "Record a delivery from a run count and optional extra (WD or NB)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.RecordManual(ctx, args[0], args[1], extra)
			})
		},
	}
	cmd.Flags().StringVar(&extra, "extra", "", "Extra type: WD or NB")
	return cmd
}

func undoCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <match-id>",
		Short: "Remove the last recorded delivery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.Undo(ctx, args[0])
			})
		},
	}
}

func switchCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <match-id>",
		Short: "End the first innings and swap sides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.SwitchInnings(ctx, args[0])
			})
		},
	}
}

func concludeCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "conclude <match-id>",
		Short: "Complete a finished match with the computed result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.Conclude(ctx, args[0])
			})
		},
	}
}

func completeCmd(open opener) *cobra.Command {
	var winner, result string
	cmd := &cobra.Command{
		Use:   "complete <match-id>",
		Short: "Complete a match with an explicit winner (omit --winner for a tie)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatchOp(cmd, open, func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error) {
				return svc.CompleteMatch(ctx, args[0], winner, result)
			})
		},
	}
	cmd.Flags().StringVar(&winner, "winner", "", "Winning team id")
	cmd.Flags().StringVar(&result, "result", "", "Result text")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withService handles storage setup and interrupt cancellation around fn.
func withService(cmd *cobra.Command, open opener, fn func(ctx context.Context, svc *apptournament.Service) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	svc, closeFn, err := open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return fn(ctx, svc)
}

// runMatchOp prints the resulting match and fails when nothing changed.
func runMatchOp(cmd *cobra.Command, open opener, op func(ctx context.Context, svc *apptournament.Service) (apptournament.Result, error)) error {
	return withService(cmd, open, func(ctx context.Context, svc *apptournament.Service) error {
		res, err := op(ctx, svc)
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if !res.Applied {
			return errNotApplied
		}
		return nil
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
