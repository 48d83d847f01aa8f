package tournament

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/standings"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/teams"
	domaintournament "github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/snapshots"
)

const defaultStoreTimeout = 5 * time.Second

// Operation names used in logs and metrics.
const (
	OpCreate   = "create"
	OpReset    = "reset"
	OpStart    = "start"
	OpBall     = "ball"
	OpManual   = "manual"
	OpUndo     = "undo"
	OpSwitch   = "switch"
	OpComplete = "complete"
	OpConclude = "conclude"
)

// Store holds the current tournament snapshot in memory.
type Store interface {
	State() domaintournament.State
	SetState(state domaintournament.State)
	Loaded() bool
}

// Persister loads and saves the tournament document.
type Persister interface {
	Load(ctx context.Context) (domaintournament.State, error)
	Save(ctx context.Context, state domaintournament.State) error
	Clear(ctx context.Context) error
	Backend() string
}

// Options configure scoring behavior and persistence deadlines.
type Options struct {
	AutoSwitchInnings bool
	AutoCompleteMatch bool
	DefaultOvers      int
	StoreTimeout      time.Duration
	NewID             func() string
}

// Result reports whether a match operation changed anything, and the match afterwards.
type Result struct {
	Applied bool          `json:"applied"`
	Match   matches.Match `json:"match"`
}

// MatchView is a match with its derived summary and team names.
type MatchView struct {
	Match     matches.Match        `json:"match"`
	Summary   matches.MatchSummary `json:"summary"`
	TeamNames map[string]string    `json:"teamNames"`
	Pending   *matches.Resolution  `json:"pendingResult,omitempty"`
}

// Service serializes tournament mutations and persists after each accepted one.
type Service struct {
	mu       sync.Mutex
	store    Store
	persist  Persister
	logger   *slog.Logger
	recorder *metrics.Recorder
	opts     Options
}

// NewService constructs a Service. persist may be nil for a purely in-memory tournament.
func NewService(store Store, persist Persister, logger *slog.Logger, recorder *metrics.Recorder, opts Options) *Service {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.DefaultOvers <= 0 {
		opts.DefaultOvers = domaintournament.DefaultOversPerMatch
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Service{store: store, persist: persist, logger: logger, recorder: recorder, opts: opts}
}

// Load reads the persisted document into memory. A corrupted document is logged and
// replaced by the not-initialized state; other backend errors are returned.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist == nil {
		s.store.SetState(domaintournament.Empty())
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	start := time.Now()
	state, err := s.persist.Load(ctx)
	s.recorder.RecordStoreOp("load", s.persist.Backend(), time.Since(start), err)

	switch {
	case errors.Is(err, snapshots.ErrCorrupted):
		logging.Warn(s.logger, "stored tournament is corrupted, starting fresh",
			logging.FieldBackend, s.persist.Backend(), "err", err)
		state = domaintournament.Empty()
	case err != nil:
		logging.Error(s.logger, "tournament load failed", err, logging.FieldBackend, s.persist.Backend())
		return err
	}

	s.store.SetState(state)
	logging.Info(s.logger, "tournament loaded",
		logging.FieldBackend, s.persist.Backend(),
		"initialized", state.Initialized,
		logging.FieldCount, len(state.Matches),
	)
	return nil
}

// Ready reports whether the state has been loaded.
func (s *Service) Ready() bool {
	return s.store.Loaded()
}

// State returns the current tournament document.
func (s *Service) State() domaintournament.State {
	return s.store.State()
}

// Teams returns the registered teams.
func (s *Service) Teams() []teams.Team {
	return s.store.State().Teams
}

// Fixtures groups matches by status.
func (s *Service) Fixtures() (domaintournament.Grouped, error) {
	st := s.store.State()
	if !st.Initialized {
		return domaintournament.Grouped{}, domaintournament.ErrNotInitialized
	}
	return st.MatchesByStatus(), nil
}

// Standings returns the ranked points table.
func (s *Service) Standings() ([]standings.TeamStats, error) {
	st := s.store.State()
	if !st.Initialized {
		return nil, domaintournament.ErrNotInitialized
	}
	return standings.Compute(st.Teams, st.Matches), nil
}

// Match returns a match with its derived view.
func (s *Service) Match(id string) (MatchView, error) {
	st := s.store.State()
	if !st.Initialized {
		return MatchView{}, domaintournament.ErrNotInitialized
	}
	m, ok := st.Match(id)
	if !ok {
		return MatchView{}, fmt.Errorf("%w: %s", domaintournament.ErrMatchNotFound, id)
	}
	view := MatchView{
		Match:   m,
		Summary: matches.Summarize(m),
		TeamNames: map[string]string{
			m.TeamAID: st.TeamName(m.TeamAID),
			m.TeamBID: st.TeamName(m.TeamBID),
		},
	}
	if m.Status == matches.StatusLive {
		if res, ok := matches.Resolve(m, st.TeamName); ok {
			view.Pending = &res
		}
	}
	return view, nil
}

// Create starts a new tournament, replacing any existing one.
func (s *Service) Create(ctx context.Context, settings domaintournament.Settings, teamNames []string) (domaintournament.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.OversPerMatch <= 0 {
		settings.OversPerMatch = s.opts.DefaultOvers
	}
	st, err := domaintournament.Create(settings, teamNames, s.opts.NewID)
	if err != nil {
		s.recorder.RecordTransition(OpCreate, metrics.OutcomeRejected)
		return domaintournament.State{}, err
	}

	s.store.SetState(st)
	s.save(ctx, st)
	s.recorder.RecordTransition(OpCreate, metrics.OutcomeApplied)
	logging.Info(logging.FromContext(ctx, s.logger), "tournament created",
		"name", st.Settings.Name,
		logging.FieldCount, len(st.Teams),
		"matches", len(st.Matches),
	)
	return st, nil
}

// Reset discards the tournament and deletes the persisted document.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.SetState(domaintournament.Empty())
	s.recorder.RecordTransition(OpReset, metrics.OutcomeApplied)
	if s.persist == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()
	start := time.Now()
	err := s.persist.Clear(ctx)
	s.recorder.RecordStoreOp("clear", s.persist.Backend(), time.Since(start), err)
	if err != nil {
		logging.Error(logging.FromContext(ctx, s.logger), "tournament clear failed", err)
		return err
	}
	logging.Info(logging.FromContext(ctx, s.logger), "tournament reset")
	return nil
}

// StartMatch sets the match live with battingTeamID batting first.
func (s *Service) StartMatch(ctx context.Context, matchID, battingTeamID string) (Result, error) {
	return s.mutate(ctx, OpStart, matchID, func(_ domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		next, ok := matches.StartMatch(m, battingTeamID)
		return next, ok, nil
	})
}

// RecordBall scores one delivery.
func (s *Service) RecordBall(ctx context.Context, matchID string, ev scoring.BallEvent) (Result, error) {
	return s.mutate(ctx, OpBall, matchID, s.scoreBall(ctx, ev))
}

// RecordManual scores an operator-entered delivery. Unparseable runs are ignored.
func (s *Service) RecordManual(ctx context.Context, matchID, runs, extra string) (Result, error) {
	ev, err := scoring.ManualBall(runs, extra)
	if err != nil {
		logging.Debug(logging.FromContext(ctx, s.logger), "manual entry ignored",
			logging.FieldMatchID, matchID, "runs", runs, "extra", extra, "err", err)
		return s.mutate(ctx, OpManual, matchID, func(_ domaintournament.State, m matches.Match) (matches.Match, bool, error) {
			return m, false, nil
		})
	}
	return s.mutate(ctx, OpManual, matchID, s.scoreBall(ctx, ev))
}

func (s *Service) scoreBall(ctx context.Context, ev scoring.BallEvent) mutator {
	return func(st domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		if err := ev.Validate(); err != nil {
			return m, false, err
		}
		opts := matches.Options{
			AutoSwitchInnings: s.opts.AutoSwitchInnings,
			AutoCompleteMatch: s.opts.AutoCompleteMatch,
			TeamName:          st.TeamName,
		}
		next, ok := matches.RecordBall(m, ev, opts)
		if !ok {
			return m, false, nil
		}
		s.recorder.RecordBall(ev.Legal())

		logger := logging.FromContext(ctx, s.logger)
		batting := m.BattingTeamID
		if n, done := matches.OverCompleted(m.InningsFor(batting), next.InningsFor(batting)); done {
			logging.Debug(logger, matches.OverNotice(n), logging.FieldMatchID, m.ID, logging.FieldTeamID, batting)
		}
		if next.BattingTeamID != m.BattingTeamID && next.Status == matches.StatusLive {
			logging.Info(logger, "innings switched automatically", logging.FieldMatchID, m.ID)
		}
		if next.Status == matches.StatusCompleted {
			logging.Info(logger, "match completed automatically", logging.FieldMatchID, m.ID, "result", next.Result)
		}
		return next, true, nil
	}
}

// Undo removes the last recorded delivery.
func (s *Service) Undo(ctx context.Context, matchID string) (Result, error) {
	return s.mutate(ctx, OpUndo, matchID, func(_ domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		next, ok := matches.Undo(m)
		return next, ok, nil
	})
}

// SwitchInnings ends the first innings.
func (s *Service) SwitchInnings(ctx context.Context, matchID string) (Result, error) {
	return s.mutate(ctx, OpSwitch, matchID, func(_ domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		next, ok := matches.SwitchInnings(m)
		return next, ok, nil
	})
}

// Conclude completes a concluded match with the computed result.
func (s *Service) Conclude(ctx context.Context, matchID string) (Result, error) {
	return s.mutate(ctx, OpConclude, matchID, func(st domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		next, ok := matches.Conclude(m, st.TeamName)
		return next, ok, nil
	})
}

// CompleteMatch records an operator-chosen outcome. An empty winnerID is a tie.
func (s *Service) CompleteMatch(ctx context.Context, matchID, winnerID, resultText string) (Result, error) {
	return s.mutate(ctx, OpComplete, matchID, func(_ domaintournament.State, m matches.Match) (matches.Match, bool, error) {
		next, err := matches.CompleteMatch(m, winnerID, resultText)
		if err != nil {
			return m, false, err
		}
		return next, true, nil
	})
}

type mutator func(st domaintournament.State, m matches.Match) (matches.Match, bool, error)

func (s *Service) mutate(ctx context.Context, op, matchID string, fn mutator) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := logging.FromContext(ctx, s.logger)
	st := s.store.State()
	if !st.Initialized {
		s.recorder.RecordTransition(op, metrics.OutcomeRejected)
		return Result{}, domaintournament.ErrNotInitialized
	}
	m, ok := st.Match(matchID)
	if !ok {
		s.recorder.RecordTransition(op, metrics.OutcomeRejected)
		return Result{}, fmt.Errorf("%w: %s", domaintournament.ErrMatchNotFound, matchID)
	}

	next, applied, err := fn(st, m)
	if err != nil {
		s.recorder.RecordTransition(op, metrics.OutcomeRejected)
		logging.Info(logger, "match operation rejected", logging.FieldAction, op, logging.FieldMatchID, matchID, "err", err)
		return Result{Match: m}, err
	}
	if !applied {
		s.recorder.RecordTransition(op, metrics.OutcomeNoop)
		logging.Debug(logger, "match operation ignored", logging.FieldAction, op, logging.FieldMatchID, matchID)
		return Result{Match: m}, nil
	}

	updated, _ := st.ReplaceMatch(next)
	s.store.SetState(updated)
	s.save(ctx, updated)
	s.recorder.RecordTransition(op, metrics.OutcomeApplied)
	return Result{Applied: true, Match: next}, nil
}

// save persists state. Failures are logged and counted; the in-memory state stays authoritative.
func (s *Service) save(ctx context.Context, state domaintournament.State) {
	if s.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	start := time.Now()
	err := s.persist.Save(ctx, state)
	s.recorder.RecordStoreOp("save", s.persist.Backend(), time.Since(start), err)
	if err != nil {
		logging.Error(logging.FromContext(ctx, s.logger), "tournament save failed", err,
			logging.FieldBackend, s.persist.Backend())
	}
}
