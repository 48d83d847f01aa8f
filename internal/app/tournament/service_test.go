package tournament_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/snapshots"
	"github.com/preston-bernstein/cricket-tournament-service/internal/store"
	"github.com/preston-bernstein/cricket-tournament-service/internal/testutil"
)

type failingPersister struct {
	saves int
}

func (f *failingPersister) Load(context.Context) (tournament.State, error) {
	return testutil.SampleTournament(1, "A", "B"), nil
}

func (f *failingPersister) Save(context.Context, tournament.State) error {
	f.saves++
	return errors.New("disk full")
}

func (f *failingPersister) Clear(context.Context) error { return errors.New("disk full") }
func (f *failingPersister) Backend() string            { return "failing" }

func mustApply(t *testing.T) func(apptournament.Result, error) matches.Match {
	return func(res apptournament.Result, err error) matches.Match {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Applied {
			t.Fatalf("expected operation to apply")
		}
		return res.Match
	}
}

func TestLoadMissingDocumentIsNotInitialized(t *testing.T) {
	svc, _, _ := testutil.NewService(tournament.Empty(), apptournament.Options{})
	if !svc.Ready() {
		t.Fatalf("expected service to be ready after load")
	}
	if svc.State().Initialized {
		t.Fatalf("expected not-initialized state")
	}
	if _, err := svc.Standings(); !errors.Is(err, tournament.ErrNotInitialized) {
		t.Fatalf("expected not initialized, got %v", err)
	}
	if _, err := svc.Fixtures(); !errors.Is(err, tournament.ErrNotInitialized) {
		t.Fatalf("expected not initialized, got %v", err)
	}
	if _, err := svc.RecordBall(context.Background(), "m1", scoring.Dot()); !errors.Is(err, tournament.ErrNotInitialized) {
		t.Fatalf("expected not initialized, got %v", err)
	}
}

func TestLoadCorruptedDocumentStartsFresh(t *testing.T) {
	backend := snapshots.NewMemoryStore()
	_ = backend.Save(context.Background(), []byte("{not json"))
	logger, buf := testutil.NewBufferLogger()

	svc := apptournament.NewService(store.NewMemoryStore(), snapshots.NewStore(backend), logger, nil, apptournament.Options{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("expected corrupted document to be tolerated, got %v", err)
	}
	if svc.State().Initialized {
		t.Fatalf("expected not-initialized state")
	}
	if !strings.Contains(buf.String(), "corrupted") {
		t.Fatalf("expected corruption warning, got %s", buf.String())
	}
}

func TestCreatePersistsAndAppliesDefaultOvers(t *testing.T) {
	svc, backend, rec := testutil.NewService(tournament.Empty(), apptournament.Options{DefaultOvers: 3})

	st, err := svc.Create(context.Background(), tournament.Settings{Name: "Cup"}, []string{"A", "B", "C", "D"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(st.Matches) != 6 || st.Settings.OversPerMatch != 3 {
		t.Fatalf("unexpected state %+v", st)
	}
	if backend.Saves != 1 {
		t.Fatalf("expected one save, got %d", backend.Saves)
	}
	if rec.Transitions(apptournament.OpCreate, metrics.OutcomeApplied) != 1 {
		t.Fatalf("expected create recorded")
	}

	if _, err := svc.Create(context.Background(), tournament.Settings{Name: " "}, []string{"A", "B"}); !errors.Is(err, tournament.ErrInvalidSettings) {
		t.Fatalf("expected invalid settings, got %v", err)
	}
	if !svc.State().Initialized || len(svc.State().Matches) != 6 {
		t.Fatalf("expected rejected create to keep the existing tournament")
	}
}

func TestScoringFlowPersistsEachAppliedChange(t *testing.T) {
	svc, backend, rec := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	ctx := context.Background()

	// Scoring before start is ignored.
	res, err := svc.RecordBall(ctx, "m1", scoring.RunsOff(4))
	if err != nil || res.Applied {
		t.Fatalf("expected no-op before start, got %+v %v", res, err)
	}
	if backend.Saves != 0 {
		t.Fatalf("expected no save for a no-op")
	}

	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))
	mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(4)))
	mustApply(t)(svc.RecordBall(ctx, "m1", scoring.Wide(0)))
	m := mustApply(t)(svc.RecordBall(ctx, "m1", scoring.Wicket(0)))

	if got := m.InningsFor("t1").Score(); got.Runs != 5 || got.Wickets != 1 || got.LegalBalls != 2 {
		t.Fatalf("unexpected score %+v", got)
	}
	if backend.Saves != 4 {
		t.Fatalf("expected four saves, got %d", backend.Saves)
	}
	legal, extras := rec.Balls()
	if legal != 2 || extras != 1 {
		t.Fatalf("expected 2 legal and 1 extra, got %d and %d", legal, extras)
	}

	m = mustApply(t)(svc.Undo(ctx, "m1"))
	if got := m.InningsFor("t1").Score(); got.Wickets != 0 || got.Runs != 5 {
		t.Fatalf("unexpected score after undo %+v", got)
	}
	if rec.Transitions(apptournament.OpBall, metrics.OutcomeNoop) != 1 {
		t.Fatalf("expected the early ball recorded as a no-op")
	}
}

func TestMatchNotFound(t *testing.T) {
	svc, _, rec := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	if _, err := svc.StartMatch(context.Background(), "nope", "t1"); !errors.Is(err, tournament.ErrMatchNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
	if _, err := svc.Match("nope"); !errors.Is(err, tournament.ErrMatchNotFound) {
		t.Fatalf("expected match not found, got %v", err)
	}
	if rec.Transitions(apptournament.OpStart, metrics.OutcomeRejected) != 1 {
		t.Fatalf("expected rejected start recorded")
	}
}

func TestRecordManualIgnoresMalformedInput(t *testing.T) {
	svc, backend, _ := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	ctx := context.Background()
	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))

	res, err := svc.RecordManual(ctx, "m1", "abc", "")
	if err != nil || res.Applied {
		t.Fatalf("expected malformed manual entry to be a no-op, got %+v %v", res, err)
	}

	m := mustApply(t)(svc.RecordManual(ctx, "m1", "2", "nb"))
	if got := m.InningsFor("t1").Score(); got.Runs != 3 || got.LegalBalls != 0 {
		t.Fatalf("unexpected score after manual no-ball %+v", got)
	}
	if backend.Saves != 2 {
		t.Fatalf("expected two saves, got %d", backend.Saves)
	}
}

func TestRecordBallRejectsUnknownKind(t *testing.T) {
	svc, backend, rec := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	ctx := context.Background()
	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))

	res, err := svc.RecordBall(ctx, "m1", scoring.BallEvent{Kind: "bye", Runs: 1})
	if !errors.Is(err, scoring.ErrMalformedBall) || res.Applied {
		t.Fatalf("expected malformed ball error, got %+v %v", res, err)
	}
	m, _ := svc.State().Match("m1")
	if got := len(m.InningsFor("t1").History); got != 0 {
		t.Fatalf("expected empty history, got %d events", got)
	}
	if backend.Saves != 1 {
		t.Fatalf("expected only the start to be saved, got %d", backend.Saves)
	}
	if rec.Transitions(apptournament.OpBall, metrics.OutcomeRejected) != 1 {
		t.Fatalf("expected rejected ball recorded")
	}
}

func TestCompleteMatchErrors(t *testing.T) {
	svc, _, rec := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	ctx := context.Background()

	if _, err := svc.CompleteMatch(ctx, "m1", "t1", ""); !errors.Is(err, matches.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for upcoming match, got %v", err)
	}
	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))
	if _, err := svc.CompleteMatch(ctx, "m1", "t1", ""); !errors.Is(err, matches.ErrNoPlayRecorded) {
		t.Fatalf("expected no play recorded, got %v", err)
	}
	mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(1)))
	if _, err := svc.CompleteMatch(ctx, "m1", "zzz", ""); !errors.Is(err, matches.ErrUnknownWinner) {
		t.Fatalf("expected unknown winner, got %v", err)
	}
	m := mustApply(t)(svc.CompleteMatch(ctx, "m1", "t1", "A won on forfeit"))
	if m.Status != matches.StatusCompleted || m.WinnerID != "t1" {
		t.Fatalf("unexpected completed match %+v", m)
	}
	if rec.Transitions(apptournament.OpComplete, metrics.OutcomeRejected) != 3 {
		t.Fatalf("expected three rejected completions")
	}
}

func TestChaseConcludesAndUpdatesStandings(t *testing.T) {
	svc, _, _ := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	ctx := context.Background()

	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))
	for i := 0; i < 6; i++ {
		mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(1)))
	}
	mustApply(t)(svc.SwitchInnings(ctx, "m1"))
	mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(6)))
	mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(1)))

	view, err := svc.Match("m1")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !view.Summary.MatchConcluded || view.Summary.Notice != matches.NoticeTargetChased {
		t.Fatalf("unexpected summary %+v", view.Summary)
	}
	if view.Pending == nil || view.Pending.Text != "B won by 10 wickets" {
		t.Fatalf("unexpected pending result %+v", view.Pending)
	}
	if view.TeamNames["t1"] != "A" || view.TeamNames["t2"] != "B" {
		t.Fatalf("unexpected team names %v", view.TeamNames)
	}

	m := mustApply(t)(svc.Conclude(ctx, "m1"))
	if m.WinnerID != "t2" || m.Result != "B won by 10 wickets" {
		t.Fatalf("unexpected conclusion %+v", m)
	}
	if res, _ := svc.Conclude(ctx, "m1"); res.Applied {
		t.Fatalf("expected second conclude to be a no-op")
	}

	table, err := svc.Standings()
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if table[0].ID != "t2" || table[0].Points != 2 || table[1].Lost != 1 {
		t.Fatalf("unexpected standings %+v", table)
	}
	grouped, _ := svc.Fixtures()
	if len(grouped.Completed) != 1 || len(grouped.Live) != 0 {
		t.Fatalf("unexpected fixtures %+v", grouped)
	}
}

func TestAutoOptionsCompleteMatch(t *testing.T) {
	svc, _, rec := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{
		AutoSwitchInnings: true,
		AutoCompleteMatch: true,
	})
	ctx := context.Background()

	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))
	var m matches.Match
	for i := 0; i < 6; i++ {
		m = mustApply(t)(svc.RecordBall(ctx, "m1", scoring.Dot()))
	}
	if m.BattingTeamID != "t2" {
		t.Fatalf("expected automatic switch, batting %s", m.BattingTeamID)
	}
	m = mustApply(t)(svc.RecordBall(ctx, "m1", scoring.RunsOff(1)))
	if m.Status != matches.StatusCompleted || m.WinnerID != "t2" {
		t.Fatalf("expected automatic completion, got %+v", m)
	}
	if legal, _ := rec.Balls(); legal != 7 {
		t.Fatalf("expected 7 legal balls, got %d", legal)
	}
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	fp := &failingPersister{}
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	svc := apptournament.NewService(store.NewMemoryStore(), fp, logger, rec, apptournament.Options{})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	res, err := svc.StartMatch(context.Background(), "m1", "t1")
	if err != nil || !res.Applied {
		t.Fatalf("expected start to apply despite save failure, got %+v %v", res, err)
	}
	if view, _ := svc.Match("m1"); view.Match.Status != matches.StatusLive {
		t.Fatalf("expected in-memory state to keep the change")
	}
	if fp.saves != 1 || rec.StoreSnapshot("save").Errors != 1 {
		t.Fatalf("expected a counted save failure")
	}
	if !strings.Contains(buf.String(), "tournament save failed") {
		t.Fatalf("expected save failure logged")
	}
	if err := svc.Reset(context.Background()); err == nil {
		t.Fatalf("expected clear error to surface")
	}
	if svc.State().Initialized {
		t.Fatalf("expected reset state in memory even when clear fails")
	}
}

func TestResetClearsDocument(t *testing.T) {
	svc, backend, _ := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	if err := svc.Reset(context.Background()); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := backend.Load(context.Background()); !errors.Is(err, snapshots.ErrNotFound) {
		t.Fatalf("expected document removed, got %v", err)
	}
}

func TestConcurrentBallsAreSerialized(t *testing.T) {
	svc, _, _ := testutil.NewService(testutil.SampleTournament(20, "A", "B"), apptournament.Options{})
	ctx := context.Background()
	mustApply(t)(svc.StartMatch(ctx, "m1", "t1"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.RecordBall(ctx, "m1", scoring.RunsOff(1))
		}()
	}
	wg.Wait()

	view, _ := svc.Match("m1")
	if got := view.Match.InningsFor("t1").Score(); got.Runs != 50 || got.LegalBalls != 50 {
		t.Fatalf("expected 50 runs off 50 balls, got %+v", got)
	}
}
