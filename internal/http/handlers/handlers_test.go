package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/matches"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/standings"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/testutil"
)

type resultBody struct {
	Applied bool          `json:"applied"`
	Match   matches.Match `json:"match"`
	Error   string        `json:"error"`
}

func newTestHandler(state tournament.State) *Handler {
	svc, _, _ := testutil.NewService(state, apptournament.Options{})
	return NewHandler(svc, nil)
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return testutil.ServeRequest(h, req)
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder) resultBody {
	t.Helper()
	var out resultBody
	testutil.DecodeJSON(t, rr, &out)
	return out
}

func TestHealth(t *testing.T) {
	h := newTestHandler(tournament.Empty())

	rr := send(h, http.MethodGet, "/health", "")
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newTestHandler(tournament.Empty())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestReady(t *testing.T) {
	testutil.AssertStatus(t, send(newTestHandler(tournament.Empty()), http.MethodGet, "/ready", ""), http.StatusOK)
	testutil.AssertStatus(t, send(NewHandler(nil, nil), http.MethodGet, "/ready", ""), http.StatusServiceUnavailable)
}

func TestMethodNotAllowed(t *testing.T) {
	rr := send(newTestHandler(tournament.Empty()), http.MethodPost, "/health", "")
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestNotInitializedReads(t *testing.T) {
	h := newTestHandler(tournament.Empty())

	rr := send(h, http.MethodGet, "/tournament", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var st tournament.State
	testutil.DecodeJSON(t, rr, &st)
	if st.Initialized || st.Settings != nil {
		t.Fatalf("expected not-initialized document, got %+v", st)
	}

	testutil.AssertStatus(t, send(h, http.MethodGet, "/matches", ""), http.StatusConflict)
	testutil.AssertStatus(t, send(h, http.MethodGet, "/standings", ""), http.StatusConflict)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/undo", ""), http.StatusConflict)
}

func TestCreateTournament(t *testing.T) {
	h := newTestHandler(tournament.Empty())

	rr := send(h, http.MethodPost, "/tournament", `{"settings":{"name":"Cup","oversPerMatch":2},"teamNames":["A","B","C"]}`)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var st tournament.State
	testutil.DecodeJSON(t, rr, &st)
	if !st.Initialized || len(st.Matches) != 3 || st.Settings.OversPerMatch != 2 {
		t.Fatalf("unexpected created state %+v", st)
	}

	rr = send(h, http.MethodGet, "/teams", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"name":"C"`) {
		t.Fatalf("expected team list, got %s", rr.Body.String())
	}
}

func TestCreateTournamentRejectsInvalidInput(t *testing.T) {
	h := newTestHandler(tournament.Empty())

	testutil.AssertStatus(t, send(h, http.MethodPost, "/tournament", `{"settings":{"name":"Cup"},"teamNames":["A"]}`), http.StatusBadRequest)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/tournament", `{"settings":`), http.StatusBadRequest)
}

func TestMatchNotFound(t *testing.T) {
	h := newTestHandler(testutil.SampleTournament(1, "A", "B"))

	testutil.AssertStatus(t, send(h, http.MethodGet, "/matches/zzz", ""), http.StatusNotFound)
	rr := send(h, http.MethodPost, "/matches/zzz/start", `{"battingTeamId":"t1"}`)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if body := decodeResult(t, rr); body.Error == "" {
		t.Fatalf("expected error message")
	}
}

func TestScoringEndpoints(t *testing.T) {
	h := newTestHandler(testutil.SampleTournament(1, "A", "B"))

	rr := send(h, http.MethodPost, "/matches/m1/start", `{"battingTeamId":"t1"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if body := decodeResult(t, rr); !body.Applied || body.Match.Status != matches.StatusLive {
		t.Fatalf("unexpected start result %+v", body)
	}

	// Starting twice is a no-op.
	rr = send(h, http.MethodPost, "/matches/m1/start", `{"battingTeamId":"t1"}`)
	testutil.AssertStatus(t, rr, http.StatusConflict)
	if body := decodeResult(t, rr); body.Applied {
		t.Fatalf("expected applied=false on no-op")
	}

	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"4"}`), http.StatusOK)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"NB+W+1"}`), http.StatusOK)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"X+9"}`), http.StatusBadRequest)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{}`), http.StatusBadRequest)

	rr = send(h, http.MethodPost, "/matches/m1/balls", `{"runs":"abc"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if body := decodeResult(t, rr); body.Applied {
		t.Fatalf("expected malformed manual runs to be ignored")
	}

	rr = send(h, http.MethodPost, "/matches/m1/balls", `{"runs":1,"extra":"wd"}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	body := decodeResult(t, rr)
	got := body.Match.InningsFor("t1").Score()
	// 4, NB+W+1 (2 runs, wicket, legal), WD+1 (2 runs).
	if got.Runs != 8 || got.Wickets != 1 || got.LegalBalls != 2 {
		t.Fatalf("unexpected score %+v", got)
	}

	rr = send(h, http.MethodPost, "/matches/m1/undo", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := decodeResult(t, rr).Match.InningsFor("t1").Runs; got != 6 {
		t.Fatalf("expected 6 runs after undo, got %d", got)
	}

	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/switch", ""), http.StatusOK)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/switch", ""), http.StatusConflict)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/conclude", ""), http.StatusConflict)

	rr = send(h, http.MethodGet, "/matches/m1", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var view apptournament.MatchView
	testutil.DecodeJSON(t, rr, &view)
	if !view.Summary.HasTarget || view.Summary.Target != 7 || view.TeamNames["t2"] != "B" {
		t.Fatalf("unexpected match view %+v", view)
	}

	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"6"}`), http.StatusOK)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"1"}`), http.StatusOK)

	rr = send(h, http.MethodPost, "/matches/m1/conclude", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if body := decodeResult(t, rr); body.Match.WinnerID != "t2" || body.Match.Result != "B won by 10 wickets" {
		t.Fatalf("unexpected concluded match %+v", body.Match)
	}

	rr = send(h, http.MethodGet, "/standings", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var table []standings.TeamStats
	testutil.DecodeJSON(t, rr, &table)
	if len(table) != 2 || table[0].ID != "t2" || table[0].Points != 2 {
		t.Fatalf("unexpected standings %+v", table)
	}

	rr = send(h, http.MethodGet, "/matches", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var grouped tournament.Grouped
	testutil.DecodeJSON(t, rr, &grouped)
	if len(grouped.Completed) != 1 {
		t.Fatalf("expected one completed match, got %+v", grouped)
	}
}

func TestCompleteEndpoint(t *testing.T) {
	h := newTestHandler(testutil.SampleTournament(1, "A", "B"))

	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/complete", `{"winnerId":"t1"}`), http.StatusConflict)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/start", `{"battingTeamId":"t2"}`), http.StatusOK)

	rr := send(h, http.MethodPost, "/matches/m1/complete", `{"winnerId":"t1"}`)
	testutil.AssertStatus(t, rr, http.StatusUnprocessableEntity)
	if body := decodeResult(t, rr); !strings.Contains(body.Error, "play recorded") {
		t.Fatalf("expected no-play error, got %q", body.Error)
	}

	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/balls", `{"event":"2"}`), http.StatusOK)
	testutil.AssertStatus(t, send(h, http.MethodPost, "/matches/m1/complete", `{"winnerId":"t9"}`), http.StatusBadRequest)

	rr = send(h, http.MethodPost, "/matches/m1/complete", `{}`)
	testutil.AssertStatus(t, rr, http.StatusOK)
	raw := rr.Body.String()
	if body := decodeResult(t, rr); body.Match.Status != matches.StatusCompleted || body.Match.WinnerID != "" {
		t.Fatalf("expected tie completion, got %+v", body.Match)
	}
	if !strings.Contains(raw, `"winnerId":null`) {
		t.Fatalf("expected null winner in JSON, got %s", raw)
	}
}
