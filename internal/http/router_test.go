package http

import (
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/testutil"
)

func newTestRouter(httpCfg config.HTTPConfig, rec *metrics.Recorder) nethttp.Handler {
	svc, _, _ := testutil.NewService(testutil.SampleTournament(1, "A", "B"), apptournament.Options{})
	mcp := nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusAccepted)
	})
	return NewRouter(RouterOptions{
		Handler:  handlers.NewHandler(svc, nil),
		Admin:    handlers.NewAdminHandler(svc, "secret", nil),
		MCP:      mcp,
		Recorder: rec,
		HTTP:     httpCfg,
	})
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(config.HTTPConfig{}, nil)

	cases := map[string]int{
		"/health":     nethttp.StatusOK,
		"/ready":      nethttp.StatusOK,
		"/tournament": nethttp.StatusOK,
		"/teams":      nethttp.StatusOK,
		"/matches":    nethttp.StatusOK,
		"/matches/m1": nethttp.StatusOK,
		"/standings":  nethttp.StatusOK,
		"/matches/zz": nethttp.StatusNotFound,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, nethttp.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(config.HTTPConfig{}, nil)

	rr := testutil.Serve(router, nethttp.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, nethttp.StatusNotFound)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "not found" {
		t.Fatalf("expected JSON not found body, got %v", body)
	}
}

func TestRouterMountsAdminAndMCP(t *testing.T) {
	router := newTestRouter(config.HTTPConfig{}, nil)

	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodDelete, "/tournament", nil), nethttp.StatusUnauthorized)
	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodPost, "/mcp", nil), nethttp.StatusAccepted)
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(config.HTTPConfig{CorsOrigins: []string{"http://localhost:5173"}}, nil)

	req := httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(nethttp.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}

func TestRouterRateLimit(t *testing.T) {
	rec := metrics.NewRecorder()
	router := newTestRouter(config.HTTPConfig{RateLimit: true, RateLimitReqs: 2, RateLimitWindow: time.Minute}, rec)

	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/health", nil), nethttp.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(router, nethttp.MethodGet, "/health", nil), nethttp.StatusTooManyRequests)
	if rec.RateLimited() != 1 {
		t.Fatalf("expected rate-limited request recorded")
	}
}
