package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/testutil"
)

func TestRateLimitRejectsAfterBurst(t *testing.T) {
	rec := metrics.NewRecorder()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// burst of 2, refills one token per 30s.
	handler := RateLimit(4, 2*time.Minute, rec)(ok)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/matches/m1", nil)
		req.RemoteAddr = ip + ":5000"
		return testutil.ServeRequest(handler, req)
	}

	testutil.AssertStatus(t, send("10.0.0.1"), http.StatusOK)
	testutil.AssertStatus(t, send("10.0.0.1"), http.StatusOK)
	rr := send("10.0.0.1")
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	if got := rr.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "too many requests" {
		t.Fatalf("unexpected body %v", body)
	}

	testutil.AssertStatus(t, send("10.0.0.2"), http.StatusOK)
	if rec.RateLimited() != 1 {
		t.Fatalf("expected one rate-limited request, got %d", rec.RateLimited())
	}
}

func TestIPLimiterMinimumBurst(t *testing.T) {
	l := newIPLimiter(1, time.Second)
	if l.burst != 1 {
		t.Fatalf("expected burst floor of 1, got %d", l.burst)
	}
	if l.get("a") != l.get("a") {
		t.Fatalf("expected limiter reused per ip")
	}
	if l.retryAfter() != 1 {
		t.Fatalf("expected 1s retry, got %d", l.retryAfter())
	}
}
