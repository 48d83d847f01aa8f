package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/testutil"
)

func BenchmarkStandings(b *testing.B) {
	svc, _, _ := testutil.NewService(testutil.SampleTournament(5, "A", "B", "C", "D", "E", "F"), apptournament.Options{})
	h := NewHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/standings", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		h.Standings(rr, req)
	}
}

func BenchmarkMatch(b *testing.B) {
	svc, _, _ := testutil.NewService(testutil.SampleTournament(5, "A", "B"), apptournament.Options{})
	h := NewHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/matches/m1", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
	}
}
