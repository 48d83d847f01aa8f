package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/scoring"
	"github.com/preston-bernstein/cricket-tournament-service/internal/domain/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
)

// Handler wires HTTP routes to the tournament service.
type Handler struct {
	svc    *apptournament.Service
	logger *slog.Logger

	once sync.Once
	mux  chi.Router
}

// NewHandler constructs a Handler.
func NewHandler(svc *apptournament.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the public routes on r.
func (h *Handler) Register(r chi.Router) {
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/tournament", h.Tournament)
	r.Post("/tournament", h.CreateTournament)
	r.Get("/teams", h.Teams)
	r.Get("/standings", h.Standings)
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", h.Matches)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Match)
			r.Post("/start", h.Start)
			r.Post("/balls", h.Ball)
			r.Post("/undo", h.Undo)
			r.Post("/switch", h.Switch)
			r.Post("/complete", h.Complete)
			r.Post("/conclude", h.Conclude)
		})
	})
}

// ServeHTTP serves the public routes without the outer middleware stack.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		mux := chi.NewRouter()
		h.Register(mux)
		h.mux = mux
	})
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the tournament document has been loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil || !h.svc.Ready() {
		writeError(w, r, http.StatusServiceUnavailable, "not ready", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Tournament returns the whole tournament document.
func (h *Handler) Tournament(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.State(), h.logger)
}

type createRequest struct {
	Settings  tournament.Settings `json:"settings"`
	TeamNames []string            `json:"teamNames"`
}

// CreateTournament replaces the tournament with a new one.
func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	st, err := h.svc.Create(r.Context(), req.Settings, req.TeamNames)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, st, logger)
}

// Teams lists the registered teams.
func (h *Handler) Teams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Teams(), h.logger)
}

// Matches lists matches grouped by status.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.svc.Fixtures()
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, grouped, h.logger)
}

// Standings returns the ranked points table.
func (h *Handler) Standings(w http.ResponseWriter, r *http.Request) {
	table, err := h.svc.Standings()
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, table, h.logger)
}

// Match returns one match with its summary.
func (h *Handler) Match(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Match(matchID(r))
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

type startRequest struct {
	BattingTeamID string `json:"battingTeamId"`
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	res, err := h.svc.StartMatch(r.Context(), matchID(r), req.BattingTeamID)
	h.writeResult(w, r, res, err)
}

// ballRequest carries either a canonical event string or manual runs.
// Runs may be a JSON number or string.
type ballRequest struct {
	Event string          `json:"event"`
	Runs  json.RawMessage `json:"runs"`
	Extra string          `json:"extra"`
}

// Ball records a delivery. A malformed event is rejected; malformed manual runs are ignored.
func (h *Handler) Ball(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req ballRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}

	id := matchID(r)
	switch {
	case strings.TrimSpace(req.Event) != "":
		ev, err := scoring.ParseBall(req.Event)
		if err != nil {
			logging.Warn(logger, "malformed ball event", logging.FieldMatchID, id, logging.FieldEvent, req.Event)
			writeDomainError(w, r, err, logger)
			return
		}
		res, err := h.svc.RecordBall(r.Context(), id, ev)
		h.writeResult(w, r, res, err)
	case len(req.Runs) > 0:
		runs := strings.Trim(string(req.Runs), `"`)
		res, err := h.svc.RecordManual(r.Context(), id, runs, req.Extra)
		if err == nil && !res.Applied {
			if _, perr := scoring.ManualBall(runs, req.Extra); perr != nil {
				writeJSON(w, http.StatusOK, res, logger)
				return
			}
		}
		h.writeResult(w, r, res, err)
	default:
		writeDomainError(w, r, fmt.Errorf("%w: event or runs is required", errBadRequest), logger)
	}
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Undo(r.Context(), matchID(r))
	h.writeResult(w, r, res, err)
}

func (h *Handler) Switch(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SwitchInnings(r.Context(), matchID(r))
	h.writeResult(w, r, res, err)
}

type completeRequest struct {
	WinnerID string `json:"winnerId"`
	Result   string `json:"result"`
}

// Complete records an operator-chosen result. An omitted winner is a tie.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	res, err := h.svc.CompleteMatch(r.Context(), matchID(r), req.WinnerID, req.Result)
	h.writeResult(w, r, res, err)
}

// Conclude completes the match with the computed result.
func (h *Handler) Conclude(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Conclude(r.Context(), matchID(r))
	h.writeResult(w, r, res, err)
}

// writeResult answers 200 for an applied change and 409 for a no-op.
func (h *Handler) writeResult(w http.ResponseWriter, r *http.Request, res apptournament.Result, err error) {
	logger := loggerFromContext(r, h.logger)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	status := http.StatusOK
	if !res.Applied {
		status = http.StatusConflict
	}
	writeJSON(w, status, res, logger)
}

func matchID(r *http.Request) string {
	return chi.URLParam(r, "id")
}
