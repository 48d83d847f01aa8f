package handlers

import (
	"log/slog"
	"net/http"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/requestutil"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
)

// AdminHandler exposes destructive endpoints guarded by ADMIN_TOKEN.
type AdminHandler struct {
	svc    *apptournament.Service
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token leaves the endpoints open.
func NewAdminHandler(svc *apptournament.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		token:  token,
		logger: logger,
	}
}

// ResetTournament discards the tournament and its persisted document.
func (h *AdminHandler) ResetTournament(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String("path", r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}

	if err := h.svc.Reset(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to clear stored tournament", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	return requestutil.BearerToken(r) == h.token
}
