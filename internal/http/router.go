package http

import (
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
)

// RouterOptions collects the handlers and settings mounted by NewRouter.
type RouterOptions struct {
	Handler  *handlers.Handler
	Admin    *handlers.AdminHandler
	MCP      nethttp.Handler
	Recorder *metrics.Recorder
	HTTP     config.HTTPConfig
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.HTTP.CorsOrigins,
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodDelete, nethttp.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "Mcp-Session-Id"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After", "Mcp-Session-Id"},
	})
	r.Use(c.Handler)

	if opts.HTTP.RateLimit {
		r.Use(middleware.RateLimit(opts.HTTP.RateLimitReqs, opts.HTTP.RateLimitWindow, opts.Recorder))
	}

	if opts.Handler != nil {
		opts.Handler.Register(r)
	}
	if opts.Admin != nil {
		r.Delete("/tournament", opts.Admin.ResetTournament)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}
	return r
}
