package server

import (
	"context"
	"log/slog"
	"net/http"

	apptournament "github.com/preston-bernstein/cricket-tournament-service/internal/app/tournament"
	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	httpserver "github.com/preston-bernstein/cricket-tournament-service/internal/http"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/handlers"
	"github.com/preston-bernstein/cricket-tournament-service/internal/http/middleware"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
	"github.com/preston-bernstein/cricket-tournament-service/internal/mcptools"
	"github.com/preston-bernstein/cricket-tournament-service/internal/metrics"
	"github.com/preston-bernstein/cricket-tournament-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	service       *apptournament.Service
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	closeStore    func()
}

// New opens the configured storage, loads the tournament and wires the HTTP stack.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	docs, closeStore, err := OpenDocuments(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	svc := buildService(cfg, docs, logger, recorder)
	if err := svc.Load(ctx); err != nil {
		closeStore()
		return nil, err
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		service:       svc,
		httpServer:    buildHTTPServer(cfg, svc, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		closeStore:    closeStore,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *apptournament.Service, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		service:    svc,
		httpServer: httpSrv,
	}
}

func buildService(cfg config.Config, docs apptournament.Persister, logger *slog.Logger, recorder *metrics.Recorder) *apptournament.Service {
	return apptournament.NewService(store.NewMemoryStore(), docs, logger, recorder, apptournament.Options{
		AutoSwitchInnings: cfg.Scoring.AutoSwitchInnings,
		AutoCompleteMatch: cfg.Scoring.AutoCompleteMatch,
		DefaultOvers:      cfg.Scoring.DefaultOvers,
		StoreTimeout:      cfg.Storage.Timeout,
	})
}

func buildHTTPServer(cfg config.Config, svc *apptournament.Service, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	opts := httpserver.RouterOptions{
		Handler:  handlers.NewHandler(svc, logger),
		Admin:    handlers.NewAdminHandler(svc, cfg.HTTP.AdminToken, logger),
		Recorder: recorder,
		HTTP:     cfg.HTTP,
	}
	if cfg.HTTP.MCPEnabled {
		opts.MCP = mcptools.NewHandler(mcptools.NewServer(svc, cfg.Logging.Version, logger))
	}
	if cfg.HTTP.AdminToken == "" {
		logging.Warn(logger, "ADMIN_TOKEN not set, tournament reset is unauthenticated")
	}

	router := httpserver.NewRouter(opts)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	// Storage closes last so in-flight requests can still persist.
	if s.closeStore != nil {
		s.closeStore()
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
