package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
	"github.com/preston-bernstein/cricket-tournament-service/internal/server"
)

const serviceName = "cricket-tournament-service"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: serviceName,
		Version: cfg.Logging.Version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logging.Error(logger, "server startup failed", err)
		return 1
	}
	srv.Run(ctx, stop)
	return 0
}
