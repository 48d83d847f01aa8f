package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/cricket-tournament-service/internal/config"
	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
	"github.com/preston-bernstein/cricket-tournament-service/internal/snapshots"
)

var (
	newRedisStore    = snapshots.NewRedisStore
	newPostgresStore = snapshots.NewPostgresStore
)

// OpenDocuments builds the tournament document store for the configured backend,
// wrapped with retries. The returned close func releases backend connections.
func OpenDocuments(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*snapshots.Store, func(), error) {
	backend, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logging.Info(logger, "tournament storage configured", logging.FieldBackend, backend.Name())

	retrying := snapshots.NewRetryingStore(backend, logger, cfg.RetryAttempts, storeRetryInterval)
	return snapshots.NewStore(retrying), closeFn, nil
}

func openBackend(ctx context.Context, cfg config.StorageConfig) (snapshots.Backend, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendMemory:
		return snapshots.NewMemoryStore(), noop, nil
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		rs, err := newRedisStore(ctx, cfg.RedisURL, cfg.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("open postgres store: DATABASE_URL is required")
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		ps, err := newPostgresStore(ctx, cfg.DatabaseURL, cfg.Key)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return ps, func() { _ = ps.Close() }, nil
	default:
		return snapshots.NewFSStore(cfg.Path, cfg.Key), noop, nil
	}
}
