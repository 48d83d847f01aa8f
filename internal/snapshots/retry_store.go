package snapshots

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/cricket-tournament-service/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultRetryInterval = 100 * time.Millisecond

	fieldOp = "op"
)

// RetryingStore wraps a Backend with exponential backoff. ErrNotFound is never retried.
type RetryingStore struct {
	inner       Backend
	logger      *slog.Logger
	maxAttempts int
	interval    time.Duration
}

// NewRetryingStore wraps inner. Non-positive attempts or interval fall back to defaults.
func NewRetryingStore(inner Backend, logger *slog.Logger, maxAttempts int, interval time.Duration) *RetryingStore {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	return &RetryingStore{inner: inner, logger: logger, maxAttempts: maxAttempts, interval: interval}
}

func (r *RetryingStore) Name() string { return r.inner.Name() }

func (r *RetryingStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := r.do(ctx, "load", func() error {
		var err error
		data, err = r.inner.Load(ctx)
		if errors.Is(err, ErrNotFound) {
			return backoff.Permanent(err)
		}
		return err
	})
	return data, err
}

func (r *RetryingStore) Save(ctx context.Context, data []byte) error {
	return r.do(ctx, "save", func() error { return r.inner.Save(ctx, data) })
}

func (r *RetryingStore) Clear(ctx context.Context) error {
	return r.do(ctx, "clear", func() error { return r.inner.Clear(ctx) })
}

func (r *RetryingStore) do(ctx context.Context, op string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx)
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return fn()
	}, policy, func(err error, next time.Duration) {
		logging.Warn(logging.FromContext(ctx, r.logger), "snapshot retry",
			logging.FieldBackend, r.inner.Name(),
			fieldOp, op,
			logging.FieldAttempt, attempt,
			"max_attempts", r.maxAttempts,
			"next_in", next,
			"err", err,
		)
	})
}
