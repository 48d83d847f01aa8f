package snapshots

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS tournament_documents (
	key        TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the document as one row of tournament_documents.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore opens a pool, verifies connectivity and ensures the table exists.
func NewPostgresStore(ctx context.Context, databaseURL, key string) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create tournament_documents: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{pool: pool, key: key}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body::text FROM tournament_documents WHERE key = $1`, s.key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return body, nil
}

func (s *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tournament_documents (key, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`,
		s.key, string(data))
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM tournament_documents WHERE key = $1`, s.key); err != nil {
		return fmt.Errorf("clear document: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
