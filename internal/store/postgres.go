package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS episodes (
    id TEXT PRIMARY KEY,
    session_code TEXT NOT NULL,
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL,
    duration DOUBLE PRECISION NOT NULL,
    max_level INTEGER NOT NULL,
    spawned INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_episodes_session_code ON episodes(session_code);
CREATE INDEX IF NOT EXISTS idx_episodes_ended_at ON episodes(ended_at);
`

// PostgresStore implements EpisodeStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) RecordEpisode(ctx context.Context, ep *Episode) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO episodes (id, session_code, started_at, ended_at, duration, max_level, spawned)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ep.ID, ep.SessionCode, ep.StartedAt, ep.EndedAt, ep.Duration, ep.MaxLevel, ep.Spawned)
	return err
}

func (s *PostgresStore) ListEpisodes(ctx context.Context, sessionCode string, limit int) ([]*Episode, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_code, started_at, ended_at, duration, max_level, spawned
		 FROM episodes WHERE $1::text = '' OR session_code = $1
		 ORDER BY ended_at DESC LIMIT $2`, sessionCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanEpisode(row pgx.Row) (*Episode, error) {
	var ep Episode
	err := row.Scan(&ep.ID, &ep.SessionCode, &ep.StartedAt, &ep.EndedAt, &ep.Duration, &ep.MaxLevel, &ep.Spawned)
	if err != nil {
		return nil, err
	}
	return &ep, nil
}
