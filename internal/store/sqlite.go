package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const defaultListLimit = 50

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS episodes (
		id TEXT PRIMARY KEY,
		session_code TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		duration REAL NOT NULL,
		max_level INTEGER NOT NULL,
		spawned INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_session_code ON episodes(session_code);`,
	`CREATE INDEX IF NOT EXISTS idx_episodes_ended_at ON episodes(ended_at);`,
}

// SQLiteStore implements EpisodeStore on an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) RecordEpisode(ctx context.Context, ep *Episode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO episodes (id, session_code, started_at, ended_at, duration, max_level, spawned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ep.ID, ep.SessionCode,
		ep.StartedAt.UTC().Format(time.RFC3339Nano), ep.EndedAt.UTC().Format(time.RFC3339Nano),
		ep.Duration, ep.MaxLevel, ep.Spawned)
	return err
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, sessionCode string, limit int) ([]*Episode, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_code, started_at, ended_at, duration, max_level, spawned
		 FROM episodes WHERE ? = '' OR session_code = ?
		 ORDER BY ended_at DESC LIMIT ?`, sessionCode, sessionCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Episode
	for rows.Next() {
		var (
			ep             Episode
			started, ended string
		)
		if err := rows.Scan(&ep.ID, &ep.SessionCode, &started, &ended, &ep.Duration, &ep.MaxLevel, &ep.Spawned); err != nil {
			return nil, err
		}
		if ep.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if ep.EndedAt, err = time.Parse(time.RFC3339Nano, ended); err != nil {
			return nil, fmt.Errorf("parse ended_at: %w", err)
		}
		out = append(out, &ep)
	}
	return out, rows.Err()
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
