package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Episode is one completed wanted period of a session.
type Episode struct {
	ID          string    `json:"id"`
	SessionCode string    `json:"session_code"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	Duration    float64   `json:"duration"`
	MaxLevel    int       `json:"max_level"`
	Spawned     int       `json:"spawned"`
}

// NewEpisode creates an episode ending at endedAt that lasted duration seconds.
func NewEpisode(sessionCode string, endedAt time.Time, duration float64, maxLevel, spawned int) *Episode {
	return &Episode{
		ID:          uuid.New().String(),
		SessionCode: sessionCode,
		StartedAt:   endedAt.Add(-time.Duration(duration * float64(time.Second))),
		EndedAt:     endedAt,
		Duration:    duration,
		MaxLevel:    maxLevel,
		Spawned:     spawned,
	}
}

// EpisodeStore defines the interface for persistent episode history.
type EpisodeStore interface {
	// RecordEpisode inserts a finished episode.
	RecordEpisode(ctx context.Context, ep *Episode) error
	// ListEpisodes returns the most recent episodes, newest first. An empty
	// session code lists every session.
	ListEpisodes(ctx context.Context, sessionCode string, limit int) ([]*Episode, error)
	// Close releases database resources.
	Close() error
}

// Open picks a backend from the URL: postgres:// and postgresql:// use
// PostgreSQL, anything else is treated as a SQLite file path.
func Open(ctx context.Context, databaseURL string) (EpisodeStore, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return NewPostgresStore(ctx, databaseURL)
	}
	return NewSQLiteStore(ctx, databaseURL)
}
