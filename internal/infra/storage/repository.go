// Package storage provides the persistence layer for the round history.
// This package implements the repository pattern to keep the engine pure.
package storage

import (
	"context"
	"time"
)

// GameRecord is one played (or abandoned) game.
type GameRecord struct {
	ID         string     `json:"id" db:"id"`
	Size       int        `json:"size" db:"size"`
	Seed       int64      `json:"seed" db:"seed"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	PairsFound int        `json:"pairs_found" db:"pairs_found"`
}

// Finished reports whether the game reached its final pair.
func (g GameRecord) Finished() bool {
	return g.FinishedAt != nil
}

// EventRecord mirrors the engine's event structure for persistence.
// The engine package should NOT import this; the Recorder translates.
type EventRecord struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	Round     int                    `json:"round" db:"round"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event EventRecord) error

	// GetByGameID retrieves all events for a specific game, oldest first.
	GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRecord, error)

	// GetByRound retrieves all events of one round.
	GetByRound(ctx context.Context, gameID string, round int) ([]EventRecord, error)
}

// GameRepository defines the interface for game records.
type GameRepository interface {
	// Create inserts a new, unfinished game.
	Create(ctx context.Context, game GameRecord) error

	// UpdateProgress stores the current pair count.
	UpdateProgress(ctx context.Context, gameID string, pairsFound int) error

	// Finish stamps the completion time and final pair count.
	Finish(ctx context.Context, gameID string, pairsFound int, at time.Time) error

	// Get returns one game or nil when it does not exist.
	Get(ctx context.Context, gameID string) (*GameRecord, error)

	// List returns every game, newest first.
	List(ctx context.Context) ([]GameRecord, error)
}
