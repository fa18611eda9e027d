package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event EventRecord) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, timestamp, event_type, actor_id, round, payload, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE game_id = ?))
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.GameID, event.Timestamp, event.EventType, event.ActorID,
		event.Round, string(payloadBytes), event.GameID,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []EventRecord
	for rows.Next() {
		var e EventRecord
		var payloadStr string
		err := rows.Scan(&e.ID, &e.GameID, &e.Timestamp, &e.EventType, &e.ActorID, &e.Round, &payloadStr)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const eventColumns = `id, game_id, timestamp, event_type, actor_id, round, payload`

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]EventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE game_id = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]EventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE game_id = ? AND event_type = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID, eventType)
}

func (r *SQLiteEventRepository) GetByRound(ctx context.Context, gameID string, round int) ([]EventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE game_id = ? AND round = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID, round)
}

// ---------------------------------------------------------
// SQLiteGameRepository
// ---------------------------------------------------------

type SQLiteGameRepository struct {
	db *sql.DB
}

func NewSQLiteGameRepository(db *sql.DB) *SQLiteGameRepository {
	return &SQLiteGameRepository{db: db}
}

func (r *SQLiteGameRepository) Create(ctx context.Context, game GameRecord) error {
	query := `INSERT INTO games (id, size, seed, started_at, pairs_found) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, game.ID, game.Size, game.Seed, game.StartedAt, game.PairsFound)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *SQLiteGameRepository) UpdateProgress(ctx context.Context, gameID string, pairsFound int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE games SET pairs_found = ? WHERE id = ?`, pairsFound, gameID)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

func (r *SQLiteGameRepository) Finish(ctx context.Context, gameID string, pairsFound int, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE games SET pairs_found = ?, finished_at = ? WHERE id = ?`, pairsFound, at, gameID)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	return nil
}

func (r *SQLiteGameRepository) Get(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `SELECT id, size, seed, started_at, finished_at, pairs_found FROM games WHERE id = ?`
	g, err := scanGame(r.db.QueryRowContext(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

func (r *SQLiteGameRepository) List(ctx context.Context) ([]GameRecord, error) {
	query := `SELECT id, size, seed, started_at, finished_at, pairs_found FROM games ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row rowScanner) (*GameRecord, error) {
	var g GameRecord
	var finished sql.NullTime
	if err := row.Scan(&g.ID, &g.Size, &g.Seed, &g.StartedAt, &finished, &g.PairsFound); err != nil {
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		g.FinishedAt = &t
	}
	return &g, nil
}
