package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MRamiBalles/WordCross/internal/events"
)

// defaultWriteTimeout bounds each history write so a locked database file
// cannot stall the round loop.
const defaultWriteTimeout = 2 * time.Second

// Recorder is an events.EventSink that writes every game event to the
// history database and keeps the games table in step with the lifecycle
// events (started, matched, finished).
type Recorder struct {
	games   GameRepository
	events  EventRepository
	timeout time.Duration
}

// NewRecorder creates a recorder over the given repositories.
func NewRecorder(games GameRepository, events EventRepository) *Recorder {
	return &Recorder{games: games, events: events, timeout: defaultWriteTimeout}
}

// Append implements events.EventSink.
func (r *Recorder) Append(event events.GameEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	switch p := event.Payload.(type) {
	case events.GameStartedPayload:
		err := r.games.Create(ctx, GameRecord{
			ID:        event.GameID,
			Size:      p.Size,
			Seed:      p.Seed,
			StartedAt: event.Timestamp,
		})
		if err != nil {
			return err
		}
	case events.PairPayload:
		if event.Type == events.EventTypePairMatched {
			if err := r.games.UpdateProgress(ctx, event.GameID, p.PairsFound); err != nil {
				return err
			}
		}
	case events.FinishedPayload:
		if err := r.games.Finish(ctx, event.GameID, p.PairsFound, event.Timestamp); err != nil {
			return err
		}
	}

	record, err := toRecord(event)
	if err != nil {
		return err
	}
	return r.events.Append(ctx, record)
}

// toRecord translates a domain event to its storage shape.
func toRecord(event events.GameEvent) (EventRecord, error) {
	var payload map[string]interface{}
	if event.Payload != nil {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return EventRecord{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return EventRecord{}, fmt.Errorf("payload is not an object: %w", err)
		}
	}
	return EventRecord{
		ID:        event.ID,
		GameID:    event.GameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		Round:     event.Round,
		Payload:   payload,
	}, nil
}
