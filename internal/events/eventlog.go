// Package events provides the append-only log of everything that happens
// in a game: reveals, rejected picks, matches and the final result.
package events

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
)

// EventType defines the category of a game event.
type EventType string

const (
	EventTypeGameStarted       EventType = "GAME_STARTED"
	EventTypeCellRevealed      EventType = "CELL_REVEALED"
	EventTypeCellHidden        EventType = "CELL_HIDDEN"
	EventTypeSelectionRejected EventType = "SELECTION_REJECTED"
	EventTypePairMatched       EventType = "PAIR_MATCHED"
	EventTypePairMismatched    EventType = "PAIR_MISMATCHED"
	EventTypeGameFinished      EventType = "GAME_FINISHED"
)

// ActorPlayer and ActorSystem identify who caused an event.
const (
	ActorPlayer = "PLAYER"
	ActorSystem = "SYSTEM"
)

// GameStartedPayload describes a freshly generated grid.
type GameStartedPayload struct {
	Size  int   `json:"size"`
	Pairs int   `json:"pairs"`
	Seed  int64 `json:"seed"`
}

// CellPayload is attached to reveal and hide events.
type CellPayload struct {
	Position cell.Position `json:"position"`
	Token    cell.Token    `json:"token,omitempty"`
}

// RejectedPayload explains why a pick was refused.
type RejectedPayload struct {
	Position cell.Position `json:"position"`
	Reason   string        `json:"reason"`
}

// PairPayload is attached to match and mismatch events.
type PairPayload struct {
	First      cell.Position `json:"first"`
	Second     cell.Position `json:"second"`
	PairsFound int           `json:"pairs_found"`
}

// FinishedPayload summarises a completed game.
type FinishedPayload struct {
	PairsFound int `json:"pairs_found"`
	Rounds     int `json:"rounds"`
}

// GameEvent represents an immutable record of an action in the game.
type GameEvent struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Round     int         `json:"round"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a new event with a fresh ID and the current time.
func NewEvent(gameID string, eventType EventType, actorID string, round int, payload interface{}) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Timestamp: time.Now(),
		Type:      eventType,
		ActorID:   actorID,
		Round:     round,
		Payload:   payload,
	}
}

// EventSink receives every appended event (durable storage, spectators).
type EventSink interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log of game events.
type EventLog struct {
	mu     sync.RWMutex
	events []GameEvent
	sinks  []EventSink
}

// NewEventLog creates a new event log writing through to the given sinks.
func NewEventLog(sinks ...EventSink) *EventLog {
	return &EventLog{
		events: make([]GameEvent, 0),
		sinks:  sinks,
	}
}

// AddSink attaches another sink; it only sees events appended afterwards.
func (el *EventLog) AddSink(sink EventSink) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.sinks = append(el.sinks, sink)
}

// Append adds a new event to the log and forwards it to every sink in
// order. The event is kept even when a sink fails; sink errors are joined.
func (el *EventLog) Append(event GameEvent) error {
	el.mu.Lock()
	el.events = append(el.events, event)
	sinks := el.sinks
	el.mu.Unlock()

	var errs []error
	for _, s := range sinks {
		if err := s.Append(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ByType returns all events of the given type.
func (el *EventLog) ByType(eventType EventType) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Type == eventType {
			result = append(result, e)
		}
	}
	return result
}

// ByRound returns all events recorded during the given round.
func (el *EventLog) ByRound(round int) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.Round == round {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history in append order.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}
