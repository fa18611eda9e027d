// Package storage - reconstructor.go
// Rebuilds a readable recap of a recorded game from its event history.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/MRamiBalles/WordCross/internal/events"
)

// Reconstructor rebuilds game recaps from the event log.
// Recaps are read-only: a recorded game is never resumed.
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new recap builder.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// Recap summarises one recorded game.
type Recap struct {
	GameID     string        `json:"game_id"`
	Size       int           `json:"size"`
	Rounds     int           `json:"rounds"`
	Matches    int           `json:"matches"`
	Mismatches int           `json:"mismatches"`
	Rejected   int           `json:"rejected"`
	Finished   bool          `json:"finished"`
	Duration   time.Duration `json:"duration"`
	Timeline   []RecapEvent  `json:"timeline"`
}

// RecapEvent is a simplified event for the recap screen.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	Round     int    `json:"round"`
	EventType string `json:"event_type"`
	Summary   string `json:"summary"` // Human-readable description
}

// Rebuild replays every event of gameID. It returns nil when the game has
// no recorded events.
func (r *Reconstructor) Rebuild(ctx context.Context, gameID string) (*Recap, error) {
	history, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game events: %w", err)
	}
	if len(history) == 0 {
		return nil, nil
	}

	recap := &Recap{GameID: gameID}
	for _, e := range history {
		switch events.EventType(e.EventType) {
		case events.EventTypeGameStarted:
			recap.Size = intField(e.Payload, "size")
		case events.EventTypePairMatched:
			recap.Rounds++
			recap.Matches++
		case events.EventTypePairMismatched:
			recap.Rounds++
			recap.Mismatches++
		case events.EventTypeSelectionRejected:
			recap.Rejected++
		case events.EventTypeGameFinished:
			recap.Finished = true
		}
		recap.Timeline = append(recap.Timeline, RecapEvent{
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Round:     e.Round,
			EventType: e.EventType,
			Summary:   summarize(e),
		})
	}
	recap.Duration = history[len(history)-1].Timestamp.Sub(history[0].Timestamp)
	return recap, nil
}

func summarize(e EventRecord) string {
	switch events.EventType(e.EventType) {
	case events.EventTypeGameStarted:
		return fmt.Sprintf("New %dx%d grid with %d pairs", intField(e.Payload, "size"), intField(e.Payload, "size"), intField(e.Payload, "pairs"))
	case events.EventTypeCellRevealed:
		return fmt.Sprintf("Revealed %s: %v", position(e.Payload, "position"), e.Payload["token"])
	case events.EventTypeCellHidden:
		return fmt.Sprintf("Hid %s again", position(e.Payload, "position"))
	case events.EventTypeSelectionRejected:
		return fmt.Sprintf("Rejected %s (%v)", position(e.Payload, "position"), e.Payload["reason"])
	case events.EventTypePairMatched:
		return fmt.Sprintf("Matched %s and %s, %d pairs found", position(e.Payload, "first"), position(e.Payload, "second"), intField(e.Payload, "pairs_found"))
	case events.EventTypePairMismatched:
		return fmt.Sprintf("No match between %s and %s", position(e.Payload, "first"), position(e.Payload, "second"))
	case events.EventTypeGameFinished:
		return fmt.Sprintf("All %d pairs found in %d rounds", intField(e.Payload, "pairs_found"), intField(e.Payload, "rounds"))
	}
	return e.EventType
}

// intField reads a JSON number back out of a decoded payload.
func intField(payload map[string]interface{}, key string) int {
	if v, ok := payload[key].(float64); ok {
		return int(v)
	}
	return 0
}

func position(payload map[string]interface{}, key string) string {
	p, ok := payload[key].(map[string]interface{})
	if !ok {
		return "(?, ?)"
	}
	return fmt.Sprintf("(%d, %d)", intField(p, "row"), intField(p, "col"))
}
