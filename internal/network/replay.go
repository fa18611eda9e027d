// Package network - replay.go
// JSON export of the current game's event history.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
)

// ReplayHandler serves the event log of the running game.
type ReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(el *events.EventLog, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayEvent is one event as shown to spectators.
type ReplayEvent struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"timestamp"`
	Round     int         `json:"round"`
	Type      string      `json:"type"`
	ActorID   string      `json:"actor_id"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ReplayResponse is the API response for a replay request.
type ReplayResponse struct {
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	Events      []ReplayEvent `json:"events"`
}

// ServeHTTP handles GET /replay with optional ?type= or ?round= filters.
func (h *ReplayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		selected []events.GameEvent
		filter   string
	)
	switch {
	case r.URL.Query().Get("type") != "":
		filter = "type"
		selected = h.eventLog.ByType(events.EventType(r.URL.Query().Get("type")))
	case r.URL.Query().Get("round") != "":
		round, err := strconv.Atoi(r.URL.Query().Get("round"))
		if err != nil {
			http.Error(w, "Invalid round", http.StatusBadRequest)
			return
		}
		filter = "round"
		selected = h.eventLog.ByRound(round)
	default:
		selected = h.eventLog.Replay()
	}

	resp := ReplayResponse{
		TotalEvents: len(selected),
		FilteredBy:  filter,
		Events:      make([]ReplayEvent, 0, len(selected)),
	}
	for _, e := range selected {
		resp.Events = append(resp.Events, ReplayEvent{
			ID:        e.ID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Round:     e.Round,
			Type:      string(e.Type),
			ActorID:   e.ActorID,
			Payload:   e.Payload,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Warn("Failed to encode replay: " + err.Error())
	}
}
