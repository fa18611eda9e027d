// Package network serves the read-only spectator feed of a running game.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

// broadcastBuffer is how many serialized events may wait for the hub loop.
const broadcastBuffer = 256

// ErrBacklogFull is returned by Append when spectators fall too far behind.
var ErrBacklogFull = errors.New("network: spectator backlog full, event dropped")

// Hub maintains the set of active spectators and broadcasts events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new spectator hub.
func NewHub(log *logger.Logger, collector *metrics.Collector) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    collector,
	}
}

// Run starts the hub's main loop to handle spectators and broadcasts.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			h.logger.Info("Spectator hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordSpectator(1)
			h.logger.Info("Spectator connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("Spectator disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.metrics.RecordSpectatorError()
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop removes a client; h.mu must be held.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.metrics.RecordSpectator(-1)
}

// ClientCount returns the number of connected spectators.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Append implements events.EventSink. It never blocks the round loop: when
// the hub cannot keep up the event is dropped and ErrBacklogFull returned.
func (h *Hub) Append(event events.GameEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- payload:
		return nil
	default:
		return ErrBacklogFull
	}
}
