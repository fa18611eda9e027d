package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/network"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

func startFeed(t *testing.T) (*network.Hub, *events.EventLog, string, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	collector := metrics.NewCollector()
	hub := network.NewHub(logger.Discard(), collector)
	go hub.Run(ctx)

	el := events.NewEventLog(hub)
	server := httptest.NewServer(network.NewMux(hub, el, collector, logger.Discard()))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, el, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws", cancel
}

func TestWatchEchoesEventsUntilFeedCloses(t *testing.T) {
	hub, el, url, stopFeed := startFeed(t)

	var out bytes.Buffer
	done := make(chan *Stats, 1)
	go func() { done <- watch(context.Background(), Config{ServerURL: url, NumClients: 1}, &out) }()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, el.Append(events.NewEvent("g-1", events.EventTypeCellRevealed, events.ActorPlayer, 3,
		events.CellPayload{Position: cell.At(1, 2), Token: "C"})))
	require.NoError(t, el.Append(events.NewEvent("g-1", events.EventTypeGameFinished, events.ActorSystem, 3,
		events.FinishedPayload{PairsFound: 2, Rounds: 3})))

	// The hub drains both events to the spectator before it handles shutdown.
	time.Sleep(100 * time.Millisecond)
	stopFeed()

	var stats *Stats
	select {
	case stats = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not return after the feed closed")
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&stats.Connected))
	assert.Equal(t, int64(2), atomic.LoadInt64(&stats.MessagesReceived))
	assert.Equal(t, int64(0), atomic.LoadInt64(&stats.Errors))
	assert.Contains(t, out.String(), "[round  3] CELL_REVEALED")
	assert.Contains(t, out.String(), `"token":"C"`)
	assert.Contains(t, out.String(), "GAME_FINISHED")
}

func TestWatchManySpectatorsStaysQuiet(t *testing.T) {
	hub, el, url, _ := startFeed(t)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan *Stats, 1)
	go func() { done <- watch(ctx, Config{ServerURL: url, NumClients: 3}, &out) }()

	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, el.Append(events.NewEvent("g-1", events.EventTypeGameStarted, events.ActorSystem, 0,
		events.GameStartedPayload{Size: 2, Pairs: 2})))
	time.Sleep(100 * time.Millisecond)
	cancel()

	stats := <-done
	assert.Equal(t, int64(3), atomic.LoadInt64(&stats.Connected))
	assert.Equal(t, int64(3), atomic.LoadInt64(&stats.MessagesReceived))
	assert.Equal(t, int64(0), atomic.LoadInt64(&stats.Errors))
	assert.Empty(t, out.String())
}

func TestWatchUnreachableServer(t *testing.T) {
	stats := watch(context.Background(), Config{ServerURL: "ws://127.0.0.1:1/ws", NumClients: 2}, &bytes.Buffer{})

	assert.Equal(t, int64(0), atomic.LoadInt64(&stats.Connected))
	assert.Equal(t, int64(2), atomic.LoadInt64(&stats.Errors))
}
