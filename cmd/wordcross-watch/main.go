// Package main - wordcross-watch
// Spectator client for the wordcross -spectate feed. With one client it
// prints every event as it happens; with more it acts as a load generator
// and only reports totals.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/WordCross/internal/platform/config"
)

// Config for the watcher
type Config struct {
	ServerURL  string
	NumClients int
	Duration   time.Duration
}

// Stats tracks what the spectators saw
type Stats struct {
	Connected        int64
	MessagesReceived int64
	Errors           int64
}

// feedEvent is the subset of a game event the watcher prints.
type feedEvent struct {
	Type    string          `json:"type"`
	Round   int             `json:"round"`
	ActorID string          `json:"actor_id"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	cfg := Config{}
	fs := flag.NewFlagSet("wordcross-watch", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "url", "ws://localhost:8080/ws", "spectator feed URL")
	fs.IntVar(&cfg.NumClients, "clients", 1, "number of concurrent spectators")
	fs.DurationVar(&cfg.Duration, "duration", 0, "stop after this long; 0 watches until the feed closes")
	if err := fs.Parse(os.Args[1:]); err != nil {
		config.Exitf(os.Stderr, "wordcross-watch: %v", err)
	}
	if cfg.NumClients < 1 {
		config.Exitf(os.Stderr, "wordcross-watch: -clients must be at least 1")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	stats := watch(ctx, cfg, os.Stdout)
	fmt.Printf("Spectators connected: %d\n", atomic.LoadInt64(&stats.Connected))
	fmt.Printf("Events received:      %d\n", atomic.LoadInt64(&stats.MessagesReceived))
	fmt.Printf("Errors:               %d\n", atomic.LoadInt64(&stats.Errors))
}

// watch connects cfg.NumClients spectators and blocks until every feed has
// closed or ctx is done. Only a lone spectator echoes events to out.
func watch(ctx context.Context, cfg Config, out io.Writer) *Stats {
	stats := &Stats{}
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i := 0; i < cfg.NumClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			var echo func(feedEvent)
			if cfg.NumClients == 1 {
				echo = func(e feedEvent) {
					mu.Lock()
					defer mu.Unlock()
					fmt.Fprintf(out, "[round %2d] %-18s %s %s\n", e.Round, e.Type, e.ActorID, e.Payload)
				}
			}
			runClient(ctx, clientID, cfg.ServerURL, stats, echo)
		}(i)
	}
	wg.Wait()
	return stats
}

func runClient(ctx context.Context, clientID int, serverURL string, stats *Stats, echo func(feedEvent)) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, serverURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spectator %d: connection failed: %v\n", clientID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()
	atomic.AddInt64(&stats.Connected, 1)

	// Unblock ReadMessage when ctx ends.
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stopped:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				atomic.AddInt64(&stats.Errors, 1)
			}
			return
		}
		atomic.AddInt64(&stats.MessagesReceived, 1)
		if echo == nil {
			continue
		}
		var e feedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			atomic.AddInt64(&stats.Errors, 1)
			continue
		}
		echo(e)
	}
}
