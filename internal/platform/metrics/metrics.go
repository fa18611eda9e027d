// Package metrics provides observability for a running game.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Collector gathers gameplay counters. All methods are safe for concurrent
// use: the round loop writes while the spectator server reads.
type Collector struct {
	// Round metrics
	Rounds           int64
	Matches          int64
	Mismatches       int64
	RejectedPicks    int64
	LastRoundLatency int64 // nanoseconds between the first pick prompt and evaluation

	// Event metrics
	EventsWritten    int64
	EventWriteErrors int64

	// Spectator metrics
	SpectatorsActive int64
	SpectatorErrors  int64

	// System
	StartTime time.Time
}

// NewCollector returns a zeroed collector whose uptime starts now.
func NewCollector() *Collector {
	return &Collector{StartTime: time.Now()}
}

// RecordRound records an evaluated round.
func (c *Collector) RecordRound(matched bool, latency time.Duration) {
	atomic.AddInt64(&c.Rounds, 1)
	if matched {
		atomic.AddInt64(&c.Matches, 1)
	} else {
		atomic.AddInt64(&c.Mismatches, 1)
	}
	atomic.StoreInt64(&c.LastRoundLatency, int64(latency))
}

// RecordRejectedPick records a pick refused as out of range or already revealed.
func (c *Collector) RecordRejectedPick() {
	atomic.AddInt64(&c.RejectedPicks, 1)
}

// RecordEventWrite records an event forwarded to the sinks.
func (c *Collector) RecordEventWrite(err error) {
	atomic.AddInt64(&c.EventsWritten, 1)
	if err != nil {
		atomic.AddInt64(&c.EventWriteErrors, 1)
	}
}

// RecordSpectator records spectator connection changes.
func (c *Collector) RecordSpectator(delta int64) {
	atomic.AddInt64(&c.SpectatorsActive, delta)
}

// RecordSpectatorError records a failed spectator write.
func (c *Collector) RecordSpectatorError() {
	atomic.AddInt64(&c.SpectatorErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"rounds": map[string]interface{}{
			"count":           atomic.LoadInt64(&c.Rounds),
			"matches":         atomic.LoadInt64(&c.Matches),
			"mismatches":      atomic.LoadInt64(&c.Mismatches),
			"rejected_picks":  atomic.LoadInt64(&c.RejectedPicks),
			"last_latency_ms": float64(atomic.LoadInt64(&c.LastRoundLatency)) / 1e6,
		},

		"events": map[string]interface{}{
			"written": atomic.LoadInt64(&c.EventsWritten),
			"errors":  atomic.LoadInt64(&c.EventWriteErrors),
		},

		"spectators": map[string]interface{}{
			"active": atomic.LoadInt64(&c.SpectatorsActive),
			"errors": atomic.LoadInt64(&c.SpectatorErrors),
		},
	}
}

// Handler returns an HTTP handler serving the JSON snapshot.
func (c *Collector) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// PrometheusHandler returns metrics in Prometheus text format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		fmt.Fprintf(w, "# HELP wordcross_rounds_total Evaluated rounds\n")
		fmt.Fprintf(w, "# TYPE wordcross_rounds_total counter\n")
		fmt.Fprintf(w, "wordcross_rounds_total{result=\"match\"} %d\n", atomic.LoadInt64(&c.Matches))
		fmt.Fprintf(w, "wordcross_rounds_total{result=\"mismatch\"} %d\n\n", atomic.LoadInt64(&c.Mismatches))

		fmt.Fprintf(w, "# HELP wordcross_rejected_picks_total Picks refused as out of range or already revealed\n")
		fmt.Fprintf(w, "# TYPE wordcross_rejected_picks_total counter\n")
		fmt.Fprintf(w, "wordcross_rejected_picks_total %d\n\n", atomic.LoadInt64(&c.RejectedPicks))

		fmt.Fprintf(w, "# HELP wordcross_events_written_total Events forwarded to sinks\n")
		fmt.Fprintf(w, "# TYPE wordcross_events_written_total counter\n")
		fmt.Fprintf(w, "wordcross_events_written_total %d\n\n", atomic.LoadInt64(&c.EventsWritten))

		fmt.Fprintf(w, "# HELP wordcross_event_write_errors_total Events a sink failed to accept\n")
		fmt.Fprintf(w, "# TYPE wordcross_event_write_errors_total counter\n")
		fmt.Fprintf(w, "wordcross_event_write_errors_total %d\n\n", atomic.LoadInt64(&c.EventWriteErrors))

		fmt.Fprintf(w, "# HELP wordcross_spectators Connected spectators\n")
		fmt.Fprintf(w, "# TYPE wordcross_spectators gauge\n")
		fmt.Fprintf(w, "wordcross_spectators %d\n", atomic.LoadInt64(&c.SpectatorsActive))
	}
}
