package network

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectator pages may be served from anywhere
	},
}

// NewMux routes the spectator endpoints:
//
//	/ws                  live event feed
//	/replay              event history as JSON
//	/metrics             counters as JSON
//	/metrics/prometheus  counters in Prometheus text format
func NewMux(hub *Hub, el *events.EventLog, collector *metrics.Collector, log *logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(hub, w, r, log)
	})
	mux.Handle("/replay", NewReplayHandler(el, log))
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/metrics/prometheus", collector.PrometheusHandler())
	return mux
}

// NewServer returns an HTTP server for the spectator endpoints on addr.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ServeWs upgrades a spectator request to a websocket.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection: " + err.Error())
		return
	}

	client := NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
