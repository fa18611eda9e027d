// Package main is the entry point of the Word Cross memory game.
// It only wires dependencies together; game rules live in internal/engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/MRamiBalles/WordCross/internal/engine"
	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/infra/storage"
	"github.com/MRamiBalles/WordCross/internal/input"
	"github.com/MRamiBalles/WordCross/internal/network"
	"github.com/MRamiBalles/WordCross/internal/platform/config"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

const (
	welcome     = "Welcome to Word Cross Memory Game!"
	sizePrompt  = "Enter grid size (must be even, e.g., 4, 6): "
	interrupted = "\nGame interrupted."
)

func main() {
	cfg, err := config.ParseConfigFromArgs(flag.NewFlagSet("wordcross", flag.ContinueOnError), os.Args[1:])
	if err != nil {
		config.Exitf(os.Stderr, "wordcross: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run plays one game and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) int {
	appLogger, err := logger.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "wordcross: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, welcome)
	term := input.NewTerminal(stdin)

	size := cfg.Size
	if size == 0 {
		fmt.Fprint(stdout, sizePrompt)
		if size, err = term.ReadInt(ctx); err != nil {
			appLogger.Error("Size prompt failed: " + err.Error())
			reportFailure(stdout, err)
			return 1
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game, err := engine.NewGame(size, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		return 1
	}

	gameID := uuid.NewString()
	log := appLogger.With("game", gameID)
	collector := metrics.NewCollector()
	eventLog := events.NewEventLog()

	var recaps *storage.Reconstructor
	if cfg.HistoryDB != "" {
		log.Info("Opening round history " + cfg.HistoryDB)
		db, err := storage.InitSQLite(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintf(stderr, "wordcross: %v\n", err)
			return 1
		}
		defer db.Close()
		eventRepo := storage.NewSQLiteEventRepository(db)
		eventLog.AddSink(storage.NewRecorder(storage.NewSQLiteGameRepository(db), eventRepo))
		recaps = storage.NewReconstructor(eventRepo)
	}

	if cfg.SpectateAddr != "" {
		shutdown, err := startSpectating(ctx, cfg.SpectateAddr, eventLog, collector, log)
		if err != nil {
			fmt.Fprintf(stderr, "wordcross: %v\n", err)
			return 1
		}
		defer shutdown()
	}

	session := engine.NewSession(game, term, stdout, engine.SessionConfig{
		GameID:  gameID,
		Seed:    seed,
		Events:  eventLog,
		Logger:  log,
		Metrics: collector,
	})
	if err := session.Run(ctx); err != nil {
		log.Error("Game aborted: " + err.Error())
		reportFailure(stdout, err)
		return 1
	}

	if recaps != nil {
		logRecap(ctx, recaps, gameID, log)
	}
	return 0
}

// reportFailure tells the player why the game ended early.
func reportFailure(stdout io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stdout, interrupted)
		return
	}
	fmt.Fprintln(stdout, err.Error())
}

// startSpectating binds addr and serves the spectator feed until the
// returned shutdown func is called.
func startSpectating(ctx context.Context, addr string, eventLog *events.EventLog, collector *metrics.Collector, log *logger.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for spectators: %w", err)
	}

	hubCtx, cancel := context.WithCancel(ctx)
	hub := network.NewHub(log, collector)
	go hub.Run(hubCtx)
	eventLog.AddSink(hub)

	srv := network.NewServer(addr, network.NewMux(hub, eventLog, collector, log))
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Spectator server stopped: " + err.Error())
		}
	}()
	log.Info("Spectator feed listening on " + ln.Addr().String())

	return func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("Spectator server shutdown: " + err.Error())
		}
		cancel()
	}, nil
}

func logRecap(ctx context.Context, recaps *storage.Reconstructor, gameID string, log *logger.Logger) {
	recap, err := recaps.Rebuild(ctx, gameID)
	if err != nil {
		log.Warn("Failed to rebuild recap: " + err.Error())
		return
	}
	if recap == nil {
		return
	}
	log.Info(fmt.Sprintf("Recorded %d rounds (%d matches, %d mismatches, %d rejected picks) in %s",
		recap.Rounds, recap.Matches, recap.Mismatches, recap.Rejected, recap.Duration.Round(time.Millisecond)))
}
