// Package main prints the round history recorded by wordcross -history.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/MRamiBalles/WordCross/internal/infra/storage"
	"github.com/MRamiBalles/WordCross/internal/platform/config"
)

type historyConfig struct {
	HistoryDB string `env:"WORDCROSS_HISTORY_DB" envDefault:"wordcross.db"`
	GameID    string
}

func main() {
	cfg := &historyConfig{}
	if err := config.ParseEnv(cfg); err != nil {
		config.Exitf(os.Stderr, "wordcross-history: %v", err)
	}
	fs := flag.NewFlagSet("wordcross-history", flag.ContinueOnError)
	fs.StringVar(&cfg.HistoryDB, "history", cfg.HistoryDB, "SQLite file written by wordcross -history")
	fs.StringVar(&cfg.GameID, "game", "", "print the timeline of one game instead of the list")
	if err := fs.Parse(os.Args[1:]); err != nil {
		config.Exitf(os.Stderr, "wordcross-history: %v", err)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf(os.Stderr, "wordcross-history: %v", err)
	}
}

func run(ctx context.Context, cfg *historyConfig, out io.Writer) error {
	if _, err := os.Stat(cfg.HistoryDB); err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	db, err := storage.InitSQLite(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.GameID != "" {
		return printTimeline(ctx, storage.NewReconstructor(storage.NewSQLiteEventRepository(db)), cfg.GameID, out)
	}
	return printGames(ctx, storage.NewSQLiteGameRepository(db), out)
}

func printGames(ctx context.Context, games storage.GameRepository, out io.Writer) error {
	list, err := games.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "No games recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tSIZE\tSEED\tSTARTED\tPAIRS\tSTATUS")
	for _, g := range list {
		status := "abandoned"
		if g.Finished() {
			status = "finished in " + g.FinishedAt.Sub(g.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%s\t%d/%d\t%s\n",
			g.ID, g.Size, g.Size, g.Seed, g.StartedAt.Format(time.RFC3339), g.PairsFound, g.Size*g.Size/2, status)
	}
	return w.Flush()
}

func printTimeline(ctx context.Context, recaps *storage.Reconstructor, gameID string, out io.Writer) error {
	recap, err := recaps.Rebuild(ctx, gameID)
	if err != nil {
		return err
	}
	if recap == nil {
		return fmt.Errorf("game %s not found", gameID)
	}

	fmt.Fprintf(out, "Game %s (%dx%d)\n", recap.GameID, recap.Size, recap.Size)
	fmt.Fprintln(out, strings.Repeat("=", 60))
	for _, e := range recap.Timeline {
		fmt.Fprintf(out, "[round %2d] %s\n", e.Round, e.Summary)
	}
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "Rounds: %d  Matches: %d  Mismatches: %d  Rejected picks: %d\n",
		recap.Rounds, recap.Matches, recap.Mismatches, recap.Rejected)
	if !recap.Finished {
		fmt.Fprintln(out, "Game was not finished.")
	}
	return nil
}
