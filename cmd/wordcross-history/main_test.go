package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/infra/storage"
)

func recordGame(t *testing.T, path string) {
	t.Helper()
	db, err := storage.InitSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	rec := storage.NewRecorder(storage.NewSQLiteGameRepository(db), storage.NewSQLiteEventRepository(db))
	for _, e := range []events.GameEvent{
		events.NewEvent("g-1", events.EventTypeGameStarted, events.ActorSystem, 0, events.GameStartedPayload{Size: 2, Pairs: 2, Seed: 9}),
		events.NewEvent("g-1", events.EventTypeCellRevealed, events.ActorPlayer, 1, events.CellPayload{Position: cell.At(0, 0), Token: "A"}),
		events.NewEvent("g-1", events.EventTypeCellRevealed, events.ActorPlayer, 1, events.CellPayload{Position: cell.At(1, 1), Token: "B"}),
		events.NewEvent("g-1", events.EventTypePairMismatched, events.ActorPlayer, 1, events.PairPayload{First: cell.At(0, 0), Second: cell.At(1, 1)}),
	} {
		require.NoError(t, rec.Append(e))
		time.Sleep(time.Millisecond)
	}
}

func TestPrintGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	recordGame(t, path)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &historyConfig{HistoryDB: path}, &out))

	assert.Contains(t, out.String(), "GAME")
	assert.Contains(t, out.String(), "g-1")
	assert.Contains(t, out.String(), "2x2")
	assert.Contains(t, out.String(), "0/2")
	assert.Contains(t, out.String(), "abandoned")
}

func TestPrintTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	recordGame(t, path)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &historyConfig{HistoryDB: path, GameID: "g-1"}, &out))

	assert.Contains(t, out.String(), "Game g-1 (2x2)")
	assert.Contains(t, out.String(), "Revealed (0, 0): A")
	assert.Contains(t, out.String(), "No match between (0, 0) and (1, 1)")
	assert.Contains(t, out.String(), "Mismatches: 1")
	assert.Contains(t, out.String(), "Game was not finished.")
}

func TestUnknownGame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	recordGame(t, path)

	err := run(context.Background(), &historyConfig{HistoryDB: path, GameID: "missing"}, &bytes.Buffer{})
	assert.EqualError(t, err, "game missing not found")
}

func TestMissingHistoryFile(t *testing.T) {
	err := run(context.Background(), &historyConfig{HistoryDB: filepath.Join(t.TempDir(), "none.db")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "open history")
}
