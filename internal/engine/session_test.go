package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/input"
	apperrors "github.com/MRamiBalles/WordCross/internal/platform/errors"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

type failingSink struct{}

func (failingSink) Append(events.GameEvent) error { return errors.New("sink offline") }

func runScript(t *testing.T, g *Game, picks ...cell.Position) (*Session, *input.Script, string, error) {
	t.Helper()
	var out bytes.Buffer
	script := input.NewScript(picks...)
	s := NewSession(g, script, &out, SessionConfig{GameID: "test-game"})
	err := s.Run(context.Background())
	return s, script, out.String(), err
}

func TestSessionSizeTwoGame(t *testing.T) {
	g := newTestGame(t, 2, "A", "A", "B", "B")

	s, script, out, err := runScript(t, g,
		cell.At(0, 0), cell.At(0, 1),
		cell.At(1, 0), cell.At(1, 1),
	)

	require.NoError(t, err)
	assert.True(t, g.Finished())
	assert.Equal(t, 2, g.PairsFound())
	assert.Equal(t, 0, script.Remaining())
	assert.Equal(t, 2, strings.Count(out, MsgMatch))
	assert.Equal(t, 1, strings.Count(out, MsgFinished))
	assert.True(t, strings.HasSuffix(out, MsgFinished+"\n"))

	log := s.Events()
	assert.Len(t, log.ByType(events.EventTypeGameStarted), 1)
	assert.Len(t, log.ByType(events.EventTypeCellRevealed), 4)
	assert.Len(t, log.ByType(events.EventTypePairMatched), 2)
	assert.Len(t, log.ByType(events.EventTypeGameFinished), 1)
	assert.Len(t, log.ByRound(1), 3, "two reveals and a match")
}

func TestSessionNoPromptsAfterFinished(t *testing.T) {
	g := newTestGame(t, 2, "A", "A", "B", "B")

	_, script, out, err := runScript(t, g,
		cell.At(0, 0), cell.At(0, 1),
		cell.At(1, 0), cell.At(1, 1),
		cell.At(0, 0), cell.At(1, 1),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, script.Remaining())
	assert.Equal(t, 2, strings.Count(out, PromptFirstPick))
}

func TestSessionMismatchScenario(t *testing.T) {
	g := layout4(t)

	s, _, out, err := runScript(t, g, cell.At(0, 0), cell.At(1, 0))

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, out, MsgMismatch)
	assert.Equal(t, 0, g.PairsFound())
	assert.Equal(t, 0, g.RevealedCount())
	assert.Len(t, s.Events().ByType(events.EventTypePairMismatched), 1)
}

func TestSessionRejectsRevealedFirstPick(t *testing.T) {
	g := layout4(t)

	s, _, out, err := runScript(t, g,
		cell.At(0, 0), cell.At(0, 1),
		cell.At(0, 0),
	)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, out, "This cell is already revealed! Choose another.")
	assert.Equal(t, 1, g.PairsFound())
	assert.Equal(t, 2, g.RevealedCount())
	assert.Len(t, s.Events().ByType(events.EventTypeSelectionRejected), 1)
}

func TestSessionRejectsRevealedSecondPick(t *testing.T) {
	g := layout4(t)

	s, _, out, err := runScript(t, g,
		cell.At(0, 0), cell.At(0, 1),
		cell.At(2, 2), cell.At(0, 0),
		cell.At(2, 2), cell.At(2, 3),
	)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 1, strings.Count(out, "This cell is already revealed!"))
	assert.Equal(t, 2, g.PairsFound(), "re-hidden cell can be picked again")
	hidden := s.Events().ByType(events.EventTypeCellHidden)
	require.Len(t, hidden, 1)
	assert.Equal(t, cell.At(2, 2), hidden[0].Payload.(events.CellPayload).Position)
}

func TestSessionRepromptsOutOfRangeSecondPick(t *testing.T) {
	g := newTestGame(t, 2, "A", "A", "B", "B")

	_, _, out, err := runScript(t, g,
		cell.At(0, 0), cell.At(9, 9), cell.At(0, 1),
		cell.At(-1, 0), cell.At(1, 0), cell.At(1, 1),
	)

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Coordinates out of range!"))
	assert.Equal(t, 3, strings.Count(out, PromptFirstPick))
	assert.Equal(t, 3, strings.Count(out, PromptSecondPick))
	assert.True(t, g.Finished())
}

func TestSessionMalformedInputIsFatal(t *testing.T) {
	g := layout4(t)
	var out bytes.Buffer
	s := NewSession(g, input.NewTerminal(strings.NewReader("0 zero")), &out, SessionConfig{})

	err := s.Run(context.Background())

	assert.True(t, apperrors.HasCode(err, apperrors.CodeMalformedInput))
	assert.Equal(t, 0, g.RevealedCount())
}

func TestSessionSinkFailureIsNotFatal(t *testing.T) {
	g := newTestGame(t, 2, "A", "A", "B", "B")
	collector := metrics.NewCollector()
	var out bytes.Buffer
	s := NewSession(g, input.NewScript(cell.At(0, 0), cell.At(0, 1), cell.At(1, 0), cell.At(1, 1)), &out, SessionConfig{
		Events:  events.NewEventLog(failingSink{}),
		Metrics: collector,
	})

	require.NoError(t, s.Run(context.Background()))
	assert.True(t, g.Finished())
	assert.Equal(t, collector.EventsWritten, collector.EventWriteErrors)
	assert.Equal(t, int64(2), collector.Matches)
}

func TestSessionStopsOnCancelledContext(t *testing.T) {
	g := layout4(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSession(g, input.NewScript(), io.Discard, SessionConfig{}).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionPlaysGeneratedGameToCompletion(t *testing.T) {
	g, err := NewGame(6, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	// Pair up the positions of every token from the hidden layout.
	seen := make(map[cell.Token]cell.Position)
	var picks []cell.Position
	for i, tok := range g.Grid().Tokens() {
		p := cell.At(i/6, i%6)
		if first, ok := seen[tok]; ok {
			picks = append(picks, first, p)
			continue
		}
		seen[tok] = p
	}

	_, _, out, err := runScript(t, g, picks...)

	require.NoError(t, err)
	assert.Equal(t, 18, g.PairsFound())
	assert.Equal(t, 18, g.Rounds())
	assert.Equal(t, 36, g.RevealedCount())
	assert.NotContains(t, out, MsgMismatch)
}
