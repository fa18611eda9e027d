package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
)

type recordingSink struct {
	got []GameEvent
	err error
}

func (s *recordingSink) Append(event GameEvent) error {
	s.got = append(s.got, event)
	return s.err
}

func TestNewEventStampsIDAndTime(t *testing.T) {
	a := NewEvent("g-1", EventTypeCellRevealed, ActorPlayer, 1, CellPayload{Position: cell.At(0, 0)})
	b := NewEvent("g-1", EventTypeCellRevealed, ActorPlayer, 1, CellPayload{Position: cell.At(0, 1)})

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())
	assert.Equal(t, "g-1", a.GameID)
}

func TestAppendForwardsToSinks(t *testing.T) {
	first, second := &recordingSink{}, &recordingSink{}
	el := NewEventLog(first)
	el.AddSink(second)

	require.NoError(t, el.Append(NewEvent("g", EventTypeGameStarted, ActorSystem, 0, GameStartedPayload{Size: 2, Pairs: 1})))

	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
	assert.Len(t, el.Replay(), 1)
}

func TestAppendKeepsEventWhenSinkFails(t *testing.T) {
	boom := errors.New("disk full")
	el := NewEventLog(&recordingSink{err: boom})

	err := el.Append(NewEvent("g", EventTypePairMatched, ActorPlayer, 1, PairPayload{}))

	assert.ErrorIs(t, err, boom)
	assert.Len(t, el.Replay(), 1)
}

func TestQueries(t *testing.T) {
	el := NewEventLog()
	el.Append(NewEvent("g", EventTypeCellRevealed, ActorPlayer, 1, nil))
	el.Append(NewEvent("g", EventTypeCellRevealed, ActorPlayer, 1, nil))
	el.Append(NewEvent("g", EventTypePairMismatched, ActorPlayer, 1, nil))
	el.Append(NewEvent("g", EventTypeCellRevealed, ActorPlayer, 2, nil))

	assert.Len(t, el.ByType(EventTypeCellRevealed), 3)
	assert.Len(t, el.ByType(EventTypeGameFinished), 0)
	assert.Len(t, el.ByRound(1), 3)
	assert.Len(t, el.ByRound(2), 1)
}

func TestReplayReturnsCopy(t *testing.T) {
	el := NewEventLog()
	el.Append(NewEvent("g", EventTypeGameStarted, ActorSystem, 0, nil))

	history := el.Replay()
	history[0].Type = EventTypeGameFinished

	assert.Equal(t, EventTypeGameStarted, el.Replay()[0].Type)
}
