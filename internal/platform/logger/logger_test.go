package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud")
	assert.Error(t, err)
}

func TestLevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "warn")
	require.NoError(t, err)

	log.Info("quiet")
	log.Warn("careful")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "careful")
}

func TestEventCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(&buf, "info")
	require.NoError(t, err)

	log.With("game", "g-1").Event("PAIR_MATCHED", "PLAYER", "(0, 0) and (0, 1)")

	out := buf.String()
	assert.Contains(t, out, "event=PAIR_MATCHED")
	assert.Contains(t, out, "actor=PLAYER")
	assert.Contains(t, out, "game=g-1")
}
