package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "barber-queue", "warn")

	log.Info("skipped")
	log.Warn("partition conflict", "barber_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "barber-queue", line["service"])
	assert.Equal(t, "partition conflict", line["msg"])
	assert.EqualValues(t, 7, line["barber_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
