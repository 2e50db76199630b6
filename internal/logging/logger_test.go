package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "production", "info")

	log.With("component", "registry").Info(context.Background(), "username claimed", "username", "@alice")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "username claimed", line["msg"])
	assert.Equal(t, "registry", line["component"])
	assert.Equal(t, "@alice", line["username"])
}

func TestNew_LevelFiltersLowerMessages(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "development", "error")

	log.Info(context.Background(), "dropped")
	log.Warn(context.Background(), "dropped too")
	assert.Empty(t, buf.String())

	log.Error(context.Background(), "kept")
	assert.Contains(t, buf.String(), "kept")
}
