package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.log")

	log, closer, err := New(Config{Level: "debug", Format: "json", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Debug("bridge opened", "fd", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "bridge opened", entry["msg"])
	assert.EqualValues(t, 3, entry["fd"])
}

func TestNew_Stderr(t *testing.T) {
	log, closer, err := New(Config{Level: "error"})
	require.NoError(t, err)
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.NoError(t, closer.Close())
}

func TestNew_BadFormat(t *testing.T) {
	_, _, err := New(Config{Format: "xml"})
	assert.Error(t, err)
}
