package logging

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, slog.LevelInfo)
	require.NoError(t, err)

	logger.Info("goals saved", "goals", 3)
	logger.Debug("hidden detail")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "level=INFO")
	assert.Contains(t, string(content), `msg="goals saved"`)
	assert.Contains(t, string(content), "goals=3")
	assert.NotContains(t, string(content), "hidden detail")
}

func TestLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first", "second"} {
		logger, err := New(dir, slog.LevelDebug)
		require.NoError(t, err)
		logger.Warn(msg)
		require.NoError(t, logger.Close())
	}

	content, err := os.ReadFile(LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "msg=first")
	assert.Contains(t, string(content), "msg=second")
}

func TestLoggerDisabled(t *testing.T) {
	logger, err := New("", slog.LevelDebug)
	require.NoError(t, err)
	logger.Error("dropped")
	assert.NoError(t, logger.Close())
}
