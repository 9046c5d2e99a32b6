package contract

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellLabel(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	assert.Equal(t, "0", CellLabel(0, 10))
	assert.Equal(t, "10", CellLabel(10, 10))
	assert.Equal(t, "6", CellLabel(6, 10))
	assert.Equal(t, "2", CellLabel(2, 10))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		maxWidth int
		expected string
	}{
		{"short label unchanged", "Off by one", 20, "Off by one"},
		{"long label truncated", "Missing docstring on public method", 12, "Missing d..."},
		{"tiny width ignored", "abcdef", 3, "abcdef"},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateLabel(tt.label, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("fetched", "endpoint", "/comments/1/")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "endpoint=/comments/1/")
	assert.NotContains(t, out, "time=")
}

func TestNewLoggerEnvOverride(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "debug")

	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelError)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "level=DBUG")
}
