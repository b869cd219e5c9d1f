package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(level, "", false)
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))
	return logger, &buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("info")

	logger.Debug("hidden")
	logger.Info("visible")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "visible")
	assert.Contains(t, output, "INFO")
}

func TestLoggerSetLevel(t *testing.T) {
	logger, buf := newBufferLogger("info")

	logger.SetLevel(LevelDebug)
	logger.Debug("now visible")

	assert.Contains(t, buf.String(), "now visible")
}

func TestLoggerWithFields(t *testing.T) {
	logger, buf := newBufferLogger("debug")

	logger.With(Field{Key: "session", Value: "abc"}).Info("tagged")

	output := buf.String()
	assert.Contains(t, output, "tagged")
	assert.Contains(t, output, "session")
	assert.Contains(t, output, "abc")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, LevelError, parseLogLevel("error"))
	assert.Equal(t, LevelInfo, parseLogLevel("bogus"))
}

func TestRenderEntryJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf, FormatJSON)

	require.NoError(t, out.Write(LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   "structured",
	}))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "{"))
	assert.Contains(t, line, `"message":"structured"`)
}

func TestNewLoggerUnwritableFileFallsBackToConsole(t *testing.T) {
	// Parent is a regular file, so the log file can never be created.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	var logger *Logger
	assert.NotPanics(t, func() {
		logger = NewLogger("info", filepath.Join(blocker, "app.log"), false)
	})
	require.NotNil(t, logger)
	assert.Len(t, logger.outputs, 1, "console output replaces the failed file output")
}

func TestNewLoggerUnwritableFileKeepsDebugConsole(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	logger := NewLogger("debug", filepath.Join(blocker, "app.log"), true)
	assert.Len(t, logger.outputs, 1, "the debug console output is not duplicated")
}
