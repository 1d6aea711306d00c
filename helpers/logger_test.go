package helpers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "error.log")

	logger := NewLogger(tmpFile)
	logger.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 15, 0, time.Local) }

	logger.LogError("homepage", errors.New("test error"))
	logger.LogError("profile", errors.New("second error"))
	logger.LogError("profile", nil)

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2024-05-01 09:30:15] [homepage] test error", lines[0])
	assert.Contains(t, lines[1], "[profile] second error")

	// Info messages go to the application log, not the file
	logger.LogInfo("Test info message: %s", "hello")
	data, err = os.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hello")
}

func TestLoggerWithoutFile(t *testing.T) {
	logger := NewLogger("")
	assert.NotPanics(t, func() { logger.LogError("homepage", errors.New("boom")) })
}
