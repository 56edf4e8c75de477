package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestEmptyPathIsNop(t *testing.T) {
	logger, err := New("", "debug", true)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "folio.log")
	logger, err := New(path, "warn", false)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("ref", "a.png"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"ref":"a.png"`)
}

func TestVerboseForcesDebug(t *testing.T) {
	logger, err := New(filepath.Join(t.TempDir(), "folio.log"), "error", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInvalidLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "folio.log"), "chatty", false)
	assert.Error(t, err)
}
