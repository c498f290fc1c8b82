package logging

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_DEV", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, "info", cfg.Level)
	assert.False(t, cfg.Dev)

	t.Setenv("LOG_DEV", "1")
	cfg = ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Dev)

	t.Setenv("LOG_LEVEL", "warn")
	cfg = ConfigFromEnv()
	assert.Equal(t, "warn", cfg.Level)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

// Stdout is the response stream of the embedding shell; log output must
// never appear on it.
func TestInitKeepsStdoutClean(t *testing.T) {
	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout, os.Stderr = outW, errW
	t.Cleanup(func() { os.Stdout, os.Stderr = origOut, origErr })

	logger, err := Init(Config{Level: "info"})
	require.NoError(t, err)
	logger.Info("sink check")
	_ = logger.Sync()

	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())
	onStdout, err := io.ReadAll(outR)
	require.NoError(t, err)
	onStderr, err := io.ReadAll(errR)
	require.NoError(t, err)

	assert.Empty(t, onStdout)
	assert.Contains(t, string(onStderr), "sink check")
}
