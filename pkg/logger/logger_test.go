package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("debug", "console"))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn", "json"))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Init("loud", "json"))
}

func TestPackageHelpersUseGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Debug("hidden")
	Info("loaded", zap.String("loader", "users"))
	Warn("slow batch", zap.Int("size", 3))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "loaded", entries[0].Message)
	assert.Equal(t, "users", entries[0].ContextMap()["loader"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
