package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetRoutesHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	defer Set(prev)

	Info("user created", zap.String("id", "u1"))
	Warn("cache miss")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "user created", entries[0].Message)
		assert.Equal(t, "u1", entries[0].ContextMap()["id"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}

func TestInitFallsBackToInfo(t *testing.T) {
	prev := L()
	defer Set(prev)

	assert.NoError(t, Init("nonsense", "json"))
	assert.False(t, L().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, L().Core().Enabled(zapcore.InfoLevel))
}
