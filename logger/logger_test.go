package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
	_, err = New("loud")
	assert.Error(t, err)
}

func TestWrapKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core))

	l.Debug("warming up", zap.Int("rows", 50))
	l.Info("evaluated", zap.String("pair", "BTC/USDT"))
	l.Warn("short frame")
	l.Error("failed")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "evaluated", entries[1].Message)
	assert.Equal(t, "BTC/USDT", entries[1].ContextMap()["pair"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("dropped")
	assert.NoError(t, l.Sync())
}
