package log

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
		input   string
		want    Level
		wantErr bool
	}{
		{input: "debug", want: LevelDebug},
		{input: "info", want: LevelInfo},
		{input: "warn", want: LevelWarn},
		{input: "warning", want: LevelWarn},
		{input: "error", want: LevelError},
		{input: "ERROR", want: LevelError},
		{input: "verbose", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "info", LevelInfo.String())
	assert.Equal(t, "warn", LevelWarn.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

// observedLogger builds a ZapLogger that records entries in memory.
func observedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, observed := observer.New(level)

	return &ZapLogger{logger: zap.New(core)}, observed
}

func TestZapLoggerLevels(t *testing.T) {
	logger, observed := observedLogger(zapcore.InfoLevel)

	logger.Debug("hidden")
	logger.Info("shown", String("key", "value"))
	logger.Error("also shown")

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "shown", entries[0].Message)
	assert.Equal(t, "value", entries[0].ContextMap()["key"])
	assert.Equal(t, "also shown", entries[1].Message)
}

func TestZapLoggerWith(t *testing.T) {
	logger, observed := observedLogger(zapcore.DebugLevel)

	child := logger.With(String("run_id", "abc"), Int("attempt", 1))
	child.Info("event")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["run_id"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["attempt"])
}

func TestZapLoggerEnabled(t *testing.T) {
	logger, _ := observedLogger(zapcore.InfoLevel)

	assert.True(t, logger.Enabled(LevelError))
	assert.True(t, logger.Enabled(LevelInfo))
	assert.False(t, logger.Enabled(LevelDebug))
}

func TestZapLoggerNilReceiverIsSafe(t *testing.T) {
	var logger *ZapLogger

	assert.NotPanics(t, func() {
		logger.Info("dropped")
		logger.Error("dropped", Err(assert.AnError))
		assert.False(t, logger.Enabled(LevelError))
	})
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	assert.NotPanics(t, func() {
		logger.Debug("dropped")
		logger.With(Bool("noisy", true)).Warn("dropped")
	})
	assert.False(t, logger.Enabled(LevelError))
	assert.NoError(t, logger.Sync())
}
