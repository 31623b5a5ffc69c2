package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is a zap-backed Logger. Output goes to stderr so the account
// table on stdout stays machine-readable.
type ZapLogger struct {
	logger *zap.Logger
}

// Compile-time assertion: *ZapLogger implements Logger.
var _ Logger = (*ZapLogger)(nil)

// NewZap creates a stderr console logger at the given level.
func NewZap(level Level) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		levelToZap(level),
	)

	return &ZapLogger{logger: zap.New(core)}
}

func (l *ZapLogger) must() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}

	return l.logger
}

// Debug logs a message with debug severity.
func (l *ZapLogger) Debug(msg string, fields ...Field) {
	l.must().Debug(msg, fieldsToZap(fields)...)
}

// Info logs a message with info severity.
func (l *ZapLogger) Info(msg string, fields ...Field) {
	l.must().Info(msg, fieldsToZap(fields)...)
}

// Warn logs a message with warn severity.
func (l *ZapLogger) Warn(msg string, fields ...Field) {
	l.must().Warn(msg, fieldsToZap(fields)...)
}

// Error logs a message with error severity.
func (l *ZapLogger) Error(msg string, fields ...Field) {
	l.must().Error(msg, fieldsToZap(fields)...)
}

// With returns a child logger with additional structured fields.
//
//nolint:ireturn
func (l *ZapLogger) With(fields ...Field) Logger {
	return &ZapLogger{logger: l.must().With(fieldsToZap(fields)...)}
}

// Enabled reports whether the logger would emit a log at the given level.
func (l *ZapLogger) Enabled(level Level) bool {
	return l.must().Core().Enabled(levelToZap(level))
}

// Sync flushes buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.must().Sync()
}

// levelToZap converts a Level to a zapcore.Level.
func levelToZap(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// fieldsToZap converts Field values to zap.Field values.
func fieldsToZap(fields []Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		zapFields[i] = zap.Any(f.Key, f.Value)
	}

	return zapFields
}
