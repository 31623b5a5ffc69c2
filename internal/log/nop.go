package log

// NopLogger is a no-op logger implementation.
type NopLogger struct{}

// NewNop creates a no-op logger implementation.
func NewNop() Logger {
	return &NopLogger{}
}

// Debug drops the log event.
func (l *NopLogger) Debug(_ string, _ ...Field) {}

// Info drops the log event.
func (l *NopLogger) Info(_ string, _ ...Field) {}

// Warn drops the log event.
func (l *NopLogger) Warn(_ string, _ ...Field) {}

// Error drops the log event.
func (l *NopLogger) Error(_ string, _ ...Field) {}

// With returns the same no-op logger.
//
//nolint:ireturn
func (l *NopLogger) With(_ ...Field) Logger {
	return l
}

// Enabled always returns false for NopLogger.
func (l *NopLogger) Enabled(_ Level) bool {
	return false
}

// Sync is a no-op and always returns nil.
func (l *NopLogger) Sync() error { return nil }
