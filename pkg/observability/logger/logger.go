package logger

import "context"

// Logger is the structured logging contract used across the service.
// All log methods accept a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger whose entries carry the given key-value pairs.
	With(args ...any) Logger

	// WithContext returns a child logger that carries the request ID from ctx,
	// when one is present.
	WithContext(ctx context.Context) Logger
}

// NopLogger discards all log entries. Useful as a default in tests and
// optional constructor arguments.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any)              {}
func (NopLogger) Info(string, ...any)               {}
func (NopLogger) Warn(string, ...any)               {}
func (NopLogger) Error(string, ...any)              {}
func (n NopLogger) With(...any) Logger              { return n }
func (n NopLogger) WithContext(context.Context) Logger { return n }
