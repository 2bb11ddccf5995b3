package logger

import "context"

// Logger is the leveled, printf-style logger used across the daemon.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// SetLevel changes the minimum level at runtime (config hot reload).
	SetLevel(level string)
	// With returns a logger sharing this one's output and level that prefixes every line.
	With(prefix string) Logger
}
