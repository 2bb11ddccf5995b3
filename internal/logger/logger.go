package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

var levels = map[string]int32{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	level  *atomic.Int32
	prefix string
}

// New creates a new Logger instance writing to stdout
func New(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(w io.Writer, level string) Logger {
	l := &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  &atomic.Int32{},
	}
	l.SetLevel(level)
	return l
}

func (l *implLogger) SetLevel(level string) {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = 1 // default to info
	}
	l.level.Store(lvl)
}

func (l *implLogger) With(prefix string) Logger {
	p := prefix
	if l.prefix != "" {
		p = l.prefix + " " + prefix
	}
	return &implLogger{logger: l.logger, level: l.level, prefix: p}
}

func (l *implLogger) shouldLog(level string) bool {
	targetLevel, ok := levels[level]
	if !ok {
		return true
	}
	return targetLevel >= l.level.Load()
}

func (l *implLogger) printf(tag, msg string, args ...interface{}) {
	if l.prefix != "" {
		msg = "[" + l.prefix + "] " + msg
	}
	l.logger.Printf(tag+" "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.printf("[DEBUG]", msg, args...)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.printf("[INFO]", msg, args...)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.printf("[WARN]", msg, args...)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.printf("[ERROR]", msg, args...)
	}
}

// Nop returns a Logger that discards everything. Handy in tests.
func Nop() Logger {
	return NewWithWriter(io.Discard, "error")
}
