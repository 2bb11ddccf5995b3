package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if log == nil {
				t.Error("New() returned nil")
			}
		})
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", "debug", true},
		{"info logs at debug level", "debug", "info", true},
		{"debug doesn't log at info level", "info", "debug", false},
		{"info logs at info level", "info", "info", true},
		{"error always logs", "debug", "error", true},
		{"unknown level falls back to info", "verbose", "debug", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			result := log.shouldLog(tt.logLevel)
			if result != tt.shouldLog {
				t.Errorf("shouldLog() = %v, want %v", result, tt.shouldLog)
			}
		})
	}
}

func TestSetLevel(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}

	log.SetLevel("debug")
	log.Debug(ctx, "visible %d", 42)
	if !strings.Contains(buf.String(), "[DEBUG] visible 42") {
		t.Errorf("output = %q, want debug line", buf.String())
	}
}

func TestWith(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	root := NewWithWriter(&buf, "info")
	tabLog := root.With("tab 7").With("session 01H")

	tabLog.Info(ctx, "recording started")
	if !strings.Contains(buf.String(), "[INFO] [tab 7 session 01H] recording started") {
		t.Errorf("output = %q, want prefixed line", buf.String())
	}

	// Level is shared with the parent.
	buf.Reset()
	root.SetLevel("error")
	tabLog.Info(ctx, "dropped")
	if buf.Len() != 0 {
		t.Errorf("child ignored parent level change: %q", buf.String())
	}
}
