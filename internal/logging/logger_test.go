package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/telhawk-systems/resend-sink/internal/middleware"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		logger := New(slog.LevelInfo, format)
		if logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", format)
		}
	}
}

func TestWithContext(t *testing.T) {
	logger := New(slog.LevelInfo, "json")

	// Without a request ID the base logger is returned.
	if got := logger.WithContext(context.Background()); got != logger.Logger {
		t.Error("expected base logger for context without request ID")
	}

	// With a request ID a derived logger is returned.
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-123")
	if got := logger.WithContext(ctx); got == logger.Logger {
		t.Error("expected derived logger for context with request ID")
	}
}
