package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":     slog.LevelDebug,
		"  WARN ":   slog.LevelWarn,
		"warning":   slog.LevelWarn,
		"error":     slog.LevelError,
		"info":      slog.LevelInfo,
		"":          slog.LevelInfo,
		"verbose":   slog.LevelInfo,
		"CRITICAL!": slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewJSONLoggerHonorsLevel(t *testing.T) {
	logger := NewJSONLogger("lead-console", "error")
	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelWarn) {
		t.Fatalf("warn enabled on an error-level logger")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Fatalf("error disabled on an error-level logger")
	}
}
