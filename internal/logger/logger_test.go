package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestConfigLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := Config{Level: tt.level}
		if got := cfg.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestConfigIsJSON(t *testing.T) {
	if !(Config{Format: "json"}).IsJSON() {
		t.Error("json format should report IsJSON")
	}
	if !(Config{Format: "JSON"}).IsJSON() {
		t.Error("format matching should be case-insensitive")
	}
	if (Config{Format: "text"}).IsJSON() {
		t.Error("text format should not report IsJSON")
	}
}

func TestEventIDRoundTrip(t *testing.T) {
	id := GenerateEventID()
	if id == "" {
		t.Fatal("GenerateEventID returned empty string")
	}

	ctx := WithEventID(context.Background(), id)
	got, ok := EventIDFromContext(ctx)
	if !ok {
		t.Fatal("event id not found in context")
	}
	if got != id {
		t.Errorf("got %q, want %q", got, id)
	}
}

func TestEventIDFromContext_Missing(t *testing.T) {
	_, ok := EventIDFromContext(context.Background())
	if ok {
		t.Error("empty context should not carry an event id")
	}
}

func TestFromContext_NoEventID(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Error("FromContext must always return a logger")
	}
}
