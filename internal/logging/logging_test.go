package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "json").Info("cycle done", "entries", 3)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"entries":3`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, slog.LevelInfo, "text").Info("cycle done", "entries", 3)
	if !strings.Contains(buf.String(), "entries=3") {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, slog.LevelWarn, "json").Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged below warn level: %q", buf.String())
	}
}

func TestSetupWritesToGivenWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(&buf, "bogus", "json")
	slog.Info("ledger cycle started")

	out := buf.String()
	if !strings.Contains(out, "invalid log level") || !strings.Contains(out, "ledger cycle started") {
		t.Errorf("output = %q, want warning and message", out)
	}
}
