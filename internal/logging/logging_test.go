package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	New("engine").Info("step advanced")

	out := buf.String()
	if !strings.Contains(out, "component=engine") {
		t.Errorf("missing component attribute: %s", out)
	}
	if !strings.Contains(out, "step advanced") {
		t.Errorf("missing message: %s", out)
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("cli").Info("started")

	out := buf.String()
	if !strings.Contains(out, `"component":"cli"`) {
		t.Errorf("missing JSON component field: %s", out)
	}
}

func TestInitLevelGating(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	logger := New("gate")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info message should be suppressed at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn message should appear at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
