package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	tests := []struct {
		name      string
		logType   string
		level     string
		wantError bool
	}{
		{"json/info", JSON, "info", false},
		{"text/debug", Text, "debug", false},
		{"tint/warn", Tint, "warn", false},
		{"json/error", JSON, "error", false},
		{"invalid level", JSON, "bogus", true},
		{"unknown type", "unknown", "info", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Initialize(&buf, tt.logType, tt.level)
			if (err != nil) != tt.wantError {
				t.Errorf("Initialize(%q, %q) error = %v, wantError = %v", tt.logType, tt.level, err, tt.wantError)
			}
		})
	}
}

func TestInitialize_WritesToWriter(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	if err := Initialize(&buf, JSON, "info"); err != nil {
		t.Fatal(err)
	}
	slog.Info("running pipeline", "steps", 3)
	slog.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"msg":"running pipeline"`) || !strings.Contains(out, `"steps":3`) {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record logged at info level")
	}
}

func TestNewHandler_TintWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, Tint, slog.LevelInfo)
	if err != nil {
		t.Fatal(err)
	}
	slog.New(h).Warn("step warning", "step", "remove-scripts")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected uncolored output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "step=remove-scripts") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
