package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("hello", "key", "value")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "hello" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["key"] != "value" {
		t.Errorf("key = %v", record["key"])
	}
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "info", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("started", "component", "test")
	if !strings.Contains(buf.String(), "msg=started") {
		t.Errorf("text output missing message: %s", buf.String())
	}
}

func TestSetup_LevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record leaked through a warn filter: %s", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("warn record missing")
	}
}

func TestSetup_DefaultsToTextInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Setup(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("dropped")
	if buf.Len() != 0 {
		t.Error("debug record leaked through the default info level")
	}
}

func TestSetup_RejectsUnknownValues(t *testing.T) {
	if _, err := Setup(Config{Level: "loud"}); err == nil {
		t.Error("unknown level must be rejected")
	}
	if _, err := Setup(Config{Format: "xml"}); err == nil {
		t.Error("unknown format must be rejected")
	}
}

func TestSetup_InstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Setup(Config{Writer: &buf}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	slog.Default().Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Error("Setup must install the process default logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if err != nil {
			t.Errorf("parseLevel(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
