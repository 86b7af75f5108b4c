package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goliatone/go-invoicedesk/books"
	"github.com/rs/zerolog"
)

var _ books.Logger = (*Logger)(nil)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q): expected %s, got %s", input, want, got)
		}
	}
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(New(Config{Level: "debug", Format: "json", Output: &buf})).Component("pipeline")

	logger.Infof("saved %s", "INV-0001.pdf")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["message"] != "saved INV-0001.pdf" {
		t.Fatalf("unexpected message %v", entry["message"])
	}
	if entry["component"] != "pipeline" {
		t.Fatalf("expected component field, got %v", entry["component"])
	}
	if entry["level"] != "info" {
		t.Fatalf("expected info level, got %v", entry["level"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(New(Config{Level: "error", Format: "json", Output: &buf}))

	logger.Debugf("hidden")
	logger.Errorf("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
}
