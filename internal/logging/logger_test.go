package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "player").Info("seek applied", Float64("position", 12.5))

	out := buf.String()
	if !strings.Contains(out, "player:") {
		t.Fatalf("expected component prefix in output, got %q", out)
	}
	if !strings.Contains(out, "position=12.5") {
		t.Fatalf("expected attr in output, got %q", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Fatalf("expected level label in output, got %q", out)
	}
}

func TestConsoleHandlerQuotesStringsWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("loaded", String("name", "Some Movie"))

	if !strings.Contains(buf.String(), `name="Some Movie"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Warn("stream dropped", String("detail", "connection lost"))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json log line: %v", err)
	}
	if decoded["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", decoded["level"])
	}
	if decoded["msg"] != "stream dropped" {
		t.Fatalf("unexpected msg field: %v", decoded["msg"])
	}
	if _, ok := decoded["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled")
	}
}
