package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).Named("draft").With("league", "NBA Fantasy League")

	logger.InfoContext(context.Background(), "bid accepted", "team", "Alpha", "amount", 12)
	logger.Warn("persist failed", "error", errors.New("disk full"), "dangling")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first["team"] != "Alpha" || first["amount"] != int64(12) || first["league"] != "NBA Fantasy League" {
		t.Fatalf("unexpected fields: %v", first)
	}
	if entries[0].LoggerName != "draft" {
		t.Fatalf("expected logger name draft, got %q", entries[0].LoggerName)
	}

	second := entries[1].ContextMap()
	if second["error"] != "disk full" {
		t.Fatalf("expected error field, got %v", second["error"])
	}
	if _, ok := second["dangling"]; !ok {
		t.Fatalf("expected dangling key to be kept, got %v", second)
	}
}

func TestNewWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Info("filtered out")
	logger.Error("auction commit failed", "player", "LeBron James")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Fatalf("info entry should be below warn level: %s", out)
	}
	if !strings.Contains(out, `"player":"LeBron James"`) {
		t.Fatalf("expected player field in output: %s", out)
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat(" Console ") != FormatConsole {
		t.Fatalf("expected console format")
	}
	if ParseFormat("anything") != FormatJSON {
		t.Fatalf("expected json fallback")
	}
}
