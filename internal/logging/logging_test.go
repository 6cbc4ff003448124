package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/certbatch/internal/ctxutil"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromContext_AddsBatchAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "info", Format: "json"})

	ctx := ctxutil.WithBatchID(context.Background(), "b-42")
	ctx = ctxutil.WithRecipient(ctx, "ada@example.com")
	FromContext(ctx, logger).Info("issued")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if line["batch_id"] != "b-42" {
		t.Errorf("expected batch_id b-42, got %v", line["batch_id"])
	}
	if line["recipient"] != "ada@example.com" {
		t.Errorf("expected recipient ada@example.com, got %v", line["recipient"])
	}
}

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "warn"})

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected info line to be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("expected warn line to be written")
	}
}
