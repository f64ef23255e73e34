package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"organizer/internal/config"
	"organizer/internal/logging"
	"organizer/internal/services"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("startup message")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "organizer.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "startup message") {
		t.Fatalf("log file missing message, got %q", content)
	}
}

func TestConsoleOmitsSourceAtInfoLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no source location in info logs, got %q", content)
	}
}

func TestConsoleIncludesSourceAtDebugLevel(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected source location in debug logs, got %q", content)
	}
}

func TestJSONFormatEmitsParsableLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "organizer.json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", "item_id", "abc")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(content))
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	if record["msg"] != "json message" {
		t.Fatalf("msg = %v, want json message", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v, want info", record["level"])
	}
	if record["item_id"] != "abc" {
		t.Fatalf("item_id = %v, want abc", record["item_id"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	lg, err := logging.New(logging.Options{Format: "console", Level: "chatty", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if !lg.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level to remain enabled")
	}
	if lg.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := services.WithItemID(context.Background(), "item-123")
	ctx = services.WithStage(ctx, "execute")
	ctx = services.WithRequestID(ctx, "sess-xyz")

	var buf bytes.Buffer
	logger := logging.TeeLogger(nil, logging.NewJSONHandler(&buf, 0))

	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	if record[logging.FieldItemID] != "item-123" {
		t.Fatalf("item_id = %v, want item-123", record[logging.FieldItemID])
	}
	if record[logging.FieldStage] != "execute" {
		t.Fatalf("stage = %v, want execute", record[logging.FieldStage])
	}
	if record[logging.FieldCorrelationID] != "sess-xyz" {
		t.Fatalf("correlation_id = %v, want sess-xyz", record[logging.FieldCorrelationID])
	}
}
