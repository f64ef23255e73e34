package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"organizer/internal/logging"
)

// erroringHandler stands in for a mirror whose writes fail (full disk
// under the session directory).
type erroringHandler struct{}

func (erroringHandler) Enabled(context.Context, slog.Level) bool { return true }

func (erroringHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func (erroringHandler) WithAttrs([]slog.Attr) slog.Handler { return erroringHandler{} }

func (erroringHandler) WithGroup(string) slog.Handler { return erroringHandler{} }

func TestTeeLoggerMirrorsRecords(t *testing.T) {
	var console, mirror bytes.Buffer
	base := slog.New(logging.NewJSONHandler(&console, slog.LevelInfo))
	logger := logging.TeeLogger(base, logging.NewJSONHandler(&mirror, slog.LevelInfo))

	logger.Info("applying item")

	if !strings.Contains(console.String(), "applying item") {
		t.Fatalf("primary handler missing record: %q", console.String())
	}
	if !strings.Contains(mirror.String(), "applying item") {
		t.Fatalf("mirror handler missing record: %q", mirror.String())
	}
}

func TestTeeLoggerMirrorKeepsOwnLevel(t *testing.T) {
	var console, mirror bytes.Buffer
	base := slog.New(logging.NewJSONHandler(&console, slog.LevelInfo))
	logger := logging.TeeLogger(base, logging.NewJSONHandler(&mirror, slog.LevelDebug))

	logger.Debug("checksum detail")
	logger.Info("item committed")

	if strings.Contains(console.String(), "checksum detail") {
		t.Fatal("info-level console must not show debug lines")
	}
	if !strings.Contains(mirror.String(), "checksum detail") {
		t.Fatal("debug-level mirror should capture debug lines")
	}
	if !strings.Contains(mirror.String(), "item committed") {
		t.Fatal("mirror should capture info lines too")
	}
}

func TestTeeLoggerMirrorFailureDoesNotSurface(t *testing.T) {
	var console bytes.Buffer
	base := slog.New(logging.NewJSONHandler(&console, slog.LevelInfo))
	logger := logging.TeeLogger(base, erroringHandler{})

	logger.Info("still fine")

	if !strings.Contains(console.String(), "still fine") {
		t.Fatal("primary output must survive a failing mirror")
	}
}

func TestTeeLoggerNilMirrorReturnsBase(t *testing.T) {
	var console bytes.Buffer
	base := slog.New(logging.NewJSONHandler(&console, slog.LevelInfo))

	if got := logging.TeeLogger(base, nil); got != base {
		t.Fatal("nil mirror should return the base logger unchanged")
	}
}
