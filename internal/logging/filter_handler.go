package logging

import (
	"context"
	"log/slog"
)

// filterHandler drops records a keep predicate rejects before they reach
// the wrapped handler. The predicate sees only the level: that is the
// one axis the organizer filters on (the --quiet flag), and keeping the
// predicate this narrow means derived loggers (With/WithGroup) can share
// it without re-wrapping.
type filterHandler struct {
	next slog.Handler
	keep func(slog.Level) bool
}

func (h *filterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.keep(level) && h.next.Enabled(ctx, level)
}

func (h *filterHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.keep(record.Level) {
		return nil
	}
	return h.next.Handle(ctx, record)
}

func (h *filterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &filterHandler{next: h.next.WithAttrs(attrs), keep: h.keep}
}

func (h *filterHandler) WithGroup(name string) slog.Handler {
	return &filterHandler{next: h.next.WithGroup(name), keep: h.keep}
}

// WithLevelOverride returns a logger that drops records below level while
// keeping the underlying handler and its attributes intact. Wrapping an
// already-filtered logger replaces the old floor instead of stacking a
// second one.
func WithLevelOverride(logger *slog.Logger, level slog.Level) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	next := logger.Handler()
	if filtered, ok := next.(*filterHandler); ok {
		next = filtered.next
	}
	return slog.New(&filterHandler{
		next: next,
		keep: func(l slog.Level) bool { return l >= level },
	})
}
