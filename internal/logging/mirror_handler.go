package logging

import (
	"context"
	"log/slog"
)

// mirrorHandler sends each record to a primary handler and, best-effort,
// to a mirror. The mirror exists for the per-session execute log: its
// write errors are deliberately dropped so a full disk under the session
// directory cannot fail an otherwise healthy run, while primary errors
// surface as usual. Each side keeps its own level, so the mirror can
// capture debug detail while the console stays at info.
type mirrorHandler struct {
	primary slog.Handler
	mirror  slog.Handler
}

func (h *mirrorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.mirror.Enabled(ctx, level)
}

func (h *mirrorHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.mirror.Enabled(ctx, record.Level) {
		_ = h.mirror.Handle(ctx, record.Clone())
	}
	if !h.primary.Enabled(ctx, record.Level) {
		return nil
	}
	return h.primary.Handle(ctx, record)
}

func (h *mirrorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &mirrorHandler{primary: h.primary.WithAttrs(attrs), mirror: h.mirror.WithAttrs(attrs)}
}

func (h *mirrorHandler) WithGroup(name string) slog.Handler {
	return &mirrorHandler{primary: h.primary.WithGroup(name), mirror: h.mirror.WithGroup(name)}
}

// TeeLogger mirrors base's records into an additional handler (typically
// a JSON handler over the session directory's execute.log). A nil mirror
// returns base unchanged; a nil base logs to the mirror alone.
func TeeLogger(base *slog.Logger, mirror slog.Handler) *slog.Logger {
	if mirror == nil {
		if base == nil {
			return NewNop()
		}
		return base
	}
	if base == nil {
		return slog.New(mirror)
	}
	return slog.New(&mirrorHandler{primary: base.Handler(), mirror: mirror})
}
