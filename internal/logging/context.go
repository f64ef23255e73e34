package logging

import (
	"context"
	"log/slog"

	"organizer/internal/services"
)

// Standardized structured-log keys. Planning and execution code stamps
// identifiers through context (services.WithItemID and friends) so every
// log line for a plan item carries the same keys regardless of which
// component emitted it.
const (
	// FieldComponent names the emitting component (parser, tmdb, executor, ...).
	FieldComponent = "component"
	// FieldItemID carries the plan item identifier.
	FieldItemID = "item_id"
	// FieldStage carries the pipeline stage (resolve, execute, rollback, scan).
	FieldStage = "stage"
	// FieldCorrelationID carries the plan or session id tying a run's lines together.
	FieldCorrelationID = "correlation_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// WithContext returns a logger carrying whichever of the item id, stage,
// and correlation id are present in ctx. Call sites in the executor and
// pipeline derive their logger this way once per item instead of
// repeating the identifiers on every line.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	args := make([]any, 0, 6)
	if id, ok := services.ItemIDFromContext(ctx); ok {
		args = append(args, FieldItemID, id)
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		args = append(args, FieldStage, stage)
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		args = append(args, FieldCorrelationID, rid)
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
