package logging

import "log/slog"

// FieldSessionID is the structured-log key for the plan/execute session id.
const FieldSessionID = "session_id"

// WithSessionID returns a logger whose records carry the session id, so a
// session's lines can be pulled out of a shared log file. slog propagates
// With-attributes to every derived logger, which is all the stamping a
// single-binary CLI needs; an empty id returns the logger unchanged.
func WithSessionID(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if sessionID == "" {
		return logger
	}
	return logger.With(String(FieldSessionID, sessionID))
}
