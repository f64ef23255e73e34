package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOldLogs prunes files under dir matching pattern whose mtime is
// older than retentionDays. Zero or negative retention disables pruning.
// The active log file keeps a fresh mtime through appends, so it never
// falls past the cutoff. Failures are logged and skipped, not returned:
// retention runs opportunistically at startup and must not block a run.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, dir, pattern string) {
	if retentionDays <= 0 {
		return
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	if logger == nil {
		logger = NewNop()
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern != "" {
			matched, err := filepath.Match(pattern, entry.Name())
			if err != nil || !matched {
				continue
			}
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warn("log retention remove failed; file remains",
				String("path", path), Error(err))
			continue
		}
		logger.Debug("old log pruned", String("path", path))
	}
}
