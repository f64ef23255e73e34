package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"organizer/internal/logging"
)

func TestCleanupOldLogsPrunesPastRetention(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "organizer-20250101.log")
	fresh := filepath.Join(dir, "organizer.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, fresh, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	stale := time.Now().AddDate(0, 0, -90)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(other, stale, stale); err != nil {
		t.Fatal(err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 60, dir, "*.log")

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("expected stale log to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("expected fresh log to survive")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("expected non-matching file to survive")
	}
}

func TestCleanupOldLogsZeroRetentionDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "organizer-old.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(path, stale, stale); err != nil {
		t.Fatal(err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 0, dir, "*.log")

	if _, err := os.Stat(path); err != nil {
		t.Fatal("retention 0 must not prune anything")
	}
}
