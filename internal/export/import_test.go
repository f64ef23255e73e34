package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"organizer/internal/config"
	"organizer/internal/index"
)

func exportArchive(t *testing.T, cfg *config.Config, opts Options) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Export(cfg, opts, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	return buf.Bytes()
}

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.zip")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestImportDryRunDoesNotMutate(t *testing.T) {
	source := testConfig(t)
	seedDisk(t, source, "M01", 400)
	data := exportArchive(t, source, Options{Only: SectionIndexes})

	dest := testConfig(t)
	path := writeArchive(t, data)

	result, err := ImportFile(dest, path, ImportOptions{Mode: ModeDryRun})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(result.DiskLabelsAdded) != 1 || result.DiskLabelsAdded[0] != "M01" {
		t.Fatalf("expected dry-run to report M01 as added, got %v", result.DiskLabelsAdded)
	}

	store := index.NewStore(dest)
	labels, err := store.ListDiskLabels()
	if err != nil {
		t.Fatalf("ListDiskLabels: %v", err)
	}
	if len(labels) != 0 {
		t.Fatal("dry-run must not write any disk index to the destination")
	}
}

func TestImportMergeUnionsDiskIndexesWithoutCollision(t *testing.T) {
	source := testConfig(t)
	seedDisk(t, source, "M01", 400)
	data := exportArchive(t, source, Options{Only: SectionIndexes})

	dest := testConfig(t)
	seedDisk(t, dest, "M02", 50)
	path := writeArchive(t, data)

	result, err := ImportFile(dest, path, ImportOptions{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(result.DiskLabelsAdded) != 1 || result.DiskLabelsAdded[0] != "M01" {
		t.Fatalf("expected M01 added, got %v", result.DiskLabelsAdded)
	}

	store := index.NewStore(dest)
	central, err := store.LoadCentral()
	if err != nil {
		t.Fatalf("LoadCentral: %v", err)
	}
	if len(central.Entries) != 450 {
		t.Fatalf("expected 450 merged movies (400+50), got %d", len(central.Entries))
	}

	seen := make(map[string]bool)
	for _, e := range central.Entries {
		if seen[e.ID] {
			t.Fatalf("duplicate entry id %q after merge", e.ID)
		}
		seen[e.ID] = true
	}
	if len(central.Disks) != 2 {
		t.Fatalf("expected both disk labels in the rebuilt central index, got %v", central.Disks)
	}
}

func TestImportMergeKeepsNewerDiskOnLabelConflict(t *testing.T) {
	older := time.Now().Add(-24 * time.Hour)
	newer := time.Now()

	source := testConfig(t)
	seedDiskAt(t, source, "M01", 5, newer)
	data := exportArchive(t, source, Options{Only: SectionIndexes})

	dest := testConfig(t)
	seedDiskAt(t, dest, "M01", 1, older)
	path := writeArchive(t, data)

	if _, err := ImportFile(dest, path, ImportOptions{Mode: ModeMerge}); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	store := index.NewStore(dest)
	disk, err := store.LoadDisk("M01")
	if err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	if len(disk.Entries) != 5 {
		t.Fatalf("expected the newer (5-entry) M01 scan to win, got %d entries", len(disk.Entries))
	}
}

func TestImportForceOverwritesConfigButPreservesSecrets(t *testing.T) {
	source := testConfig(t)
	data := exportArchive(t, source, Options{Only: SectionConfig})

	dest := testConfig(t)
	dest.TMDB.APIKey = "destination-key"
	path := writeArchive(t, data)

	if _, err := ImportFile(dest, path, ImportOptions{Mode: ModeForce}); err != nil {
		t.Fatalf("ImportFile: %v", err)
	}

	written, err := os.ReadFile(filepath.Join(dest.Paths.ConfigDir, "config.toml"))
	if err != nil {
		t.Fatalf("read imported config: %v", err)
	}
	if !bytes.Contains(written, []byte("destination-key")) {
		t.Fatal("a redacted import must not wipe the destination's existing TMDB credentials")
	}
}

func TestImportSessionsAppendsWithoutOverwriting(t *testing.T) {
	source := testConfig(t)
	sessionDir := filepath.Join(source.SessionsDir(), "20260101_120000_abc")
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		t.Fatalf("mkdir session dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sessionDir, "plan.json"), []byte(`{"version":"1.0"}`), 0o644); err != nil {
		t.Fatalf("write plan.json: %v", err)
	}
	data := exportArchive(t, source, Options{Only: SectionSessions})

	dest := testConfig(t)
	existingSession := filepath.Join(dest.SessionsDir(), "20251231_000000_xyz")
	if err := os.MkdirAll(existingSession, 0o755); err != nil {
		t.Fatalf("mkdir existing session: %v", err)
	}
	if err := os.WriteFile(filepath.Join(existingSession, "plan.json"), []byte(`{"version":"0.9"}`), 0o644); err != nil {
		t.Fatalf("seed existing session: %v", err)
	}
	path := writeArchive(t, data)

	result, err := ImportFile(dest, path, ImportOptions{Mode: ModeMerge})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.SessionsAdded != 1 {
		t.Fatalf("expected 1 session added, got %d", result.SessionsAdded)
	}

	existingData, err := os.ReadFile(filepath.Join(existingSession, "plan.json"))
	if err != nil {
		t.Fatalf("read existing session: %v", err)
	}
	if !bytes.Contains(existingData, []byte("0.9")) {
		t.Fatal("an existing session must never be overwritten by import")
	}
	if _, err := os.Stat(filepath.Join(dest.SessionsDir(), "20260101_120000_abc", "plan.json")); err != nil {
		t.Fatalf("expected imported session to be appended: %v", err)
	}
}

func TestBackupFirstCopiesConfigTreeBeforeMutating(t *testing.T) {
	source := testConfig(t)
	data := exportArchive(t, source, Options{Only: SectionConfig})

	dest := testConfig(t)
	marker := filepath.Join(dest.Paths.ConfigDir, "marker.txt")
	if err := os.WriteFile(marker, []byte("pre-import"), 0o644); err != nil {
		t.Fatalf("seed marker file: %v", err)
	}
	path := writeArchive(t, data)

	result, err := ImportFile(dest, path, ImportOptions{Mode: ModeForce, BackupFirst: true})
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.BackupPath == "" {
		t.Fatal("expected a non-empty backup path")
	}
	backed, err := os.ReadFile(filepath.Join(result.BackupPath, "marker.txt"))
	if err != nil {
		t.Fatalf("read backed-up marker: %v", err)
	}
	if string(backed) != "pre-import" {
		t.Fatalf("backup must preserve pre-import content, got %q", backed)
	}
}
