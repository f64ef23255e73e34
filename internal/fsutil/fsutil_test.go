package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"organizer/internal/services"
)

func TestCopyFileVerifiedMatchesSourceHash(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	dst := filepath.Join(dir, "dst.bin")

	digest, err := CopyFileVerified(src, dst)
	if err != nil {
		t.Fatalf("CopyFileVerified failed: %v", err)
	}
	want, err := SHA256File(src)
	if err != nil {
		t.Fatalf("SHA256File failed: %v", err)
	}
	if digest != want {
		t.Fatalf("digest mismatch: got %s want %s", digest, want)
	}
}

func TestMoveRenameWithinSameDevice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	dst := filepath.Join(dir, "nested", "dst.bin")

	result, err := Move(src, dst, "")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.CrossDevice {
		t.Fatal("expected same-device rename, not cross-device copy")
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected source to be gone after move")
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination to exist: %v", err)
	}
}

func TestMoveRejectsChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	dst := filepath.Join(dir, "dst.bin")

	_, err := Move(src, dst, "0000000000000000000000000000000000000000000000000000000000000000")
	if !errors.Is(err, services.ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}

	// The source must survive a failed move, and the final mismatched
	// copy is left at the destination for inspection.
	content, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("source lost after failed move: %v", err)
	}
	if string(content) != "payload" {
		t.Fatalf("source content changed after failed move: %q", content)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Fatalf("expected destination left in place after second mismatch: %v", err)
	}
}

func TestEnsureDirectoryReportsCreation(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b")

	created, err := EnsureDirectory(target)
	if err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}
	if !created {
		t.Fatal("expected directory to be reported as created")
	}

	created, err = EnsureDirectory(target)
	if err != nil {
		t.Fatalf("EnsureDirectory failed on second call: %v", err)
	}
	if created {
		t.Fatal("expected second call to report no creation")
	}
}

func TestRemoveIfEmptyDirRejectsNonEmpty(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "occupied")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(target, "file"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := RemoveIfEmptyDir(target); err == nil {
		t.Fatal("expected error removing non-empty directory")
	}
}
