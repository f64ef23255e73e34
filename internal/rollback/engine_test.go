package rollback

import (
	"os"
	"path/filepath"
	"testing"

	"organizer/internal/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestApplyMoveRestoresFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "original.mkv")
	dst := filepath.Join(dir, "organized.mkv")
	writeFile(t, dst, "payload")
	sum, err := fsutil.SHA256File(dst)
	if err != nil {
		t.Fatal(err)
	}

	doc := &Doc{Operations: []Operation{Move(1, src, dst, sum)}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Restored != 1 {
		t.Fatalf("expected 1 restored, got %+v", report)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("expected restored file at %s: %v", src, err)
	}
}

func TestApplyMoveConflictsWhenOriginalOccupied(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "original.mkv")
	dst := filepath.Join(dir, "organized.mkv")
	writeFile(t, src, "someone else's file")
	writeFile(t, dst, "payload")
	sum, _ := fsutil.SHA256File(dst)

	doc := &Doc{Operations: []Operation{Move(1, src, dst, sum)}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Conflicted != 1 {
		t.Fatalf("expected 1 conflicted, got %+v", report)
	}
}

func TestApplyMoveMissingWhenDestGone(t *testing.T) {
	dir := t.TempDir()
	doc := &Doc{Operations: []Operation{Move(1, filepath.Join(dir, "a"), filepath.Join(dir, "b"), "deadbeef")}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Missing != 1 {
		t.Fatalf("expected 1 missing, got %+v", report)
	}
}

func TestApplyReversesInDescendingSeqOrder(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "Show", "Season 01")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	video := filepath.Join(nested, "ep.mkv")
	writeFile(t, video, "payload")
	sum, _ := fsutil.SHA256File(video)
	src := filepath.Join(dir, "ep.mkv")

	doc := &Doc{Operations: []Operation{
		Rmdir(1, filepath.Join(dir, "Show")),
		Rmdir(2, nested),
		Move(3, src, video, sum),
	}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Restored != 3 {
		t.Fatalf("expected all 3 steps restored in reverse order, got %+v", report)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected top directory %s to survive (not part of plan): %v", dir, err)
	}
}

func TestApplyDeleteIfUnchangedSkipsModifiedFile(t *testing.T) {
	dir := t.TempDir()
	nfo := filepath.Join(dir, "movie.nfo")
	writeFile(t, nfo, "<movie/>")
	sum, _ := fsutil.SHA256File(nfo)
	writeFile(t, nfo, "<movie>edited by user</movie>")

	doc := &Doc{Operations: []Operation{DeleteIfUnchanged(1, "write_file", nfo, sum)}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if report.Conflicted != 1 {
		t.Fatalf("expected modified NFO to be conflicted, not deleted, got %+v", report)
	}
	if _, err := os.Stat(nfo); err != nil {
		t.Fatal("expected edited NFO to survive rollback")
	}
}

func TestApplySkipsAlreadyExecutedSteps(t *testing.T) {
	doc := &Doc{Operations: []Operation{{Seq: 1, Kind: KindRmdir, From: "/nonexistent", Executed: true}}}
	report, err := Apply(doc, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(report.Steps) != 0 {
		t.Fatalf("expected already-executed step to be skipped entirely, got %+v", report.Steps)
	}
}
