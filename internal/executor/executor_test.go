package executor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"organizer/internal/media"
	"organizer/internal/planner"
	"organizer/internal/rollback"
	"organizer/internal/synth"
)

type fakeDownloader struct {
	payload []byte
}

func (f fakeDownloader) Download(ctx context.Context, url, path string) (string, int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, err
	}
	if err := os.WriteFile(path, f.payload, 0o644); err != nil {
		return "", 0, err
	}
	return "posterhash", int64(len(f.payload)), nil
}

type recordingWriter struct {
	docs []rollback.Doc
}

func (w *recordingWriter) Write(doc rollback.Doc) error {
	w.docs = append(w.docs, doc)
	return nil
}

func TestExecuteCommitsReadyItem(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	video := filepath.Join(src, "avatar.mkv")
	if err := os.WriteFile(video, []byte("source bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	record := media.LookupRecord{TMDBID: 19995, IMDbID: "tt0499549", OriginalTitle: "Avatar", LocalizedTitle: "Avatar", Year: 2009, OriginCountry: "US", PosterURLs: []string{"https://img/a.jpg"}}
	synthTarget := synth.Movie(target, record, media.ProbeMetadata{Resolution: "2160p"}, "", "mkv")

	info, err := os.Stat(video)
	if err != nil {
		t.Fatal(err)
	}
	resolution := planner.FileResolution{
		Source:  media.NewVideoFile(video, info.Size(), info.ModTime()),
		Record:  record,
		Quality: media.MatchExact,
		Matched: true,
		Target:  synthTarget,
	}

	b := planner.New(nil, nil)
	plan, err := b.Build(media.KindMovie, src, target, []planner.FileResolution{resolution})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(plan.Items) != 1 {
		t.Fatalf("expected 1 ready item, got %d", len(plan.Items))
	}

	writer := &recordingWriter{}
	exec := New(fakeDownloader{payload: bytes.Repeat([]byte("p"), 2048)}, writer, 2)
	results := exec.Execute(context.Background(), plan)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].State != StateCommitted {
		t.Fatalf("expected committed, got %v (%v)", results[0].State, results[0].Err)
	}
	if _, err := os.Stat(synthTarget.FilePath); err != nil {
		t.Fatalf("expected video at target: %v", err)
	}
	if _, err := os.Stat(synthTarget.NFOPath); err != nil {
		t.Fatalf("expected nfo at target: %v", err)
	}
	if len(writer.docs) == 0 {
		t.Fatal("expected incremental rollback doc writes")
	}
	last := writer.docs[len(writer.docs)-1]
	if len(last.Operations) != len(results[0].Reverse.Operations) {
		t.Fatalf("expected final persisted doc to match returned reverse doc")
	}
}

func TestDryRunDetectsForeignTargetCollision(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	video := filepath.Join(src, "avatar.mkv")
	if err := os.WriteFile(video, []byte("source bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	record := media.LookupRecord{TMDBID: 1, IMDbID: "tt0000001", OriginalTitle: "X", LocalizedTitle: "X", Year: 2000}
	synthTarget := synth.Movie(target, record, media.ProbeMetadata{}, "", "mkv")

	info, _ := os.Stat(video)
	resolution := planner.FileResolution{
		Source:  media.NewVideoFile(video, info.Size(), info.ModTime()),
		Record:  record,
		Matched: true,
		Target:  synthTarget,
	}
	b := planner.New(nil, nil)
	plan, err := b.Build(media.KindMovie, src, target, []planner.FileResolution{resolution})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Simulate a file appearing at the planned NFO path between planning
	// and dry-run (a TOCTOU scenario dry-run exists to catch).
	if err := os.MkdirAll(filepath.Dir(synthTarget.NFOPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(synthTarget.NFOPath, []byte("unexpected"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := DryRun(plan)
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if len(report.Collisions) == 0 {
		t.Fatal("expected dry run to detect the foreign file at the NFO target")
	}
	if report.OK() {
		t.Fatal("expected report.OK() to be false when collisions are present")
	}
}
