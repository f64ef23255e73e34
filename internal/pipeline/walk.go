package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"organizer/internal/media"
)

// videoExtensions are the containers the walker treats as organizable
// source files. Subtitles are not walked as sources; they attach to
// their sibling video via AttachSubtitles. Anything else under the tree
// (artwork, checksums) is ignored rather than misclassified as a sample.
var videoExtensions = map[string]bool{
	"mp4": true, "mkv": true, "avi": true, "mov": true, "wmv": true,
	"m4v": true, "ts": true, "m2ts": true, "flv": true, "webm": true,
}

// Walk discovers every video file under root, classifying samples and
// extras along the way. It does not skip already-
// organized files; re-planning an organized tree is handled by the
// Planner's idempotency, not by the walker.
func Walk(root string, now time.Time) ([]media.VideoFile, error) {
	var files []media.VideoFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := extNoDot(d.Name())
		if !videoExtensions[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, media.NewVideoFile(path, info.Size(), info.ModTime()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func extNoDot(name string) string {
	ext := filepath.Ext(name)
	if len(ext) <= 1 {
		return ""
	}
	lower := ext[1:]
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'A' && c <= 'Z' {
			lower = toLowerASCII(lower)
			break
		}
	}
	return lower
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
