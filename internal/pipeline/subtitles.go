package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"organizer/internal/planner"
)

// subtitleExtensions are the sidecar formats that travel with a video
// when it is organized.
var subtitleExtensions = map[string]bool{
	"srt": true, "ass": true, "ssa": true, "sub": true,
	"idx": true, "vtt": true, "sup": true, "smi": true,
}

// subtitleDirNames are the folder names treated as subtitle containers
// when they sit next to a video.
var subtitleDirNames = map[string]bool{
	"sub": true, "subs": true, "subtitle": true, "subtitles": true, "字幕": true,
}

// AttachSubtitles discovers the subtitle material next to each matched
// resolution's video — loose subtitle-extension files and the contents of
// sibling subtitle folders — and attaches it to exactly one resolution
// per source directory (the first matched video), so multi-disc rips and
// episode batches sharing a directory never claim the same subtitle
// target twice.
func AttachSubtitles(resolutions []planner.FileResolution) {
	claimed := make(map[string]bool)
	for i := range resolutions {
		r := &resolutions[i]
		if !r.Matched || r.Source.Skippable() {
			continue
		}
		dir := filepath.Dir(r.Source.Path)
		if claimed[dir] {
			continue
		}
		claimed[dir] = true
		r.Subtitles = siblingSubtitles(dir)
	}
}

// siblingSubtitles lists subtitle files directly in dir plus those found
// recursively under its subtitle-named subfolders, sorted so plans come
// out deterministic.
func siblingSubtitles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var subs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			if !subtitleDirNames[strings.ToLower(name)] {
				continue
			}
			_ = filepath.WalkDir(filepath.Join(dir, name), func(path string, d fs.DirEntry, walkErr error) error {
				if walkErr != nil || d.IsDir() {
					return nil
				}
				if subtitleExtensions[extNoDot(d.Name())] {
					subs = append(subs, path)
				}
				return nil
			})
			continue
		}
		if subtitleExtensions[extNoDot(name)] {
			subs = append(subs, filepath.Join(dir, name))
		}
	}
	sort.Strings(subs)
	return subs
}
