package media

import (
	"path/filepath"
	"strings"
	"time"
)

// sampleMarker and the extras family are matched case-insensitively
// against a file's own name and every ancestor directory segment.
const sampleMarker = "sample"

var extrasNames = map[string]struct{}{
	"extras": {}, "extra": {},
	"featurettes": {}, "featurette": {},
	"behind the scenes": {}, "behindthescenes": {},
	"deleted scenes": {}, "deletedscenes": {},
	"making of": {}, "makingof": {},
	"bonus": {}, "bonuses": {},
	"special features": {}, "specialfeatures": {},
}

var extrasSuffixes = []string{".extras", "-extras", "_extras", ".featurette", "-featurette"}

// VideoFile is a single source file discovered under the input tree.
type VideoFile struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
	IsSample   bool
	IsExtra    bool
}

// NewVideoFile inspects path and its ancestry to classify it.
func NewVideoFile(path string, size int64, modifiedAt time.Time) VideoFile {
	return VideoFile{
		Path:       path,
		Size:       size,
		ModifiedAt: modifiedAt,
		IsSample:   pathMatchesSample(path),
		IsExtra:    pathIsExtra(path),
	}
}

// Filename returns the base name of the file, including extension.
func (v VideoFile) Filename() string {
	return filepath.Base(v.Path)
}

// Ext returns the lowercased extension, without the leading dot.
func (v VideoFile) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(v.Path), "."))
}

// ParentDir returns the immediate containing directory.
func (v VideoFile) ParentDir() string {
	return filepath.Dir(v.Path)
}

// Skippable reports whether the file should never be organized (sample or extra).
func (v VideoFile) Skippable() bool {
	return v.IsSample || v.IsExtra
}

func pathMatchesSample(path string) bool {
	for _, seg := range pathSegments(path) {
		if strings.Contains(strings.ToLower(seg), sampleMarker) {
			return true
		}
	}
	return false
}

func pathIsExtra(path string) bool {
	for _, seg := range pathSegments(path) {
		lower := strings.ToLower(seg)
		if _, ok := extrasNames[lower]; ok {
			return true
		}
		for _, suffix := range extrasSuffixes {
			if strings.Contains(lower, suffix) {
				return true
			}
		}
	}
	return false
}

func pathSegments(path string) []string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	return strings.Split(cleaned, "/")
}
