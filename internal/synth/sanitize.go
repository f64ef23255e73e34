package synth

import (
	"strings"

	"organizer/internal/textnorm"
)

// illegalPathChars are characters unsafe in a path component on common
// target filesystems (NTFS via SMB shares being the tightest constraint
// media libraries run against).
const illegalPathChars = `/\:*?"<>|`

// sanitize strips characters that cannot appear in a single path
// component and collapses surrounding whitespace, preserving the rest of
// the string (including CJK) untouched.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(illegalPathChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// titlesEqualOrSimplified reports whether two titles should collapse into
// a single bracketed segment: identical, or differing only
// by script simplification (one is empty, or both normalize to the same
// folded form).
func titlesEqualOrSimplified(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return textnorm.Fold(a) == textnorm.Fold(b)
}
