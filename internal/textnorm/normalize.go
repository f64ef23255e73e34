package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize applies NFKC normalization and folds full-width/half-width CJK
// variants to their canonical form, then lowercases and collapses
// whitespace. It does not strip punctuation; use Fold for that.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	return collapseSpace(s)
}

// Fold is Normalize plus punctuation stripping, for use as a comparison
// key when two titles should be considered equal modulo punctuation and
// spacing (e.g. "Spider-Man: Homecoming" vs "Spider Man Homecoming").
func Fold(s string) string {
	normalized := Normalize(s)
	var b strings.Builder
	b.Grow(len(normalized))
	prevSpace := false
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace && b.Len() > 0 {
				b.WriteByte(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ContainsCJK reports whether s contains at least one CJK-range code point.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// IsPredominantlyLatin reports whether s has at least one latin-script
// letter and no fewer latin-script than CJK-script letters. Used by the parser's CJK-parent augmentation to decide
// whether a filename needs an ancestor's CJK title for AI context.
func IsPredominantlyLatin(s string) bool {
	var latin, cjk int
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
			cjk++
		case unicode.IsLetter(r):
			latin++
		}
	}
	return latin > 0 && latin >= cjk
}
