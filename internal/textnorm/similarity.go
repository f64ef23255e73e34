package textnorm

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Similarity scores how alike two titles are after folding, in [0,1].
// It combines an exact-fold match (1.0), a substring relationship (0.9),
// and otherwise Levenshtein-based ratio via fuzzysearch, normalized by
// the longer folded length. Returns 0 if either title is empty.
func Similarity(a, b string) float64 {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1.0
	}
	if strings.Contains(fa, fb) || strings.Contains(fb, fa) {
		return 0.9
	}
	rank := fuzzy.RankMatchNormalizedFold(fa, fb)
	if rank < 0 {
		rank = fuzzy.RankMatchNormalizedFold(fb, fa)
	}
	if rank < 0 {
		return 0
	}
	longer := len(fa)
	if len(fb) > longer {
		longer = len(fb)
	}
	if longer == 0 {
		return 0
	}
	sim := 1 - float64(rank)/float64(longer)
	if sim < 0 {
		sim = 0
	}
	return sim
}
