package synth

import (
	"fmt"
	"path"
	"strings"
)

// maxPosters caps how many poster URLs are taken from a lookup record,
// highest resolution first.
const maxPosters = 3

// PosterTargets maps up to maxPosters poster URLs to their relative
// filename within the item's target directory: "poster.jpg" for the
// first, "poster-N{ext}" for the rest. TMDB URLs are already requested at
// "original" size (internal/tmdb.posterURL), so the ordering from the
// lookup response is already highest-resolution-first.
func PosterTargets(urls []string) map[string]string {
	targets := make(map[string]string, maxPosters)
	for i, u := range urls {
		if i >= maxPosters {
			break
		}
		ext := posterExt(u)
		if i == 0 {
			targets[u] = "poster" + ext
			continue
		}
		targets[u] = fmt.Sprintf("poster-%d%s", i+1, ext)
	}
	return targets
}

func posterExt(url string) string {
	ext := strings.ToLower(path.Ext(url))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
