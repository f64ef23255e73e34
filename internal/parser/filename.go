package parser

import (
	"strings"
	"time"
	"unicode"

	"organizer/internal/media"
)

// FilenameInfo is everything the parser extracts from a filename alone, without
// looking at any ancestor directory.
type FilenameInfo struct {
	TitleCJK   string
	TitleLatin string
	Year       int
	Season     int
	Episode    int
	HasSeasonEpisode bool

	Probe media.ProbeMetadata
	Edition     string
	DiscMarker  string

	// Minimal reports whether the filename alone carries at most
	// minimalCodePointLimit (two) alphanumeric code points of useful title
	// content.
	Minimal bool

	IsOrganizedTVEpisodeMarker bool
}

// ParseFilename tokenizes a bare filename (base name, extension included).
// withinSeasonDir and seasonFromDir let the caller (ParsePath) supply
// season context so a bare "01.mp4" resolves to an episode number rather
// than a year or nothing.
func ParseFilename(name string, withinSeasonDir bool, seasonFromDir int, now time.Time) FilenameInfo {
	ext := extOf(name)
	stem := strings.TrimSuffix(name, ext)

	info := FilenameInfo{
		IsOrganizedTVEpisodeMarker: media.IsOrganizedTVEpisodeMarker(name),
	}

	info.Edition = editionMarker(stem)
	info.DiscMarker = discMarker(stem)
	info.Probe.Container = strings.ToLower(strings.TrimPrefix(ext, "."))
	info.Probe.Resolution = firstMatch(resolutionRE, stem)
	info.Probe.VideoCodec = firstMatch(codecRE, stem)
	info.Probe.BitDepth = bitDepthValue(stem)
	info.Probe.AudioCodec = firstMatch(audioCodecRE, stem)
	info.Probe.AudioChannel = firstMatch(channelsRE, stem)

	if season, episode, ok := seasonEpisode(stem, withinSeasonDir, seasonFromDir); ok {
		info.Season = season
		info.Episode = episode
		info.HasSeasonEpisode = true
	}

	if y, ok := year(stem, now); ok {
		info.Year = y
	}

	title := stripTechnicalTokens(stem)
	info.TitleCJK, info.TitleLatin = splitScripts(title)
	info.Minimal = isMinimal(title)

	return info
}

func extOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return name[idx:]
}

// stripTechnicalTokens removes bracket/paren groups, season/episode,
// year, resolution, codec, bitdepth, audio, edition, and disc-marker
// tokens, replacing separators with spaces, leaving a residual title
// string.
func stripTechnicalTokens(stem string) string {
	s := bracketGroupRE.ReplaceAllString(stem, " ")
	s = seasonEpisodeRE.ReplaceAllString(s, " ")
	s = episodeWordRE.ReplaceAllString(s, " ")
	s = resolutionRE.ReplaceAllString(s, " ")
	s = codecRE.ReplaceAllString(s, " ")
	s = bitDepthRE.ReplaceAllString(s, " ")
	s = audioCodecRE.ReplaceAllString(s, " ")
	s = channelsRE.ReplaceAllString(s, " ")
	s = editionRE.ReplaceAllString(s, " ")
	s = discPartRE.ReplaceAllString(s, " ")
	s = yearDigitsRE.ReplaceAllString(s, " ")

	var b strings.Builder
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
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

// splitScripts partitions a cleaned title string into its CJK and Latin
// runs, since a single filename may carry both (e.g. "NIGEHAJI" next to
// its CJK title).
func splitScripts(title string) (cjk, latin string) {
	var cjkBuilder, latinBuilder strings.Builder
	prevCJKSpace, prevLatinSpace := true, true
	for _, r := range title {
		switch {
		case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
			cjkBuilder.WriteRune(r)
			prevCJKSpace = false
			if !prevLatinSpace {
				latinBuilder.WriteByte(' ')
				prevLatinSpace = true
			}
		case r == ' ':
			if !prevCJKSpace {
				cjkBuilder.WriteByte(' ')
				prevCJKSpace = true
			}
			if !prevLatinSpace {
				latinBuilder.WriteByte(' ')
				prevLatinSpace = true
			}
		default:
			latinBuilder.WriteRune(r)
			prevLatinSpace = false
			if !prevCJKSpace {
				cjkBuilder.WriteByte(' ')
				prevCJKSpace = true
			}
		}
	}
	return strings.TrimSpace(cjkBuilder.String()), strings.TrimSpace(latinBuilder.String())
}

// minimalCodePointLimit is the count of alphanumeric code points at or
// below which a residual title is "minimal". The worked
// examples ("01", "2024 SP" leaving residual "SP") require a limit of 2
// surviving code points, not the stricter "fewer than 2" the prose
// suggests literally.
const minimalCodePointLimit = 2

// isMinimal reports whether title carries at most minimalCodePointLimit
// alphanumeric code points of useful content ("01", "2024 SP").
func isMinimal(title string) bool {
	count := 0
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			count++
			if count > minimalCodePointLimit {
				return false
			}
		}
	}
	return true
}
