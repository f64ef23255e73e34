package synth

import (
	"fmt"
	"strconv"
	"strings"

	"organizer/internal/media"
)

// TitleBracket renders the "[original][localized]" (or single-bracket,
// when the two titles collapse) segment shared by movie and TV-show
// directory names.
func TitleBracket(original, localized string) string {
	original, localized = sanitize(original), sanitize(localized)
	if titlesEqualOrSimplified(original, localized) {
		title := original
		if title == "" {
			title = localized
		}
		return fmt.Sprintf("[%s]", title)
	}
	return fmt.Sprintf("[%s][%s]", original, localized)
}

// IDSuffix renders the "-tt{imdb}-tmdb{id}" suffix shared by the movie and
// TV-show organized-directory markers.
func IDSuffix(ids media.ExternalIDs) string {
	imdb := ids.IMDbID
	if imdb == "" {
		imdb = "tt0000000"
	}
	return fmt.Sprintf("-%s-tmdb%d", imdb, ids.TMDBID)
}

// MovieDirName renders the movie directory name:
// "[original][localized]({year})-tt{imdb}-tmdb{id}".
func MovieDirName(record media.LookupRecord) string {
	return fmt.Sprintf("%s(%d)%s", TitleBracket(record.OriginalTitle, record.LocalizedTitle), record.Year, IDSuffix(media.ExternalIDs{TMDBID: record.TMDBID, IMDbID: record.IMDbID}))
}

// TVShowDirName renders the TV show directory name, same shape as the
// movie directory.
func TVShowDirName(show media.LookupRecord) string {
	return MovieDirName(show)
}

// SeasonDirName renders "Season {NN}", two-digit zero-padded.
func SeasonDirName(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// TechnicalTokens is the ordered set of "-{token}" segments appended to a
// synthesized filename; missing tokens are simply omitted.
type TechnicalTokens struct {
	Resolution   string
	Container    string
	VideoCodec   string
	BitDepth     int
	AudioCodec   string
	AudioChannel string
	DiscMarker   string
}

func (t TechnicalTokens) segments() []string {
	var segs []string
	if t.Resolution != "" {
		segs = append(segs, t.Resolution)
	}
	if t.Container != "" {
		segs = append(segs, t.Container)
	}
	if t.VideoCodec != "" {
		segs = append(segs, t.VideoCodec)
	}
	if t.BitDepth > 0 {
		segs = append(segs, strconv.Itoa(t.BitDepth)+"bit")
	}
	if t.AudioCodec != "" {
		segs = append(segs, t.AudioCodec)
	}
	if t.AudioChannel != "" {
		segs = append(segs, t.AudioChannel)
	}
	if t.DiscMarker != "" {
		segs = append(segs, t.DiscMarker)
	}
	return segs
}

// MovieFileName renders the movie file name,
// "[...]({year})-{tokens...}.{ext}", including the multi-disc suffix
// when the source carried one.
func MovieFileName(record media.LookupRecord, tokens TechnicalTokens, ext string) string {
	base := fmt.Sprintf("%s(%d)", TitleBracket(record.OriginalTitle, record.LocalizedTitle), record.Year)
	return appendTokens(base, tokens.segments(), ext)
}

// EpisodeFileName renders "[{show_title}]-S{NN}E{NNN}-[{episode_title}]-{tokens}.{ext}".
func EpisodeFileName(showTitle string, season, episode int, episodeTitle string, tokens TechnicalTokens, ext string) string {
	base := fmt.Sprintf("[%s]-S%02dE%03d-[%s]", sanitize(showTitle), season, episode, sanitize(episodeTitle))
	return appendTokens(base, tokens.segments(), ext)
}

func appendTokens(base string, segments []string, ext string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, seg := range segments {
		b.WriteByte('-')
		b.WriteString(seg)
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext != "" {
		b.WriteByte('.')
		b.WriteString(ext)
	}
	return b.String()
}

// TokensFromProbe builds TechnicalTokens from a merged ProbeMetadata plus
// the filename-parsed disc/part marker supplement.
func TokensFromProbe(probe media.ProbeMetadata, discMarker string) TechnicalTokens {
	return TechnicalTokens{
		Resolution:   probe.Resolution,
		Container:    probe.Container,
		VideoCodec:   probe.VideoCodec,
		BitDepth:     probe.BitDepth,
		AudioCodec:   probe.AudioCodec,
		AudioChannel: probe.AudioChannel,
		DiscMarker:   strings.ToLower(discMarker),
	}
}
