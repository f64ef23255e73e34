package synth

import (
	"strings"
	"testing"
	"time"

	"organizer/internal/media"
	"organizer/internal/parser"
)

var parserFixedNow = time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

func TestMovieDirNameRoundTripsIDs(t *testing.T) {
	record := media.LookupRecord{TMDBID: 19995, IMDbID: "tt0499549", OriginalTitle: "Avatar", LocalizedTitle: "Avatar", Year: 2009, OriginCountry: "US"}
	target := Movie("/lib/Movies", record, media.ProbeMetadata{Resolution: "2160p", Container: "mkv", VideoCodec: "hevc", BitDepth: 10, AudioCodec: "truehd", AudioChannel: "7.1"}, "", "mkv")

	if !strings.Contains(target.Dir, "US_UnitedStates") {
		t.Fatalf("expected country segment in dir, got %q", target.Dir)
	}
	if !strings.Contains(target.Dir, "tt0499549-tmdb19995") {
		t.Fatalf("expected id suffix in dir, got %q", target.Dir)
	}

	// Parser round-trip: the synthesized directory name, fed back through
	// the Name/Path Parser's organized-marker recognizer, must yield the
	// same ids.
	if !media.IsOrganizedMovieMarker(MovieDirName(record)) {
		t.Fatal("expected synthesized movie directory name to match the organized-marker regex")
	}
	parsedIDs, ok := organizedIDsFromDirName(MovieDirName(record))
	if !ok {
		t.Fatal("expected to extract ids back out of the synthesized directory name")
	}
	if parsedIDs.TMDBID != record.TMDBID || parsedIDs.IMDbID != record.IMDbID {
		t.Fatalf("round-trip mismatch: got %+v, want tmdb=%d imdb=%s", parsedIDs, record.TMDBID, record.IMDbID)
	}
}

func organizedIDsFromDirName(name string) (media.ExternalIDs, bool) {
	role := media.ClassifyDirectory(name)
	if role.Kind != media.RoleOrganizedDir {
		return media.ExternalIDs{}, false
	}
	return role.IDs, true
}

func TestMovieFileNameOmitsMissingTokens(t *testing.T) {
	record := media.LookupRecord{OriginalTitle: "Avatar", LocalizedTitle: "Avatar", Year: 2009}
	name := MovieFileName(record, TechnicalTokens{}, "mkv")
	if strings.Contains(name, "--") {
		t.Fatalf("expected no empty segments between missing tokens, got %q", name)
	}
	if !strings.HasSuffix(name, ".mkv") {
		t.Fatalf("expected .mkv extension, got %q", name)
	}
}

func TestMovieFileNameAppendsDiscMarker(t *testing.T) {
	record := media.LookupRecord{OriginalTitle: "Fellowship", LocalizedTitle: "Fellowship", Year: 2001}
	a := MovieFileName(record, TokensFromProbe(media.ProbeMetadata{}, "cd1"), "mkv")
	b := MovieFileName(record, TokensFromProbe(media.ProbeMetadata{}, "cd2"), "mkv")
	if a == b {
		t.Fatal("expected different disc markers to produce distinct filenames (no collision)")
	}
	if !strings.Contains(a, "-cd1.") {
		t.Fatalf("expected disc marker segment, got %q", a)
	}
}

func TestTitleBracketCollapsesIdenticalTitles(t *testing.T) {
	got := TitleBracket("Parasite", "Parasite")
	if strings.Count(got, "[") != 1 {
		t.Fatalf("expected identical titles to collapse into one bracket, got %q", got)
	}
}

func TestTitleBracketKeepsDistinctTitles(t *testing.T) {
	got := TitleBracket("기생충", "Parasite")
	if strings.Count(got, "[") != 2 {
		t.Fatalf("expected distinct titles to keep two brackets, got %q", got)
	}
}

func TestEpisodeFileNameShape(t *testing.T) {
	name := EpisodeFileName("Nigehaji", 1, 3, "First Episode", TechnicalTokens{Resolution: "1080p"}, "mp4")
	if !strings.HasPrefix(name, "[Nigehaji]-S01E003-[First Episode]-1080p.mp4") {
		t.Fatalf("unexpected episode filename: %q", name)
	}
}

func TestPosterTargetsCapsAtThree(t *testing.T) {
	urls := []string{"https://img/a.jpg", "https://img/b.jpg", "https://img/c.jpg", "https://img/d.jpg"}
	targets := PosterTargets(urls)
	if len(targets) != 3 {
		t.Fatalf("expected at most 3 posters, got %d", len(targets))
	}
	if targets["https://img/a.jpg"] != "poster.jpg" {
		t.Fatalf("expected first poster named poster.jpg, got %q", targets["https://img/a.jpg"])
	}
}

func TestParseOrganizedMarkerFromSynthesizedDir(t *testing.T) {
	record := media.LookupRecord{TMDBID: 42, IMDbID: "tt0000042", OriginalTitle: "X", LocalizedTitle: "X", Year: 2000}
	dirName := MovieDirName(record)
	parsed := parser.ParsePath("/lib/Movies/US_UnitedStates/"+dirName+"/movie.mkv", parserFixedNow)
	if !parsed.OrganizedMarker {
		t.Fatalf("expected synthesized directory %q to be recognized as an organized marker", dirName)
	}
	if parsed.OrganizedIDs.TMDBID != 42 {
		t.Fatalf("expected round-tripped tmdb id 42, got %d", parsed.OrganizedIDs.TMDBID)
	}
}
