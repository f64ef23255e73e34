package synth

import (
	"path/filepath"

	"organizer/internal/media"
)

// Target is the synthesized placement for one plan item: the target
// directory, the target video file path, the NFO sidecar path/content,
// and the poster URL-to-absolute-path map.
type Target struct {
	Dir        string
	FilePath   string
	NFOPath    string
	NFOContent []byte
	Posters    map[string]string // url -> absolute target path
}

// Movie synthesizes the full target for a movie item: libraryRoot is the
// configured movies library root (e.g. ".../Movies"); discMarker and ext
// come from the filename parse of the source file.
func Movie(libraryRoot string, record media.LookupRecord, probe media.ProbeMetadata, discMarker, ext string) Target {
	dir := filepath.Join(libraryRoot, countrySegment(record.OriginCountry), MovieDirName(record))
	filename := MovieFileName(record, TokensFromProbe(probe, discMarker), ext)

	posterRel := PosterTargets(record.PosterURLs)
	posters := make(map[string]string, len(posterRel))
	var thumbRel, fanartRel string
	for url, rel := range posterRel {
		posters[url] = filepath.Join(dir, rel)
		if thumbRel == "" {
			thumbRel = rel
		} else if fanartRel == "" {
			fanartRel = rel
		}
	}

	return Target{
		Dir:        dir,
		FilePath:   filepath.Join(dir, filename),
		NFOPath:    filepath.Join(dir, "movie.nfo"),
		NFOContent: MovieNFO(record, thumbRel, fanartRel),
		Posters:    posters,
	}
}

// TVShowDir synthesizes the show-level directory (for tvshow.nfo and
// show poster placement), independent of any single episode.
func TVShowDir(libraryRoot string, show media.LookupRecord) string {
	return filepath.Join(libraryRoot, countrySegment(show.OriginCountry), TVShowDirName(show))
}

// TVEpisode synthesizes the full target for one episode item.
func TVEpisode(libraryRoot string, show media.LookupRecord, episodeTitle, episodePlot string, season, episode int, probe media.ProbeMetadata, ext string) Target {
	showDir := TVShowDir(libraryRoot, show)
	seasonDir := filepath.Join(showDir, SeasonDirName(season))
	filename := EpisodeFileName(show.LocalizedTitle, season, episode, episodeTitle, TokensFromProbe(probe, ""), ext)

	return Target{
		Dir:        seasonDir,
		FilePath:   filepath.Join(seasonDir, filename),
		NFOPath:    filepath.Join(seasonDir, episodeNFOName(filename)),
		NFOContent: EpisodeNFO(show, episodeTitle, episodePlot, season, episode),
	}
}

// ShowNFOTarget synthesizes the show-level tvshow.nfo path/content and
// poster placement, written once per show directory regardless of how
// many episodes are planned under it.
func ShowNFOTarget(libraryRoot string, show media.LookupRecord) (nfoPath string, nfoContent []byte, posters map[string]string) {
	dir := TVShowDir(libraryRoot, show)
	posterRel := PosterTargets(show.PosterURLs)
	posters = make(map[string]string, len(posterRel))
	var thumbRel string
	for url, rel := range posterRel {
		posters[url] = filepath.Join(dir, rel)
		if thumbRel == "" {
			thumbRel = rel
		}
	}
	return filepath.Join(dir, "tvshow.nfo"), TVShowNFO(show, thumbRel), posters
}

func episodeNFOName(videoFilename string) string {
	ext := filepath.Ext(videoFilename)
	return videoFilename[:len(videoFilename)-len(ext)] + ".nfo"
}
