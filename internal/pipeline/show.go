package pipeline

import (
	"time"

	"organizer/internal/media"
	"organizer/internal/planner"
	"organizer/internal/synth"
)

// ShowNFOResolutions synthesizes one additional FileResolution per unique
// TV show among resolved episode resolutions, carrying the show-level
// tvshow.nfo and show poster placement. The per-episode Resolver never
// emits these itself — it resolves one source video file at a time and
// has no notion of "every episode of this show has now been seen" — so
// the orchestrator calls this once per planning run, after every episode
// file has been resolved, to fold the show-level sidecar into the same
// Plan.
//
// Each synthetic resolution's Source is a non-existent, deterministic path
// (so planner.itemID is stable across replans of the same show) that
// never collides with a real video file and is never mistaken for a
// sample or extra.
func ShowNFOResolutions(libraryRoot string, episodes []planner.FileResolution) []planner.FileResolution {
	seen := make(map[int64]bool)
	var out []planner.FileResolution

	for _, r := range episodes {
		if !r.Matched || r.Record.TMDBID == 0 {
			continue
		}
		if seen[r.Record.TMDBID] {
			continue
		}
		seen[r.Record.TMDBID] = true

		nfoPath, nfoContent, posters := synth.ShowNFOTarget(libraryRoot, r.Record)
		dir := synth.TVShowDir(libraryRoot, r.Record)

		out = append(out, planner.FileResolution{
			Source:  showMarkerSource(dir),
			Record:  r.Record,
			Quality: media.MatchExact,
			Matched: true,
			Target: synth.Target{
				Dir:        dir,
				NFOPath:    nfoPath,
				NFOContent: nfoContent,
				Posters:    posters,
			},
		})
	}
	return out
}

// showMarkerSource builds a stable, non-existent source path for a
// show-level synthetic resolution: it is never walked from disk, only
// used as the planner's per-item identity key and mkdir root.
func showMarkerSource(showDir string) media.VideoFile {
	return media.NewVideoFile(showDir+"/.show.tmdb", 0, time.Time{})
}
