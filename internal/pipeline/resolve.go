package pipeline

import (
	"context"
	"errors"
	"time"

	"organizer/internal/candidate"
	"organizer/internal/match"
	"organizer/internal/media"
	"organizer/internal/parser"
	"organizer/internal/planner"
	"organizer/internal/services"
	"organizer/internal/synth"
	"organizer/internal/tmdb"
)

// maxSearchCandidates caps how many distinct search hits get promoted to a
// full details fetch per file, so a noisy search result set can't turn one
// file's resolution into a TMDB request storm.
const maxSearchCandidates = 5

// TMDBClient is the subset of *tmdb.Client the pipeline depends on, so
// resolution is testable against a fake without a real HTTP server. The
// real client already satisfies this.
type TMDBClient interface {
	SearchMovie(ctx context.Context, title string, year int) (*tmdb.SearchResponse, error)
	SearchTV(ctx context.Context, title string, year int) (*tmdb.SearchResponse, error)
	GetMovieDetails(ctx context.Context, id int64) (*tmdb.MovieDetails, error)
	GetTVDetails(ctx context.Context, id int64) (*tmdb.TVDetails, error)
	GetTVHierarchy(ctx context.Context, showID int64, season, episode int) (*tmdb.TVDetails, *tmdb.SeasonDetails, *tmdb.Episode, error)
	GetCollection(ctx context.Context, id int64) (*tmdb.CollectionDetails, error)
}

// Prober is the subset of the media-probe collaborator the pipeline
// needs: technical metadata for one already-resolved file.
type Prober interface {
	Probe(ctx context.Context, path string) (media.ProbeMetadata, error)
}

// AIClient mirrors candidate.AIClient so callers need only depend on this
// package, not internal/ollama, to wire a Resolver.
type AIClient = candidate.AIClient

// Resolver drives one source file through parsing, candidate building,
// lookup, validation, and name synthesis,
// producing the planner.FileResolution that internal/planner.Builder
// aggregates into a Plan. It holds no state across files besides its
// collaborators; TV season/detail caching lives in the TMDBClient.
type Resolver struct {
	Kind        media.Kind
	LibraryRoot string
	TMDB        TMDBClient
	Prober      Prober
	AllowMedium bool

	candidates *candidate.Builder
	recognizer candidate.ShowRecognizer
}

// NewResolver constructs a Resolver. ai may be nil (AI augmentation always
// skipped). tmdbClient and prober must not be nil.
func NewResolver(kind media.Kind, libraryRoot string, tmdbClient TMDBClient, prober Prober, ai AIClient, allowMedium bool) *Resolver {
	r := &Resolver{
		Kind:        kind,
		LibraryRoot: libraryRoot,
		TMDB:        tmdbClient,
		Prober:      prober,
		AllowMedium: allowMedium,
		candidates:  candidate.New(ai),
	}
	r.recognizer = tvRecognizer{client: tmdbClient}
	return r
}

type tvRecognizer struct{ client TMDBClient }

func (t tvRecognizer) Recognized(ctx context.Context, tmdbID int64) bool {
	_, err := t.client.GetTVDetails(ctx, tmdbID)
	return err == nil
}

// Resolve produces the full evidence chain for one source file. Samples
// and extras are parsed for bookkeeping only; neither candidate building
// nor any network lookup runs for them.
func (r *Resolver) Resolve(ctx context.Context, file media.VideoFile, now time.Time) (planner.FileResolution, error) {
	if file.Skippable() {
		parsed := parser.ParsePath(file.Path, now)
		return planner.FileResolution{Source: file, Candidate: fastCandidate(parsed)}, nil
	}

	parsed := parser.ParsePath(file.Path, now)
	cand := r.candidates.Build(ctx, parsed)

	if cand.Provenance == media.ProvenanceOrganizedMarker {
		return r.resolveOrganized(ctx, file, parsed, cand)
	}
	return r.resolveBySearch(ctx, file, parsed, cand)
}

// fastCandidate gives a sample/extra a lightweight CandidateMetadata for
// the plan's bookkeeping (Parsed field) without touching AI or network.
func fastCandidate(parsed parser.ParsedPath) media.CandidateMetadata {
	return media.CandidateMetadata{
		TitleCJK:   parsed.Filename.TitleCJK,
		TitleLatin: parsed.Filename.TitleLatin,
		Year:       parsed.Filename.Year,
		Season:     parsed.Filename.Season,
		Episode:    parsed.Filename.Episode,
		Provenance: media.ProvenanceFilename,
	}
}

func (r *Resolver) resolveOrganized(ctx context.Context, file media.VideoFile, parsed parser.ParsedPath, cand media.CandidateMetadata) (planner.FileResolution, error) {
	if r.Kind == media.KindTVShow {
		cand = candidate.ResolveShowID(ctx, cand, parsed.Ancestors, r.recognizer)
	}

	var record media.LookupRecord
	var episodeTitle, episodePlot string

	switch r.Kind {
	case media.KindMovie:
		details, err := r.TMDB.GetMovieDetails(ctx, cand.IDs.TMDBID)
		if err != nil {
			return unknown(file, cand, "organized marker id not found: "+err.Error()), nil
		}
		record = tmdb.MovieToLookupRecord(details)
		r.attachCollection(ctx, &record)
	case media.KindTVShow:
		show, _, episode, err := r.TMDB.GetTVHierarchy(ctx, cand.IDs.TMDBID, cand.Season, cand.Episode)
		if err != nil {
			return unknown(file, cand, "organized marker id not found: "+err.Error()), nil
		}
		record = tmdb.TVToLookupRecord(show)
		if episode != nil {
			episodeTitle, episodePlot = episode.Name, episode.Overview
		}
	}

	probe := r.probeFor(ctx, file.Path, parsed)
	target := r.synthesize(record, probe, parsed, cand, episodeTitle, episodePlot)
	return planner.FileResolution{
		Source: file, Candidate: cand, Record: record,
		Quality: media.MatchExact, Score: 0, Probe: probe, Target: target, Matched: true,
	}, nil
}

func (r *Resolver) resolveBySearch(ctx context.Context, file media.VideoFile, parsed parser.ParsedPath, cand media.CandidateMetadata) (planner.FileResolution, error) {
	if !cand.HasTitle() {
		return unknown(file, cand, "no title evidence survived parsing"), nil
	}

	records, intersects, err := r.search(ctx, cand)
	if err != nil {
		return unknown(file, cand, "search failed: "+err.Error()), nil
	}
	if len(records) == 0 {
		return unknown(file, cand, "no search results"), nil
	}

	mc := match.Candidate{Metadata: cand}
	result := match.Best(mc, records)
	mc.Intersects = intersects[result.Record.TMDBID]
	result = match.Best(mc, records)

	if !match.Accept(result.Quality, r.AllowMedium) {
		return unknown(file, cand, "match quality "+string(result.Quality)+" below processing threshold"), nil
	}

	record := result.Record
	var episodeTitle, episodePlot string
	if r.Kind == media.KindTVShow {
		_, _, episode, err := r.TMDB.GetTVHierarchy(ctx, record.TMDBID, cand.Season, cand.Episode)
		if err != nil {
			return unknown(file, cand, "episode lookup failed: "+err.Error()), nil
		}
		if episode != nil {
			episodeTitle, episodePlot = episode.Name, episode.Overview
		}
	} else {
		r.attachCollection(ctx, &record)
	}

	probe := r.probeFor(ctx, file.Path, parsed)
	target := r.synthesize(record, probe, parsed, cand, episodeTitle, episodePlot)
	return planner.FileResolution{
		Source: file, Candidate: cand, Record: record,
		Quality: result.Quality, Score: result.Score, Probe: probe, Target: target, Matched: true,
	}, nil
}

// search runs the CJK and Latin title searches the validator scores,
// merges the two result sets (capped at maxSearchCandidates unique ids),
// fetches full details for each, and reports which ids appeared in both
// script searches (the "intersection bonus").
func (r *Resolver) search(ctx context.Context, cand media.CandidateMetadata) ([]media.LookupRecord, map[int64]bool, error) {
	cjkIDs, err := r.searchIDs(ctx, cand.TitleCJK, cand.Year)
	if err != nil {
		return nil, nil, err
	}
	latinIDs, err := r.searchIDs(ctx, cand.TitleLatin, cand.Year)
	if err != nil {
		return nil, nil, err
	}

	intersects := make(map[int64]bool)
	seen := make(map[int64]bool)
	var ids []int64
	for _, id := range cjkIDs {
		seen[id] = true
	}
	for _, id := range latinIDs {
		if seen[id] {
			intersects[id] = true
		}
	}
	for _, id := range append(append([]int64{}, cjkIDs...), latinIDs...) {
		if !contains(ids, id) {
			ids = append(ids, id)
		}
		if len(ids) >= maxSearchCandidates {
			break
		}
	}

	var records []media.LookupRecord
	for _, id := range ids {
		switch r.Kind {
		case media.KindMovie:
			d, err := r.TMDB.GetMovieDetails(ctx, id)
			if err != nil {
				continue
			}
			records = append(records, tmdb.MovieToLookupRecord(d))
		case media.KindTVShow:
			d, err := r.TMDB.GetTVDetails(ctx, id)
			if err != nil {
				continue
			}
			records = append(records, tmdb.TVToLookupRecord(d))
		}
	}
	return records, intersects, nil
}

func (r *Resolver) searchIDs(ctx context.Context, title string, year int) ([]int64, error) {
	if title == "" {
		return nil, nil
	}
	var resp *tmdb.SearchResponse
	var err error
	switch r.Kind {
	case media.KindMovie:
		resp, err = r.TMDB.SearchMovie(ctx, title, year)
	case media.KindTVShow:
		resp, err = r.TMDB.SearchTV(ctx, title, year)
	}
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}
	ids := make([]int64, 0, len(resp.Results))
	for _, result := range resp.Results {
		ids = append(ids, result.ID)
	}
	return ids, nil
}

// attachCollection fetches the full membership set of a movie's
// collection, when it belongs to one, so the central index can later
// report an accurate roll-up total.
func (r *Resolver) attachCollection(ctx context.Context, record *media.LookupRecord) {
	if record.Collection == nil || record.Collection.ID == 0 {
		return
	}
	details, err := r.TMDB.GetCollection(ctx, record.Collection.ID)
	if err != nil {
		return
	}
	ids := make([]int64, 0, len(details.Parts))
	for _, part := range details.Parts {
		ids = append(ids, part.ID)
	}
	record.Collection.AllMemberIDs = ids
}

// probeFor reads technical metadata via ffprobe, merged with the filename
// fallback. A failed probe never aborts resolution: it falls back to the
// filename parse entirely.
func (r *Resolver) probeFor(ctx context.Context, path string, parsed parser.ParsedPath) media.ProbeMetadata {
	probe, err := r.Prober.Probe(ctx, path)
	if err != nil {
		return parsed.Filename.Probe
	}
	return probe.Merge(parsed.Filename.Probe)
}

func (r *Resolver) synthesize(record media.LookupRecord, probe media.ProbeMetadata, parsed parser.ParsedPath, cand media.CandidateMetadata, episodeTitle, episodePlot string) synth.Target {
	ext := parsed.Filename.Probe.Container
	switch r.Kind {
	case media.KindMovie:
		return synth.Movie(r.LibraryRoot, record, probe, parsed.Filename.DiscMarker, ext)
	case media.KindTVShow:
		return synth.TVEpisode(r.LibraryRoot, record, episodeTitle, episodePlot, cand.Season, cand.Episode, probe, ext)
	}
	return synth.Target{}
}

func unknown(file media.VideoFile, cand media.CandidateMetadata, reason string) planner.FileResolution {
	return planner.FileResolution{Source: file, Candidate: cand, Matched: false, UnknownReason: reason}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
