package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"organizer/internal/media"
	"organizer/internal/services"
	"organizer/internal/tmdb"
)

var fixedNow = time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

type fakeTMDB struct {
	movies      map[int64]*tmdb.MovieDetails
	shows       map[int64]*tmdb.TVDetails
	episodes    map[int64]*tmdb.Episode
	collections map[int64]*tmdb.CollectionDetails
	movieSearch map[string]*tmdb.SearchResponse
	tvSearch    map[string]*tmdb.SearchResponse
}

func (f fakeTMDB) SearchMovie(_ context.Context, title string, _ int) (*tmdb.SearchResponse, error) {
	if r, ok := f.movieSearch[title]; ok {
		return r, nil
	}
	return &tmdb.SearchResponse{}, nil
}

func (f fakeTMDB) SearchTV(_ context.Context, title string, _ int) (*tmdb.SearchResponse, error) {
	if r, ok := f.tvSearch[title]; ok {
		return r, nil
	}
	return &tmdb.SearchResponse{}, nil
}

func (f fakeTMDB) GetMovieDetails(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	if d, ok := f.movies[id]; ok {
		return d, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "tmdb", "movie", "not found", nil)
}

func (f fakeTMDB) GetTVDetails(_ context.Context, id int64) (*tmdb.TVDetails, error) {
	if d, ok := f.shows[id]; ok {
		return d, nil
	}
	return nil, services.Wrap(services.ErrNotFound, "tmdb", "tv", "not found", nil)
}

func (f fakeTMDB) GetTVHierarchy(ctx context.Context, showID int64, _, _ int) (*tmdb.TVDetails, *tmdb.SeasonDetails, *tmdb.Episode, error) {
	show, err := f.GetTVDetails(ctx, showID)
	if err != nil {
		return nil, nil, nil, err
	}
	return show, nil, f.episodes[showID], nil
}

func (f fakeTMDB) GetCollection(_ context.Context, id int64) (*tmdb.CollectionDetails, error) {
	if d, ok := f.collections[id]; ok {
		return d, nil
	}
	return nil, errors.New("no such collection")
}

type fakeProber struct {
	result media.ProbeMetadata
	err    error
}

func (f fakeProber) Probe(context.Context, string) (media.ProbeMetadata, error) {
	return f.result, f.err
}

func movieDetails(id int64, title string, year int) *tmdb.MovieDetails {
	return &tmdb.MovieDetails{
		ID:            id,
		Title:         title,
		OriginalTitle: title,
		ReleaseDate:   dateFor(year),
	}
}

func dateFor(year int) string {
	if year == 0 {
		return ""
	}
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func TestResolveOrganizedMarkerSkipsSearch(t *testing.T) {
	client := fakeTMDB{movies: map[int64]*tmdb.MovieDetails{19995: movieDetails(19995, "Avatar", 2009)}}
	r := NewResolver(media.KindMovie, "/lib/Movies", client, fakeProber{result: media.ProbeMetadata{Resolution: "2160p"}}, nil, false)

	path := "/src/[Avatar](2009)-tt0499549-tmdb19995/Avatar.mkv"
	file := media.NewVideoFile(path, 1024, fixedNow)

	res, err := r.Resolve(context.Background(), file, fixedNow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Matched {
		t.Fatalf("expected matched resolution, got unknown reason %q", res.UnknownReason)
	}
	if res.Quality != media.MatchExact {
		t.Fatalf("expected exact quality for organized marker, got %v", res.Quality)
	}
	if res.Record.TMDBID != 19995 {
		t.Fatalf("expected TMDB id 19995, got %d", res.Record.TMDBID)
	}
}

func TestResolveSearchPathAcceptsHighConfidenceMatch(t *testing.T) {
	client := fakeTMDB{
		movies: map[int64]*tmdb.MovieDetails{19995: movieDetails(19995, "Avatar", 2009)},
		movieSearch: map[string]*tmdb.SearchResponse{
			"Avatar": {Results: []tmdb.SearchResult{{ID: 19995, Title: "Avatar", ReleaseDate: "2009-12-18"}}},
		},
	}
	r := NewResolver(media.KindMovie, "/lib/Movies", client, fakeProber{result: media.ProbeMetadata{Resolution: "1080p"}}, nil, false)

	file := media.NewVideoFile("/src/Avatar (2009) 1080p.mkv", 1024, fixedNow)
	res, err := r.Resolve(context.Background(), file, fixedNow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Matched {
		t.Fatalf("expected matched resolution, got unknown reason %q", res.UnknownReason)
	}
	if res.Record.TMDBID != 19995 {
		t.Fatalf("expected TMDB id 19995, got %d", res.Record.TMDBID)
	}
}

func TestResolveSearchPathRejectsNoResults(t *testing.T) {
	client := fakeTMDB{}
	r := NewResolver(media.KindMovie, "/lib/Movies", client, fakeProber{}, nil, false)

	file := media.NewVideoFile("/src/Some Obscure Film (2009) 1080p.mkv", 1024, fixedNow)
	res, err := r.Resolve(context.Background(), file, fixedNow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Matched {
		t.Fatal("expected an unmatched resolution when search returns nothing")
	}
	if res.UnknownReason == "" {
		t.Fatal("expected a non-empty unknown reason")
	}
}

func TestResolveSkipsSamplesWithoutLookup(t *testing.T) {
	client := fakeTMDB{}
	r := NewResolver(media.KindMovie, "/lib/Movies", client, fakeProber{}, nil, false)

	file := media.NewVideoFile("/src/Avatar (2009)/sample.mkv", 1024, fixedNow)
	res, err := r.Resolve(context.Background(), file, fixedNow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Matched {
		t.Fatal("a sample file must never be matched")
	}
}

func TestResolveProbeFailureFallsBackToFilename(t *testing.T) {
	client := fakeTMDB{movies: map[int64]*tmdb.MovieDetails{19995: movieDetails(19995, "Avatar", 2009)}}
	r := NewResolver(media.KindMovie, "/lib/Movies", client, fakeProber{err: errors.New("ffprobe exit 1")}, nil, false)

	path := "/src/[Avatar](2009)-tt0499549-tmdb19995/Avatar 1080p.mkv"
	file := media.NewVideoFile(path, 1024, fixedNow)

	res, err := r.Resolve(context.Background(), file, fixedNow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Matched {
		t.Fatalf("a probe failure must not block the match, got reason %q", res.UnknownReason)
	}
	if res.Probe.Resolution != "1080p" {
		t.Fatalf("expected filename-derived resolution fallback, got %q", res.Probe.Resolution)
	}
}
