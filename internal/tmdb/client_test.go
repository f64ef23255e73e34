package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"organizer/internal/config"
	"organizer/internal/tmdb"
)

func baseCfg(url string) config.TMDB {
	return config.TMDB{
		APIKey:      "key",
		BaseURL:     url,
		Language:    "en-US",
		RateLimitMS: 0,
		RetryMax:    2,
		RetryBaseMS: 1,
	}
}

func TestNewRequiresCredential(t *testing.T) {
	cfg := baseCfg("https://example.com")
	cfg.APIKey = ""
	if _, err := tmdb.New(cfg); err == nil {
		t.Fatal("expected error when no api key or bearer token set")
	}
}

func TestSearchMovieSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Example"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New(baseCfg(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	resp, err := client.SearchMovie(context.Background(), "Example", 0)
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Example" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestSearchMovieHTTPErrorDoesNotRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New(baseCfg(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if _, err := client.SearchMovie(context.Background(), "fail", 0); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
	if calls != 1 {
		t.Fatalf("expected search to not retry, got %d calls", calls)
	}
}

func TestGetMovieDetailsRetriesTransientFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":19995,"title":"Avatar","external_ids":{"imdb_id":"tt0499549"}}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New(baseCfg(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	details, err := client.GetMovieDetails(context.Background(), 19995)
	if err != nil {
		t.Fatalf("GetMovieDetails returned error after retries: %v", err)
	}
	if details.Title != "Avatar" || details.ExternalIDs.IMDbID != "tt0499549" {
		t.Fatalf("unexpected details: %#v", details)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls (2 failures + success), got %d", calls)
	}
}

func TestGetMovieDetailsIsCached(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"title":"Cached"}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New(baseCfg(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.GetMovieDetails(context.Background(), 1); err != nil {
		t.Fatalf("first GetMovieDetails failed: %v", err)
	}
	if _, err := client.GetMovieDetails(context.Background(), 1); err != nil {
		t.Fatalf("second GetMovieDetails failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected detail cache to avoid second request, got %d calls", calls)
	}
}

func TestGetTVHierarchyCachesSeasonAcrossEpisodes(t *testing.T) {
	seasonCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/tv/100":
			_, _ = w.Write([]byte(`{"id":100,"name":"Show"}`))
		case r.URL.Path == "/tv/100/season/1":
			seasonCalls++
			_, _ = w.Write([]byte(`{"id":5,"season_number":1,"episodes":[{"episode_number":1,"name":"E01"},{"episode_number":2,"name":"E02"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New(baseCfg(server.URL))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, _, ep1, err := client.GetTVHierarchy(context.Background(), 100, 1, 1)
	if err != nil {
		t.Fatalf("episode 1 fetch failed: %v", err)
	}
	_, _, ep2, err := client.GetTVHierarchy(context.Background(), 100, 1, 2)
	if err != nil {
		t.Fatalf("episode 2 fetch failed: %v", err)
	}
	if ep1.Name != "E01" || ep2.Name != "E02" {
		t.Fatalf("unexpected episodes: %#v %#v", ep1, ep2)
	}
	if seasonCalls != 1 {
		t.Fatalf("expected exactly one season fetch, got %d", seasonCalls)
	}
}
