package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"organizer/internal/config"
	"organizer/internal/services"
)

const requestTimeout = 15 * time.Second

// Client implements the movie-database half of the External Lookup Adapter
//: search_movie, search_tv, get_movie_details, get_tv_hierarchy, and
// collection lookups, with request spacing, retries, and caching.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	bearerToken string
	language    string
	retryMax    int
	retryBaseMS int
	limiter     *rateLimiter
	seasons     *seasonCache
	details     *detailCache
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New constructs a Client from the resolved TMDB configuration section.
func New(cfg config.TMDB, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	bearer := strings.TrimSpace(cfg.BearerToken)
	if apiKey == "" && bearer == "" {
		return nil, errors.New("tmdb: api key or bearer token required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb: base url required")
	}
	spacing := time.Duration(cfg.RateLimitMS) * time.Millisecond
	retryMax := cfg.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}
	retryBaseMS := cfg.RetryBaseMS
	if retryBaseMS <= 0 {
		retryBaseMS = 500
	}
	client := &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		bearerToken: bearer,
		language:    strings.TrimSpace(cfg.Language),
		retryMax:    retryMax,
		retryBaseMS: retryBaseMS,
		limiter:     newRateLimiter(spacing),
		seasons:     newSeasonCache(),
		details:     newDetailCache(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB for movies matching title, optionally narrowed
// by year. Searches do not retry on empty results.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	var resp SearchResponse
	if err := c.doNoRetry(ctx, "GET", "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchTV searches TMDB for TV shows matching title, optionally narrowed by
// first-air year.
func (c *Client) SearchTV(ctx context.Context, title string, year int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", title)
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	var resp SearchResponse
	if err := c.doNoRetry(ctx, "GET", "/search/tv", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMovieDetails fetches full movie details (credits + external ids
// appended), retrying transient failures up to the configured max.
func (c *Client) GetMovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	if cached, ok := c.details.getMovie(id); ok {
		return cached, nil
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids")
	var details MovieDetails
	if err := c.doWithRetry(ctx, "GET", fmt.Sprintf("/movie/%d", id), params, &details); err != nil {
		return nil, err
	}
	c.details.putMovie(id, &details)
	return &details, nil
}

// GetTVDetails fetches full TV show details (credits + external ids
// appended).
func (c *Client) GetTVDetails(ctx context.Context, id int64) (*TVDetails, error) {
	if cached, ok := c.details.getTV(id); ok {
		return cached, nil
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,external_ids")
	var details TVDetails
	if err := c.doWithRetry(ctx, "GET", fmt.Sprintf("/tv/%d", id), params, &details); err != nil {
		return nil, err
	}
	c.details.putTV(id, &details)
	return &details, nil
}

// GetTVHierarchy fetches the show, its season, and (when episode > 0) a
// single episode's slice of the cached season payload. The season payload
// is fetched at most once per (showID, season) for the life of the client.
func (c *Client) GetTVHierarchy(ctx context.Context, showID int64, season, episode int) (*TVDetails, *SeasonDetails, *Episode, error) {
	show, err := c.GetTVDetails(ctx, showID)
	if err != nil {
		return nil, nil, nil, err
	}
	if season <= 0 {
		return show, nil, nil, nil
	}
	seasonDetails, err := c.getSeasonDetailsCached(ctx, showID, season)
	if err != nil {
		return show, nil, nil, err
	}
	if episode <= 0 {
		return show, seasonDetails, nil, nil
	}
	for i := range seasonDetails.Episodes {
		if seasonDetails.Episodes[i].EpisodeNumber == episode {
			return show, seasonDetails, &seasonDetails.Episodes[i], nil
		}
	}
	return show, seasonDetails, nil, services.Wrap(services.ErrNotFound, "tmdb", "get_tv_hierarchy", fmt.Sprintf("episode %d not found in season %d", episode, season), nil)
}

func (c *Client) getSeasonDetailsCached(ctx context.Context, showID int64, season int) (*SeasonDetails, error) {
	if cached, ok := c.seasons.get(showID, season); ok {
		return cached, nil
	}
	var details SeasonDetails
	if err := c.doWithRetry(ctx, "GET", fmt.Sprintf("/tv/%d/season/%d", showID, season), url.Values{}, &details); err != nil {
		return nil, err
	}
	c.seasons.put(showID, season, &details)
	return &details, nil
}

// GetCollection fetches the membership set of a collection by id.
func (c *Client) GetCollection(ctx context.Context, id int64) (*CollectionDetails, error) {
	var details CollectionDetails
	if err := c.doWithRetry(ctx, "GET", fmt.Sprintf("/collection/%d", id), url.Values{}, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (c *Client) doNoRetry(ctx context.Context, method, path string, params url.Values, out any) error {
	return c.request(ctx, method, path, params, out)
}

// doWithRetry retries idempotent get_* calls up to retryMax times on
// transient network error, exponential backoff base 500ms factor 2, jitter.
func (c *Client) doWithRetry(ctx context.Context, method, path string, params url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(c.retryBaseMS) * time.Millisecond * time.Duration(1<<uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff)/4 + 1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}
		err := c.request(ctx, method, path, params, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values, out any) error {
	c.limiter.Wait()

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tmdb", "build url", "malformed tmdb base url", err)
	}
	if params == nil {
		params = url.Values{}
	}
	if c.language != "" && params.Get("language") == "" {
		params.Set("language", c.language)
	}
	if c.bearerToken == "" && c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "tmdb", "build request", "failed to build request", err)
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "tmdb", path, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return services.Wrap(services.ErrNotFound, "tmdb", path, "resource not found", nil)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return services.Wrap(services.ErrTransient, "tmdb", path, fmt.Sprintf("http %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrExternalTool, "tmdb", path, fmt.Sprintf("http %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrExternalTool, "tmdb", path, "decode response", err)
	}
	return nil
}

func isTransient(err error) bool {
	return errors.Is(err, services.ErrTransient) || errors.Is(err, services.ErrTimeout)
}
