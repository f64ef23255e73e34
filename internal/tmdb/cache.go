package tmdb

import (
	"fmt"
	"sync"
)

// seasonCache is write-once per (showID, season) key: once any episode of a
// season has been fetched, the full season payload is kept for the rest of
// the planning run.
type seasonCache struct {
	mu    sync.Mutex
	bySho map[string]*SeasonDetails
}

func newSeasonCache() *seasonCache {
	return &seasonCache{bySho: make(map[string]*SeasonDetails)}
}

func seasonKey(showID int64, season int) string {
	return fmt.Sprintf("%d/%d", showID, season)
}

func (c *seasonCache) get(showID int64, season int) (*SeasonDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.bySho[seasonKey(showID, season)]
	return v, ok
}

func (c *seasonCache) put(showID int64, season int, details *SeasonDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := seasonKey(showID, season)
	if _, exists := c.bySho[key]; exists {
		return
	}
	c.bySho[key] = details
}

// detailCache is a process-scoped, TMDB-id-keyed cache of movie/TV detail
// fetches so repeated episodes of one show (or repeated collection members)
// don't re-fetch identical details within one run.
type detailCache struct {
	mu     sync.Mutex
	movies map[int64]*MovieDetails
	tv     map[int64]*TVDetails
}

func newDetailCache() *detailCache {
	return &detailCache{movies: make(map[int64]*MovieDetails), tv: make(map[int64]*TVDetails)}
}

func (c *detailCache) getMovie(id int64) (*MovieDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.movies[id]
	return v, ok
}

func (c *detailCache) putMovie(id int64, d *MovieDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies[id] = d
}

func (c *detailCache) getTV(id int64) (*TVDetails, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.tv[id]
	return v, ok
}

func (c *detailCache) putTV(id int64, d *TVDetails) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tv[id] = d
}
