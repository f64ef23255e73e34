package index

import (
	"strconv"
	"time"

	"organizer/internal/media"
)

// Entry is one title's record in a disk or central index.
type Entry struct {
	ID              string     `json:"id"` // stable uuid per (disk, path)
	Kind            media.Kind `json:"kind"`
	TMDBID          int64      `json:"tmdb_id"`
	IMDbID          string     `json:"imdb_id"`
	Title           string     `json:"title"`
	OriginalTitle   string     `json:"original_title"`
	Year            int        `json:"year"`
	Country         string     `json:"country"`
	Genres          []string   `json:"genres,omitempty"`
	Directors       []string   `json:"directors,omitempty"`
	Cast            []string   `json:"cast,omitempty"`
	CollectionID    int64      `json:"collection_id,omitempty"`
	CollectionName  string     `json:"collection_name,omitempty"`
	CollectionTotal int        `json:"collection_total,omitempty"` // known member count, 0 if unknown
	Path            string     `json:"path"`
	DiskLabel       string     `json:"disk_label"`
	Online          bool       `json:"online"`
	ScannedAt       time.Time  `json:"scanned_at"`
	ModifiedAt      time.Time  `json:"modified_at"` // NFO mtime, the dirty-check basis
	Size            int64      `json:"size"`        // NFO size, the dirty-check basis
}

// Key identifies an entry for duplicate detection, grouping by (media
// kind, tmdb id).
func (e Entry) Key() Key {
	return Key{Kind: e.Kind, TMDBID: e.TMDBID}
}

// Key is the duplicate-detection grouping key.
type Key struct {
	Kind   media.Kind
	TMDBID int64
}

// DiskIndex is one disk's scan result.
type DiskIndex struct {
	Version   string    `json:"version"`
	Label     string    `json:"label"`
	Root      string    `json:"root"`
	Online    bool      `json:"online"`
	ScannedAt time.Time `json:"scanned_at"`
	Entries   []Entry   `json:"entries"`
}

// Secondary holds the offline search tables (by_actor, by_director,
// by_genre, by_year, by_country), each mapping a
// facet value to the TMDB ids of entries carrying it.
type Secondary struct {
	ByActor    map[string][]int64 `json:"by_actor"`
	ByDirector map[string][]int64 `json:"by_director"`
	ByGenre    map[string][]int64 `json:"by_genre"`
	ByYear     map[string][]int64 `json:"by_year"`
	ByCountry  map[string][]int64 `json:"by_country"`
}

// Central is the merged, cross-disk index.
type Central struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Disks     []string  `json:"disks"`
	Entries   []Entry   `json:"entries"`
	Secondary Secondary `json:"secondary"`
}

// BuildSecondary derives the secondary lookup tables from entries.
func BuildSecondary(entries []Entry) Secondary {
	s := Secondary{
		ByActor:    map[string][]int64{},
		ByDirector: map[string][]int64{},
		ByGenre:    map[string][]int64{},
		ByYear:     map[string][]int64{},
		ByCountry:  map[string][]int64{},
	}
	for _, e := range entries {
		for _, actor := range e.Cast {
			s.ByActor[actor] = appendUnique(s.ByActor[actor], e.TMDBID)
		}
		for _, director := range e.Directors {
			s.ByDirector[director] = appendUnique(s.ByDirector[director], e.TMDBID)
		}
		for _, genre := range e.Genres {
			s.ByGenre[genre] = appendUnique(s.ByGenre[genre], e.TMDBID)
		}
		if e.Year != 0 {
			key := strconv.Itoa(e.Year)
			s.ByYear[key] = appendUnique(s.ByYear[key], e.TMDBID)
		}
		if e.Country != "" {
			s.ByCountry[e.Country] = appendUnique(s.ByCountry[e.Country], e.TMDBID)
		}
	}
	return s
}

func appendUnique(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
