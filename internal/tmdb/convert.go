package tmdb

import (
	"sort"
	"strconv"
	"strings"

	"organizer/internal/media"
)

// MovieToLookupRecord projects a movie detail response (with credits and
// external ids appended) into the canonical media.LookupRecord.
func MovieToLookupRecord(d *MovieDetails) media.LookupRecord {
	record := media.LookupRecord{
		TMDBID:         d.ID,
		IMDbID:         d.ExternalIDs.IMDbID,
		OriginalTitle:  d.OriginalTitle,
		LocalizedTitle: d.Title,
		Year:           yearFromDate(d.ReleaseDate),
		RuntimeMinutes: d.Runtime,
		Rating:         d.VoteAverage,
		VoteCount:      int(d.VoteCount),
		Plot:           d.Overview,
		Tagline:        d.Tagline,
	}
	record.Genres = genreNames(d.Genres)
	record.Studios = companyNames(d.ProductionCompanies)
	if len(d.ProductionCountries) > 0 {
		record.OriginCountry = strings.ToUpper(d.ProductionCountries[0].ISO31661)
	}
	record.Directors, record.Cast, record.Writers = creditsToPeople(d.Credits)
	if d.PosterPath != "" {
		record.PosterURLs = append(record.PosterURLs, posterURL(d.PosterPath))
	}
	if d.BackdropPath != "" {
		record.PosterURLs = append(record.PosterURLs, posterURL(d.BackdropPath))
	}
	if d.BelongsToCollection != nil {
		record.Collection = &media.Collection{ID: d.BelongsToCollection.ID, Name: d.BelongsToCollection.Name}
	}
	return record
}

// TVToLookupRecord projects a TV show detail response into the canonical
// media.LookupRecord, at the show level (season/episode are carried
// separately on the PlanItem/candidate, not inside LookupRecord).
func TVToLookupRecord(d *TVDetails) media.LookupRecord {
	record := media.LookupRecord{
		TMDBID:         d.ID,
		IMDbID:         d.ExternalIDs.IMDbID,
		OriginalTitle:  d.OriginalName,
		LocalizedTitle: d.Name,
		Year:           yearFromDate(d.FirstAirDate),
		Rating:         d.VoteAverage,
		VoteCount:      int(d.VoteCount),
		Plot:           d.Overview,
		Tagline:        d.Tagline,
	}
	if len(d.EpisodeRunTime) > 0 {
		record.RuntimeMinutes = d.EpisodeRunTime[0]
	}
	record.Genres = genreNames(d.Genres)
	record.Studios = companyNames(d.ProductionCompanies)
	if len(d.OriginCountry) > 0 {
		record.OriginCountry = strings.ToUpper(d.OriginCountry[0])
	}
	record.Directors, record.Cast, record.Writers = creditsToPeople(d.Credits)
	if d.PosterPath != "" {
		record.PosterURLs = append(record.PosterURLs, posterURL(d.PosterPath))
	}
	if d.BackdropPath != "" {
		record.PosterURLs = append(record.PosterURLs, posterURL(d.BackdropPath))
	}
	return record
}

func genreNames(genres []Genre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.Name)
	}
	return out
}

func companyNames(companies []Company) []string {
	out := make([]string, 0, len(companies))
	for _, co := range companies {
		out = append(out, co.Name)
	}
	return out
}

func creditsToPeople(credits Credits) (directors []string, cast []media.CastMember, writers []string) {
	for _, crew := range credits.Crew {
		switch crew.Job {
		case "Director":
			directors = append(directors, crew.Name)
		case "Writer", "Screenplay", "Story":
			writers = append(writers, crew.Name)
		}
	}
	sorted := append([]CastMember(nil), credits.Cast...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	for _, member := range sorted {
		cast = append(cast, media.CastMember{Name: member.Name, Role: member.Character, Ordinal: member.Order})
	}
	return directors, cast, writers
}

func posterURL(path string) string {
	return "https://image.tmdb.org/t/p/original" + path
}

func yearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
