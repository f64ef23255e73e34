package synth

import (
	"encoding/xml"
	"sort"
	"strconv"

	"organizer/internal/media"
)

// NFO XML structures follow the Kodi/Jellyfin/Emby sidecar schema
// (uniqueid, ratings, actor with order, set), mapped from LookupRecord.

type xmlUniqueID struct {
	Type    string `xml:"type,attr"`
	Default string `xml:"default,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type xmlRating struct {
	Name  string  `xml:"name,attr"`
	Max   string  `xml:"max,attr"`
	Value float64 `xml:"value"`
	Votes int     `xml:"votes"`
}

type xmlRatings struct {
	Ratings []xmlRating `xml:"rating"`
}

type xmlActor struct {
	Name  string `xml:"name"`
	Role  string `xml:"role"`
	Order int    `xml:"order"`
}

type xmlThumb struct {
	Aspect string `xml:"aspect,attr,omitempty"`
	URL    string `xml:",chardata"`
}

type xmlSet struct {
	Name string `xml:"name"`
}

type xmlMovie struct {
	XMLName       xml.Name      `xml:"movie"`
	Title         string        `xml:"title"`
	OriginalTitle string        `xml:"originaltitle"`
	Year          int           `xml:"year"`
	Plot          string        `xml:"plot"`
	Tagline       string        `xml:"tagline,omitempty"`
	Country       string        `xml:"country"`
	Genres        []string      `xml:"genre"`
	Studios       []string      `xml:"studio"`
	Directors     []string      `xml:"director"`
	Credits       []string      `xml:"credits"`
	Actors        []xmlActor    `xml:"actor"`
	UniqueIDs     []xmlUniqueID `xml:"uniqueid"`
	Ratings       xmlRatings    `xml:"ratings"`
	Thumb         []xmlThumb    `xml:"thumb"`
	Fanart        *xmlFanart    `xml:"fanart,omitempty"`
	Set           *xmlSet       `xml:"set,omitempty"`
}

type xmlFanart struct {
	Thumb []xmlThumb `xml:"thumb"`
}

type xmlTVShow struct {
	XMLName       xml.Name      `xml:"tvshow"`
	Title         string        `xml:"title"`
	OriginalTitle string        `xml:"originaltitle"`
	Year          int           `xml:"year"`
	Plot          string        `xml:"plot"`
	Tagline       string        `xml:"tagline,omitempty"`
	Country       string        `xml:"country"`
	Genres        []string      `xml:"genre"`
	Studios       []string      `xml:"studio"`
	Actors        []xmlActor    `xml:"actor"`
	UniqueIDs     []xmlUniqueID `xml:"uniqueid"`
	Ratings       xmlRatings    `xml:"ratings"`
	Thumb         []xmlThumb    `xml:"thumb"`
}

type xmlEpisode struct {
	XMLName   xml.Name      `xml:"episodedetails"`
	Title     string        `xml:"title"`
	ShowTitle string        `xml:"showtitle"`
	Season    int           `xml:"season"`
	Episode   int           `xml:"episode"`
	Plot      string        `xml:"plot"`
	Directors []string      `xml:"director"`
	Credits   []string      `xml:"credits"`
	Actors    []xmlActor    `xml:"actor"`
	UniqueIDs []xmlUniqueID `xml:"uniqueid"`
	Ratings   xmlRatings    `xml:"ratings"`
}

func uniqueIDs(ids media.ExternalIDs) []xmlUniqueID {
	out := []xmlUniqueID{{Type: "tmdb", Default: "true", Value: itoa(ids.TMDBID)}}
	if ids.IMDbID != "" {
		out = append(out, xmlUniqueID{Type: "imdb", Value: ids.IMDbID})
	}
	return out
}

func itoa(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func actorsFromCast(cast []media.CastMember) []xmlActor {
	sorted := append([]media.CastMember(nil), cast...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })
	out := make([]xmlActor, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, xmlActor{Name: c.Name, Role: c.Role, Order: c.Ordinal})
	}
	return out
}

func ratingsFrom(record media.LookupRecord) xmlRatings {
	if record.Rating == 0 {
		return xmlRatings{}
	}
	return xmlRatings{Ratings: []xmlRating{{Name: "tmdb", Max: "10", Value: record.Rating, Votes: record.VoteCount}}}
}

// MovieNFO renders the well-formed <movie> NFO document for record:
// UTF-8 declaration, single root, required elements, stable
// ordinal-based cast ordering, all text XML-escaped by encoding/xml.
func MovieNFO(record media.LookupRecord, thumbRel, fanartRel string) []byte {
	movie := xmlMovie{
		Title:         record.LocalizedTitle,
		OriginalTitle: record.OriginalTitle,
		Year:          record.Year,
		Plot:          record.Plot,
		Tagline:       record.Tagline,
		Country:       record.OriginCountry,
		Genres:        record.Genres,
		Studios:       record.Studios,
		Directors:     record.Directors,
		Credits:       record.Writers,
		Actors:        actorsFromCast(record.Cast),
		UniqueIDs:     uniqueIDs(media.ExternalIDs{TMDBID: record.TMDBID, IMDbID: record.IMDbID}),
		Ratings:       ratingsFrom(record),
	}
	if thumbRel != "" {
		movie.Thumb = append(movie.Thumb, xmlThumb{Aspect: "poster", URL: thumbRel})
	}
	if fanartRel != "" {
		movie.Fanart = &xmlFanart{Thumb: []xmlThumb{{Aspect: "fanart", URL: fanartRel}}}
	}
	if record.Collection != nil {
		movie.Set = &xmlSet{Name: record.Collection.Name}
	}
	return marshalNFO(movie)
}

// TVShowNFO renders the <tvshow> NFO document for a show-level LookupRecord.
func TVShowNFO(show media.LookupRecord, thumbRel string) []byte {
	tv := xmlTVShow{
		Title:         show.LocalizedTitle,
		OriginalTitle: show.OriginalTitle,
		Year:          show.Year,
		Plot:          show.Plot,
		Tagline:       show.Tagline,
		Country:       show.OriginCountry,
		Genres:        show.Genres,
		Studios:       show.Studios,
		Actors:        actorsFromCast(show.Cast),
		UniqueIDs:     uniqueIDs(media.ExternalIDs{TMDBID: show.TMDBID, IMDbID: show.IMDbID}),
		Ratings:       ratingsFrom(show),
	}
	if thumbRel != "" {
		tv.Thumb = append(tv.Thumb, xmlThumb{Aspect: "poster", URL: thumbRel})
	}
	return marshalNFO(tv)
}

// EpisodeNFO renders the <episodedetails> NFO document for one episode.
func EpisodeNFO(show media.LookupRecord, episodeTitle, plot string, season, episode int) []byte {
	ep := xmlEpisode{
		Title:     episodeTitle,
		ShowTitle: show.LocalizedTitle,
		Season:    season,
		Episode:   episode,
		Plot:      plot,
		Directors: show.Directors,
		UniqueIDs: uniqueIDs(media.ExternalIDs{TMDBID: show.TMDBID, IMDbID: show.IMDbID}),
	}
	return marshalNFO(ep)
}

// ParseMovieNFO reconstructs a LookupRecord from a previously-written
// movie.nfo, for the Central Index's NFO-authoritative rescan:
// the tree itself, not a cached prior run, is the source of truth for what
// is actually organized on disk.
func ParseMovieNFO(data []byte) (media.LookupRecord, error) {
	var movie xmlMovie
	if err := xml.Unmarshal(data, &movie); err != nil {
		return media.LookupRecord{}, err
	}
	record := media.LookupRecord{
		LocalizedTitle: movie.Title,
		OriginalTitle:  movie.OriginalTitle,
		Year:           movie.Year,
		Plot:           movie.Plot,
		Tagline:        movie.Tagline,
		OriginCountry:  movie.Country,
		Genres:         movie.Genres,
		Studios:        movie.Studios,
		Directors:      movie.Directors,
		Writers:        movie.Credits,
		Cast:           castFromActors(movie.Actors),
	}
	record.TMDBID, record.IMDbID = idsFromXML(movie.UniqueIDs)
	record.Rating, record.VoteCount = ratingFromXML(movie.Ratings)
	if movie.Set != nil {
		record.Collection = &media.Collection{Name: movie.Set.Name}
	}
	return record, nil
}

// ParseTVShowNFO reconstructs a show-level LookupRecord from tvshow.nfo.
func ParseTVShowNFO(data []byte) (media.LookupRecord, error) {
	var tv xmlTVShow
	if err := xml.Unmarshal(data, &tv); err != nil {
		return media.LookupRecord{}, err
	}
	record := media.LookupRecord{
		LocalizedTitle: tv.Title,
		OriginalTitle:  tv.OriginalTitle,
		Year:           tv.Year,
		Plot:           tv.Plot,
		Tagline:        tv.Tagline,
		OriginCountry:  tv.Country,
		Genres:         tv.Genres,
		Studios:        tv.Studios,
		Cast:           castFromActors(tv.Actors),
	}
	record.TMDBID, record.IMDbID = idsFromXML(tv.UniqueIDs)
	record.Rating, record.VoteCount = ratingFromXML(tv.Ratings)
	return record, nil
}

func castFromActors(actors []xmlActor) []media.CastMember {
	out := make([]media.CastMember, 0, len(actors))
	for _, a := range actors {
		out = append(out, media.CastMember{Name: a.Name, Role: a.Role, Ordinal: a.Order})
	}
	return out
}

func idsFromXML(ids []xmlUniqueID) (tmdbID int64, imdbID string) {
	for _, id := range ids {
		switch id.Type {
		case "tmdb":
			tmdbID, _ = strconv.ParseInt(id.Value, 10, 64)
		case "imdb":
			imdbID = id.Value
		}
	}
	return tmdbID, imdbID
}

func ratingFromXML(r xmlRatings) (value float64, votes int) {
	if len(r.Ratings) == 0 {
		return 0, 0
	}
	return r.Ratings[0].Value, r.Ratings[0].Votes
}

func marshalNFO(v any) []byte {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		// Every field type here is a plain struct of strings/slices; a
		// marshal failure would indicate a programming error, not a
		// runtime condition callers can recover from.
		panic("synth: marshal nfo: " + err.Error())
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, []byte(xml.Header)...)
	out = append(out, body...)
	out = append(out, '\n')
	return out
}
