package media

import (
	"regexp"
	"strconv"
)

// RoleKind identifies what purpose a single ancestor directory serves when
// classified by DirectoryRole. Classification is a pure function of the
// directory name alone.
type RoleKind string

const (
	RoleTitleDir     RoleKind = "title_dir"
	RoleSeasonDir    RoleKind = "season_dir"
	RoleQualityDir   RoleKind = "quality_dir"
	RoleCategoryDir  RoleKind = "category_dir"
	RoleOrganizedDir RoleKind = "organized_dir"
	RoleUnknown      RoleKind = "unknown"
)

// DirectoryRole is the classification of one ancestor path component.
type DirectoryRole struct {
	Kind RoleKind

	// TitleDir
	Title string
	Year  int // 0 when TitleDir carries no year

	// SeasonDir
	Season int

	// OrganizedDir
	IDs ExternalIDs
}

var (
	seasonDirPattern     = regexp.MustCompile(`(?i)^(?:season|s)[\s._-]*(\d{1,2})$`)
	qualityDirPattern    = regexp.MustCompile(`(?i)^(4k|2160p|1080p|720p|480p|uhd|hd|sd|bluray|remux)$`)
	categoryDirPattern   = regexp.MustCompile(`(?i)^(movies?|tv[\s._-]?shows?|series|anime|documentaries|kids)$`)
	organizedMovieDirRE  = regexp.MustCompile(`^\[.+\]\((\d{4})\)-tt\d+-tmdb\d+`)
	organizedTVEpisodeRE = regexp.MustCompile(`(?i)^\[.+\]-S\d{1,2}E\d{1,3}-\[.+\]-`)
	titleYearPattern     = regexp.MustCompile(`^(.+?)[\s._-]*\((\d{4})\)$`)
)

// ClassifyDirectory inspects a single directory name (not a path) and
// returns its DirectoryRole. It never looks at siblings or ancestors.
func ClassifyDirectory(name string) DirectoryRole {
	if ids, ok := organizedIDs(name); ok {
		return DirectoryRole{Kind: RoleOrganizedDir, IDs: ids}
	}
	if m := seasonDirPattern.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return DirectoryRole{Kind: RoleSeasonDir, Season: n}
	}
	if qualityDirPattern.MatchString(name) {
		return DirectoryRole{Kind: RoleQualityDir}
	}
	if categoryDirPattern.MatchString(name) {
		return DirectoryRole{Kind: RoleCategoryDir}
	}
	if m := titleYearPattern.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[2])
		return DirectoryRole{Kind: RoleTitleDir, Title: m[1], Year: year}
	}
	if name != "" {
		return DirectoryRole{Kind: RoleTitleDir, Title: name}
	}
	return DirectoryRole{Kind: RoleUnknown}
}

// organizedIDs extracts tmdb/imdb ids from a name matching the organized
// movie marker. The sibling TV-episode marker carries ids further along
// the component and is recognized by parser, not here, since it needs the
// bracketed id segment rather than the leading year.
func organizedIDs(name string) (ExternalIDs, bool) {
	if !organizedMovieDirRE.MatchString(name) {
		return ExternalIDs{}, false
	}
	idsRE := regexp.MustCompile(`-tt(\d+)-tmdb(\d+)`)
	m := idsRE.FindStringSubmatch(name)
	if m == nil {
		return ExternalIDs{}, false
	}
	tmdb, _ := strconv.ParseInt(m[2], 10, 64)
	return ExternalIDs{TMDBID: tmdb, IMDbID: "tt" + m[1]}, true
}

// IsOrganizedMovieMarker reports whether name matches the organized-movie
// fast-path marker recognized by the parser.
func IsOrganizedMovieMarker(name string) bool {
	return organizedMovieDirRE.MatchString(name)
}

// IsOrganizedTVEpisodeMarker reports whether name matches the organized
// TV-episode fast-path marker.
func IsOrganizedTVEpisodeMarker(name string) bool {
	return organizedTVEpisodeRE.MatchString(name)
}

var tvEpisodeIDsRE = regexp.MustCompile(`-tt(\d+)-tmdb(\d+)`)

// OrganizedTVEpisodeIDs extracts the embedded external ids from a filename
// matching IsOrganizedTVEpisodeMarker.
func OrganizedTVEpisodeIDs(name string) (ExternalIDs, bool) {
	if !organizedTVEpisodeRE.MatchString(name) {
		return ExternalIDs{}, false
	}
	m := tvEpisodeIDsRE.FindStringSubmatch(name)
	if m == nil {
		return ExternalIDs{}, false
	}
	tmdb, _ := strconv.ParseInt(m[2], 10, 64)
	return ExternalIDs{TMDBID: tmdb, IMDbID: "tt" + m[1]}, true
}
