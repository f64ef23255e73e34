package parser

import (
	"path/filepath"
	"strings"
	"time"

	"organizer/internal/media"
	"organizer/internal/textnorm"
)

// ParsedPath is the parser's full output for one source file: the
// filename-derived fields plus the classified role of every ancestor
// directory, nearest ancestor first.
type ParsedPath struct {
	Filename  FilenameInfo
	Ancestors []media.DirectoryRole

	OrganizedMarker bool
	OrganizedIDs    media.ExternalIDs

	// AIContext is the augmented string to hand the AI inference
	// collaborator when the filename alone is insufficient. Empty when
	// the filename carries enough evidence on its own.
	AIContext string
}

// ParsePath classifies path: tokenizes the filename and every ancestor
// directory component up to (but not including) the filesystem root. It
// never touches the filesystem — path need not exist.
func ParsePath(path string, now time.Time) ParsedPath {
	filename := filepath.Base(path)
	ancestors := classifyAncestors(path)

	withinSeasonDir := false
	seasonFromDir := 0
	if len(ancestors) > 0 && ancestors[0].Kind == media.RoleSeasonDir {
		withinSeasonDir = true
		seasonFromDir = ancestors[0].Season
	}

	info := ParseFilename(filename, withinSeasonDir, seasonFromDir, now)

	parsed := ParsedPath{Filename: info, Ancestors: ancestors}

	switch {
	case info.IsOrganizedTVEpisodeMarker:
		if ids, ok := media.OrganizedTVEpisodeIDs(filename); ok {
			parsed.OrganizedMarker = true
			parsed.OrganizedIDs = ids
		}
	default:
		if ids, ok := nearestOrganizedIDs(ancestors); ok {
			parsed.OrganizedMarker = true
			parsed.OrganizedIDs = ids
		}
	}

	parsed.AIContext = buildAIContext(info, ancestors)
	return parsed
}

func classifyAncestors(path string) []media.DirectoryRole {
	dir := filepath.Dir(path)
	var roles []media.DirectoryRole
	for {
		base := filepath.Base(dir)
		parent := filepath.Dir(dir)
		if base == "" || base == "." || base == string(filepath.Separator) || dir == parent {
			break
		}
		roles = append(roles, media.ClassifyDirectory(base))
		dir = parent
	}
	return roles
}

func nearestOrganizedIDs(ancestors []media.DirectoryRole) (media.ExternalIDs, bool) {
	for _, role := range ancestors {
		if role.Kind == media.RoleOrganizedDir {
			return role.IDs, true
		}
	}
	return media.ExternalIDs{}, false
}

// buildAIContext implements the minimal-filename rule and CJK-parent
// augmentation: a minimal filename gets the nearest
// non-quality ancestor TitleDir name prepended; a predominantly-Latin
// filename under a CJK-titled ancestor gets that ancestor's name appended
// so the AI can recover the CJK title hidden behind a romanized
// abbreviation.
func buildAIContext(info FilenameInfo, ancestors []media.DirectoryRole) string {
	base := info.TitleLatin
	if base == "" {
		base = info.TitleCJK
	}

	if info.Minimal {
		if ancestor := nearestTitleDir(ancestors); ancestor != nil {
			base = ancestor.Title + " - " + base
		}
	}

	if info.TitleCJK == "" && textnorm.IsPredominantlyLatin(base) {
		if ancestor := nearestCJKAncestor(ancestors); ancestor != nil {
			base = base + " " + ancestor.Title
		}
	}

	return strings.TrimSpace(base)
}

func nearestTitleDir(ancestors []media.DirectoryRole) *media.DirectoryRole {
	for i := range ancestors {
		if ancestors[i].Kind == media.RoleTitleDir {
			return &ancestors[i]
		}
	}
	return nil
}

func nearestCJKAncestor(ancestors []media.DirectoryRole) *media.DirectoryRole {
	for i := range ancestors {
		role := ancestors[i]
		if role.Kind == media.RoleTitleDir && textnorm.ContainsCJK(role.Title) {
			return &ancestors[i]
		}
	}
	return nil
}
