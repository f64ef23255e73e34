package candidate

import (
	"context"
	"regexp"
	"strings"

	"organizer/internal/media"
	"organizer/internal/ollama"
	"organizer/internal/parser"
)

// AIClient is the subset of the ollama client the builder depends on, so
// tests can substitute a fake. AI failures are non-fatal.
type AIClient interface {
	Infer(ctx context.Context, fileContext string) (ollama.Guess, error)
}

// Builder implements the Metadata Candidate Builder.
type Builder struct {
	ai AIClient
}

// New constructs a Builder. ai may be nil, in which case AI augmentation is
// always skipped and candidates are built from filename/directory evidence
// alone.
func New(ai AIClient) *Builder {
	return &Builder{ai: ai}
}

// Build merges parsed's filename and ancestor-directory evidence into a
// single CandidateMetadata, consulting the AI collaborator only when the
// merged evidence so far is judged insufficient (needsAI).
func (b *Builder) Build(ctx context.Context, parsed parser.ParsedPath) media.CandidateMetadata {
	if parsed.OrganizedMarker {
		return media.CandidateMetadata{
			IDs:        parsed.OrganizedIDs,
			Season:     parsed.Filename.Season,
			Episode:    parsed.Filename.Episode,
			Provenance: media.ProvenanceOrganizedMarker,
			Confidence: 1.0,
		}
	}

	cand := fromFilename(parsed.Filename)
	cand = mergeDirectory(cand, parsed.Ancestors)

	if needsAI(parsed.Filename, cand) && b.ai != nil && parsed.AIContext != "" {
		guess, err := b.ai.Infer(ctx, parsed.AIContext)
		if err == nil {
			cand = mergeAI(cand, guess)
		}
	}

	return cand
}

func fromFilename(info parser.FilenameInfo) media.CandidateMetadata {
	titleCJK, titleLatin := info.TitleCJK, info.TitleLatin
	if info.Minimal {
		// A minimal filename's residue (e.g. "01") is not title evidence.
		titleCJK, titleLatin = "", ""
	}
	conf := 0.6
	if titleCJK == "" && titleLatin == "" {
		conf = 0.2
	}
	return media.CandidateMetadata{
		TitleCJK:   titleCJK,
		TitleLatin: titleLatin,
		Year:       info.Year,
		Season:     info.Season,
		Episode:    info.Episode,
		Provenance: media.ProvenanceFilename,
		Confidence: conf,
	}
}

// mergeDirectory fills in fields the filename left empty from the nearest
// ancestor TitleDir/SeasonDir, strongest-first per the merge order
// (OrganizedMarker > Filename > Directory > AI).
func mergeDirectory(cand media.CandidateMetadata, ancestors []media.DirectoryRole) media.CandidateMetadata {
	usedDirectory := false

	if cand.TitleCJK == "" && cand.TitleLatin == "" {
		for _, a := range ancestors {
			if a.Kind == media.RoleTitleDir && a.Title != "" {
				cjk, latin := splitTitleByScript(a.Title)
				cand.TitleCJK, cand.TitleLatin = cjk, latin
				usedDirectory = true
				if cand.Year == 0 {
					cand.Year = a.Year
				}
				break
			}
		}
	} else if cand.Year == 0 {
		for _, a := range ancestors {
			if a.Kind == media.RoleTitleDir && a.Year != 0 {
				cand.Year = a.Year
				usedDirectory = true
				break
			}
		}
	}

	if cand.Season == 0 {
		for _, a := range ancestors {
			if a.Kind == media.RoleSeasonDir {
				cand.Season = a.Season
				usedDirectory = true
				break
			}
		}
	}

	if usedDirectory {
		if cand.Provenance == media.ProvenanceFilename && (cand.TitleCJK != "" || cand.TitleLatin != "") {
			cand.Provenance = media.ProvenanceMixed
		} else {
			cand.Provenance = media.ProvenanceDirectory
		}
		if cand.Confidence < 0.5 {
			cand.Confidence = 0.5
		}
	}

	return cand
}

// mergeAI fills any field the filename/directory evidence left empty with
// the AI's guess. It never overwrites evidence that already survived.
func mergeAI(cand media.CandidateMetadata, guess ollama.Guess) media.CandidateMetadata {
	changed := false
	if cand.TitleCJK == "" && guess.TitleCJK != "" {
		cand.TitleCJK = guess.TitleCJK
		changed = true
	}
	if cand.TitleLatin == "" && guess.TitleLatin != "" {
		cand.TitleLatin = guess.TitleLatin
		changed = true
	}
	if cand.Year == 0 && guess.Year != 0 {
		cand.Year = guess.Year
		changed = true
	}
	if cand.Season == 0 && guess.Season != 0 {
		cand.Season = guess.Season
		changed = true
	}
	if cand.Episode == 0 && guess.Episode != 0 {
		cand.Episode = guess.Episode
		changed = true
	}
	if !changed {
		return cand
	}
	if cand.Provenance == media.ProvenanceFilename || cand.Provenance == media.ProvenanceDirectory || cand.Provenance == media.ProvenanceMixed {
		cand.Provenance = media.ProvenanceMixed
	} else {
		cand.Provenance = media.ProvenanceAI
	}
	if guess.Confidence > cand.Confidence {
		cand.Confidence = guess.Confidence
	}
	return cand
}

var technicalShapeRE = regexp.MustCompile(`(?i)^(4320p|2160p|1440p|1080p|720p|576p|480p|360p|8k|4k|uhd|x265|x264|h265|h264|hevc|avc|vp9|av1|xvid|divx|truehd|atmos|dts|eac3|ac3|aac|flac)$`)

// needsAI reports whether the filename's surviving title evidence is
// insufficient: no title survived heuristic extraction, the filename was
// flagged minimal, or the surviving title is itself shaped like a
// technical token.
func needsAI(info parser.FilenameInfo, cand media.CandidateMetadata) bool {
	if cand.TitleCJK == "" && cand.TitleLatin == "" {
		return true
	}
	if info.Minimal {
		return true
	}
	title := strings.TrimSpace(cand.TitleLatin)
	if title == "" {
		title = cand.TitleCJK
	}
	return technicalShapeRE.MatchString(title)
}

func splitTitleByScript(title string) (cjk, latin string) {
	hasCJK := false
	for _, r := range title {
		if isCJKRune(r) {
			hasCJK = true
			break
		}
	}
	if hasCJK {
		return title, ""
	}
	return "", title
}

func isCJKRune(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3040 && r <= 0x30FF) || // Hiragana/Katakana
		(r >= 0xAC00 && r <= 0xD7A3) // Hangul
}
