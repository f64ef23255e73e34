package planner

import (
	"time"

	"organizer/internal/media"
)

// ItemStatus classifies a PlanItem's outcome.
type ItemStatus string

const (
	StatusReady   ItemStatus = "ready"
	StatusSample  ItemStatus = "sample"
	StatusUnknown ItemStatus = "unknown"
)

// SourceDoc is the source-file projection carried on every PlanItem.
type SourceDoc struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// ParsedDoc is the CandidateMetadata projection carried on every PlanItem.
type ParsedDoc struct {
	TitleCJK   string  `json:"title_cjk,omitempty"`
	TitleLatin string  `json:"title_latin,omitempty"`
	Year       int     `json:"year,omitempty"`
	Season     int     `json:"season,omitempty"`
	Episode    int     `json:"episode,omitempty"`
	Provenance string  `json:"provenance"`
	Confidence float64 `json:"confidence"`
}

// TMDBDoc is the matched external-lookup projection, present only on
// Ready items.
type TMDBDoc struct {
	TMDBID         int64   `json:"tmdb_id,omitempty"`
	IMDbID         string  `json:"imdb_id,omitempty"`
	OriginalTitle  string  `json:"original_title,omitempty"`
	LocalizedTitle string  `json:"localized_title,omitempty"`
	Year           int     `json:"year,omitempty"`
	MatchQuality   string  `json:"match_quality"`
	Score          float64 `json:"score"`
}

// MediaInfoDoc is the merged (probe + filename-fallback) technical
// metadata projection.
type MediaInfoDoc struct {
	Resolution   string `json:"resolution,omitempty"`
	Container    string `json:"container,omitempty"`
	VideoCodec   string `json:"video_codec,omitempty"`
	BitDepth     int    `json:"bit_depth,omitempty"`
	AudioCodec   string `json:"audio_codec,omitempty"`
	AudioChannel string `json:"audio_channel,omitempty"`
}

// TargetDoc is the synthesized-placement projection.
type TargetDoc struct {
	Dir      string            `json:"dir"`
	FilePath string            `json:"file_path"`
	NFOPath  string            `json:"nfo_path,omitempty"`
	Posters  map[string]string `json:"posters,omitempty"` // url -> relative path
}

// PlanItem is one source file's planned treatment.
type PlanItem struct {
	ID            string       `json:"id"`
	Status        ItemStatus   `json:"status"`
	Source        SourceDoc    `json:"source"`
	Parsed        ParsedDoc    `json:"parsed"`
	TMDB          *TMDBDoc     `json:"tmdb,omitempty"`
	MediaInfo     *MediaInfoDoc `json:"media_info,omitempty"`
	Target        *TargetDoc   `json:"target,omitempty"`
	Operations    []Operation  `json:"operations,omitempty"`
	UnknownReason string       `json:"unknown_reason,omitempty"`
}

// Plan is the full, immutable planning output.
type Plan struct {
	Version    string     `json:"version"`
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	MediaType  media.Kind `json:"media_type"`
	SourcePath string     `json:"source_path"`
	TargetPath string     `json:"target_path"`
	Items      []PlanItem         `json:"items"`
	Samples    []PlanItem         `json:"samples"`
	Unknown    []PlanItem         `json:"unknown"`
}

// Summary is the machine-readable counter set reported beside the
// human-readable output.
type Summary struct {
	Total   int `json:"total"`
	Ready   int `json:"ready"`
	Sample  int `json:"sample"`
	Unknown int `json:"unknown"`
}

// Summarize computes the reporting counters for p.
func (p *Plan) Summarize() Summary {
	return Summary{
		Total:   len(p.Items) + len(p.Samples) + len(p.Unknown),
		Ready:   len(p.Items),
		Sample:  len(p.Samples),
		Unknown: len(p.Unknown),
	}
}
