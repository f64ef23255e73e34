// Package export implements the Export/Import component: packaging
// the configuration, central/per-disk indexes, and session history into a
// single portable zip archive, and the reverse dry-run/force/merge import
// paths over that archive.
package export

import "time"

// ManifestVersion is the archive format version this package writes and
// the minimum version it will import.
const ManifestVersion = "1.0"

// Contents flags which top-level archive sections are present, so a
// dry-run import can report what would change without assuming every
// section exists (an `--only indexes` export omits config/ and sessions/).
type Contents struct {
	Config   bool `json:"config"`
	Indexes  bool `json:"indexes"`
	Sessions bool `json:"sessions"`
}

// Stats summarizes the archive's content at export time, for a
// dry-run import to compare against the destination without unzipping
// every entry.
type Stats struct {
	DiskCount    int `json:"disk_count"`
	MovieCount   int `json:"movie_count"`
	TVCount      int `json:"tv_count"`
	SessionCount int `json:"session_count"`
}

// Manifest is manifest.json: the archive's version, creator, creation
// time, content flags, and aggregate statistics.
type Manifest struct {
	Version         string    `json:"version"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	Contents        Contents  `json:"contents"`
	Stats           Stats     `json:"stats"`
	IncludesSecrets bool      `json:"includes_secrets"`
}
