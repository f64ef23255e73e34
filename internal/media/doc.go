// Package media defines the shared vocabulary passed between the
// organizer's pipeline stages: the media kind declared at plan creation,
// the evidence gathered about a source file (filename/directory/AI
// provenance), the technical metadata read from the probe subprocess, and
// the canonical record returned by the external movie database.
//
// None of these types mutate the filesystem. They are pure data, built by
// internal/parser and internal/candidate, consumed by internal/match,
// internal/synth, and internal/planner.
package media
