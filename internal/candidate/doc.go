// Package candidate implements the Metadata Candidate Builder: it
// merges filename, ancestor-directory, and AI-derived evidence produced by
// internal/parser into a single media.CandidateMetadata per source file,
// deciding along the way whether the AI collaborator needs to be consulted
// at all.
//
// Merge order, strongest first: OrganizedMarker > Filename > Directory >
// AI. AI failures are non-fatal — the builder always emits a candidate,
// possibly of low confidence, from whatever evidence survived.
package candidate
