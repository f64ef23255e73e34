// Package synth implements the Name Synthesizer: it turns a matched
// (CandidateMetadata, LookupRecord, ProbeMetadata) triple into the target
// canonical directory/file layout, a Kodi-compatible NFO sidecar, and
// the poster URL-to-relative-path set.
package synth
