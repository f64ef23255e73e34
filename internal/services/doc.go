// Package services defines shared utilities consumed by the pipeline
// components and their external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp plan item IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - A small sentinel-error taxonomy plus the Wrap helper, so every
//     component reports failures through the same vocabulary; callers
//     classify outcomes with errors.Is rather than string matching.
//
// Use these helpers when wiring new component logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
