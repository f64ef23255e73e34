// Package textnorm normalizes titles for comparison across scripts and
// input sources: filename-derived, directory-derived, AI-derived, and
// movie-database-derived strings rarely agree on width or compatibility
// form even when they name the same title. Normalize before any
// similarity scoring in internal/match.
package textnorm
