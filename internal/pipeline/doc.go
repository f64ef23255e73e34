// Package pipeline is the glue that drives a source tree from parsing
// through name synthesis and hands the results to internal/planner. It owns no business rule of
// its own: every decision (tokenizing, candidate merging, scoring, target
// synthesis) stays in the package that already implements it; pipeline
// only sequences the calls and adapts each collaborator's external
// dependencies (TMDB, ffprobe, Ollama) behind small interfaces so the
// whole walk-resolve-plan path is testable without a real filesystem or
// network.
package pipeline
