// Command organizer is the CLI surface over the planning/execution/
// rollback pipeline: a thin, cobra-based collaborator around the core
// packages under internal/, wiring configuration, logging, and the
// TMDB/Ollama/ffprobe collaborators together for a real end-to-end run.
package main
