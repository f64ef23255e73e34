// Package config loads, normalizes, and validates the organizer's
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and lets the environment variables
// TMDB_API_KEY, TMDB_BEARER_TOKEN, OLLAMA_BASE_URL, and OLLAMA_MODEL
// override the file's values when they are set to a non-empty value. The
// Config type centralizes every knob the planner, executor, and CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
