// Package tmdb implements the movie-database half of the External Lookup
// Adapter: search, id-based detail fetch (with credits and external ids
// appended), season/episode hierarchy fetch, and collection lookup.
//
// All requests flow through a single rate-limited queue; idempotent
// detail fetches retry with exponential backoff while searches never do,
// and season/detail responses are cached for the life of the process.
package tmdb
