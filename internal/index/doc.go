// Package index implements the Central Index: per-disk JSON indices
// built by an NFO-authoritative filesystem rescan, merged into a single
// central_index.json with secondary lookup tables, duplicate detection,
// and a simple AND-combined search.
package index
