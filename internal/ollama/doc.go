// Package ollama implements the AI-inference half of the External Lookup
// Adapter: a best-effort POST /api/generate call that recovers a
// title/year/season/episode guess from file context the Name/Path Parser
// could not resolve on its own.
//
// The client speaks Ollama's native /api/generate envelope with
// format=json, expects a single JSON object of
// title_cjk/title_latin/year/season/episode/confidence back, and clamps
// a confidence reported on a 0-100 scale onto 0-1.
package ollama
