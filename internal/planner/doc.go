// Package planner implements the Planner: a pure aggregation step
// over the per-file results already produced upstream (parsed evidence,
// matched LookupRecord, probed technical metadata, synthesized target). It
// orders each item's operations, detects target-path collisions, elides
// already-organized items with zero pending operations, and emits the
// stable-key-order Plan document the executor and sessions consume.
package planner
