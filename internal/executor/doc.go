// Package executor implements the Plan Executor: the fault-tolerant
// apply engine that turns a planner.Plan's ordered operations into
// filesystem mutations, verifying every move's checksum, downloading
// posters with a size floor, and emitting a rollback.Doc incrementally so
// a crash mid-run never loses the ability to undo what already committed.
package executor
