// Package fsutil provides the filesystem primitives the Executor and
// Rollback Engine build their per-operation contracts on: streaming
// checksum copy, atomic-rename-with-EXDEV-fallback move, and a free-space
// probe for the dry-run preflight check.
//
// Move prefers an atomic rename and falls back to
// copy-then-fsync-then-unlink on EXDEV, re-hashing the destination so a
// cross-device move has the same post-condition as a same-device rename.
package fsutil
