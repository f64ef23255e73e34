// Package ffprobe invokes the media-probe collaborator (an ffprobe child
// process) and reduces its JSON output to media.ProbeMetadata.
//
// The exec.CommandContext invocation, JSON decode, and accessor shape
// follow the same pattern as other subprocess probes in this codebase.
// What differs is the reduction step: raw stream counts are folded down
// to the single ProbeMetadata the planner carries (resolution, container,
// codec, bit depth, audio codec, channel layout), rather than exposed for
// disc-ripping decisions.
package ffprobe
