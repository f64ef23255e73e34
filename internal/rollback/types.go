package rollback

import "time"

// Kind tags the variant of a single reverse step.
type Kind string

const (
	// KindMove restores a file from its executed destination back to its
	// original source path (the reverse of a forward Move).
	KindMove Kind = "move"
	// KindRmdir removes a directory the forward plan created, provided it
	// is still empty.
	KindRmdir Kind = "rmdir"
	// KindDeleteIfUnchanged removes a file the forward plan wrote or
	// downloaded, provided its content still matches what was written.
	KindDeleteIfUnchanged Kind = "delete_if_unchanged"
)

// Operation is a single reverse step recorded against one forward
// operation, mirroring the rollback document's wire shape:
// the forward op that produced it, the reverse action to take, the
// locations involved, an integrity checksum where applicable, and
// whether this step has already been applied (set once Apply restores
// it, so a crashed rollback can resume instead of re-running from seq 1).
type Operation struct {
	Seq         int    `json:"seq"`
	ForwardKind string `json:"forward_op_type"`
	Kind        Kind   `json:"op_type"`
	From        string `json:"from,omitempty"` // current location to restore from
	To          string `json:"to,omitempty"`   // original location to restore to
	Checksum    string `json:"checksum,omitempty"`
	Executed    bool   `json:"executed"`
}

// Doc is the full reverse-plan document the Executor writes incrementally
// during execution and the Rollback Engine consumes.
type Doc struct {
	Version     string      `json:"version"`
	PlanID      string      `json:"plan_id"`
	ItemID      string      `json:"item_id"`
	ExecutedAt  time.Time   `json:"executed_at"`
	Operations  []Operation `json:"operations"`
}

// Move builds the reverse of a forward Move(src, dst, checksum): restore
// dst back to src.
func Move(seq int, src, dst, checksum string) Operation {
	return Operation{Seq: seq, ForwardKind: "move", Kind: KindMove, From: dst, To: src, Checksum: checksum}
}

// Rmdir builds the reverse of a forward Mkdir(path), emitted only when the
// Executor actually created the directory.
func Rmdir(seq int, path string) Operation {
	return Operation{Seq: seq, ForwardKind: "mkdir", Kind: KindRmdir, From: path}
}

// DeleteIfUnchanged builds the reverse of a forward WriteFile or Download:
// remove path only if its content still matches checksum.
func DeleteIfUnchanged(seq int, forwardKind, path, checksum string) Operation {
	return Operation{Seq: seq, ForwardKind: forwardKind, Kind: KindDeleteIfUnchanged, From: path, Checksum: checksum}
}
