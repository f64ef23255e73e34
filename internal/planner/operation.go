package planner

// OperationKind tags the variant of a single forward operation.
type OperationKind string

const (
	OpMkdir    OperationKind = "mkdir"
	OpMove     OperationKind = "move"
	OpWrite    OperationKind = "write_file"
	OpDownload OperationKind = "download"
)

// Operation is a single step of a PlanItem's ordered operation list. Only
// the fields relevant to Kind are populated; this mirrors the tagged
// variant design (every field a variant needs is always present, no
// hidden optionals) while staying a flat, directly JSON-serializable
// struct.
type Operation struct {
	Seq            int           `json:"seq"`
	Kind           OperationKind `json:"op_type"`
	Path           string        `json:"path,omitempty"`     // Mkdir, WriteFile, Download target
	Src            string        `json:"src,omitempty"`      // Move
	Dst            string        `json:"dst,omitempty"`      // Move
	ExpectedSHA256 string        `json:"sha256,omitempty"`   // Move
	Bytes          []byte        `json:"bytes,omitempty"`    // WriteFile content
	URL            string        `json:"url,omitempty"`      // Download source
	MinBytes       int64         `json:"min_bytes,omitempty"` // Download: size floor (1 KiB)
}

// Mkdir builds a Mkdir(path) operation.
func Mkdir(seq int, path string) Operation {
	return Operation{Seq: seq, Kind: OpMkdir, Path: path}
}

// Move builds a Move(src, dst, expected_sha256) operation.
func Move(seq int, src, dst, expectedSHA256 string) Operation {
	return Operation{Seq: seq, Kind: OpMove, Src: src, Dst: dst, ExpectedSHA256: expectedSHA256}
}

// WriteFile builds a WriteFile(path, bytes) operation.
func WriteFile(seq int, path string, bytes []byte) Operation {
	return Operation{Seq: seq, Kind: OpWrite, Path: path, Bytes: bytes}
}

// Download builds a Download(url, path) operation; minBytes is the
// reject-below floor (1 KiB for posters), carried on the operation so
// the executor doesn't need to re-derive it.
func Download(seq int, url, path string, minBytes int64) Operation {
	return Operation{Seq: seq, Kind: OpDownload, URL: url, Path: path, MinBytes: minBytes}
}
