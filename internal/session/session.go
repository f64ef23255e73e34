// Package session persists one plan/execute/rollback run under
// $CONFIG/sessions/{timestamp}_{id}/, bridging the Executor's per-item
// rollback.Doc stream into the single per-plan rollback.json that the
// rollback command expects.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"organizer/internal/config"
	"organizer/internal/planner"
	"organizer/internal/rollback"
	"organizer/internal/services"
)

// bundleVersion is the rollback.json schema version this package writes.
const bundleVersion = "1.0"

// Bundle is the on-disk shape of rollback.json: one document per plan,
// its operations the concatenation of every item's reverse steps with
// seq renumbered sequentially across the whole plan so Apply's
// descending-seq walk still unwinds each item in the opposite order it
// was executed in.
type Bundle struct {
	Version    string              `json:"version"`
	PlanID     string              `json:"plan_id"`
	ExecutedAt time.Time           `json:"executed_at"`
	Operations []rollback.Operation `json:"operations"`
	// Items tracks which operations belong to which plan item, by id
	// range, so Show can report per-item rollback progress without
	// re-deriving it from seq arithmetic.
	Items []ItemRange `json:"items"`
}

// ItemRange names the seq span within Bundle.Operations that one plan
// item's reverse steps occupy.
type ItemRange struct {
	ItemID   string `json:"item_id"`
	FirstSeq int    `json:"first_seq"`
	LastSeq  int    `json:"last_seq"`
}

// Session tracks one plan/execute run's on-disk directory and the
// per-item rollback docs accumulated so far.
type Session struct {
	cfg *config.Config
	dir string
	id  string

	mu    sync.Mutex
	docs  map[string]rollback.Doc
	order []string
}

// New creates a session directory under cfg's sessions root and writes
// plan.json immediately. The returned Session implements
// executor.RollbackWriter and should be passed straight to executor.New.
func New(cfg *config.Config, plan *planner.Plan) (*Session, error) {
	id := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.NewString()[:8])
	dir := filepath.Join(cfg.SessionsDir(), id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "session", "new", dir, err)
	}

	s := &Session{cfg: cfg, dir: dir, id: id, docs: make(map[string]rollback.Doc)}
	if err := atomicWriteJSON(s.planPath(), plan); err != nil {
		return nil, err
	}
	return s, nil
}

// Open reopens an existing session directory (one already created by New
// for a prior plan) so a later execute run can append rollback.json
// writes without disturbing the plan.json already on disk. It fails if
// the directory or its plan.json is missing.
func Open(cfg *config.Config, id string) (*Session, error) {
	dir := filepath.Join(cfg.SessionsDir(), id)
	if _, err := os.Stat(filepath.Join(dir, "plan.json")); err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "session", "open", dir, err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "session", "open", dir, err)
	}
	return &Session{cfg: cfg, dir: dir, id: id, docs: make(map[string]rollback.Doc)}, nil
}

// ID returns the session's directory name ({timestamp}_{id}).
func (s *Session) ID() string { return s.id }

// Dir returns the session's absolute directory path.
func (s *Session) Dir() string { return s.dir }

func (s *Session) planPath() string     { return filepath.Join(s.dir, "plan.json") }
func (s *Session) rollbackPath() string { return filepath.Join(s.dir, "rollback.json") }

// Write implements executor.RollbackWriter: it records item's latest
// reverse-plan doc and rewrites the session's bundled rollback.json so a
// crash mid-execute never loses the ability to undo what already landed.
func (s *Session) Write(doc rollback.Doc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.docs[doc.ItemID]; !seen {
		s.order = append(s.order, doc.ItemID)
	}
	s.docs[doc.ItemID] = doc

	return atomicWriteJSON(s.rollbackPath(), s.bundleLocked())
}

// bundleLocked flattens the accumulated per-item docs into the single
// rollback.json shape, renumbering seq sequentially across items while
// preserving each item's internal relative order.
func (s *Session) bundleLocked() Bundle {
	bundle := Bundle{Version: bundleVersion}

	seq := 0
	for _, itemID := range s.order {
		doc := s.docs[itemID]
		if bundle.PlanID == "" {
			bundle.PlanID = doc.PlanID
		}
		if doc.ExecutedAt.After(bundle.ExecutedAt) {
			bundle.ExecutedAt = doc.ExecutedAt
		}
		if len(doc.Operations) == 0 {
			continue
		}
		first := seq + 1
		for _, op := range doc.Operations {
			seq++
			op.Seq = seq
			bundle.Operations = append(bundle.Operations, op)
		}
		bundle.Items = append(bundle.Items, ItemRange{ItemID: itemID, FirstSeq: first, LastSeq: seq})
	}
	return bundle
}

// LoadRollback reads dir's rollback.json as a rollback.Doc ready for
// rollback.Apply.
func LoadRollback(dir string) (*rollback.Doc, error) {
	var bundle Bundle
	ok, err := readJSON(filepath.Join(dir, "rollback.json"), &bundle)
	if err != nil || !ok {
		return nil, err
	}
	return &rollback.Doc{
		Version:    bundle.Version,
		PlanID:     bundle.PlanID,
		ExecutedAt: bundle.ExecutedAt,
		Operations: bundle.Operations,
	}, nil
}

// PersistRollback writes doc back to dir's rollback.json, preserving the
// Items ranges already on disk. Used by the rollback command to persist
// progress as rollback.Apply marks operations Executed.
func PersistRollback(dir string, doc *rollback.Doc) error {
	var bundle Bundle
	ok, err := readJSON(filepath.Join(dir, "rollback.json"), &bundle)
	if err != nil {
		return err
	}
	if !ok {
		bundle = Bundle{Version: bundleVersion, PlanID: doc.PlanID, ExecutedAt: doc.ExecutedAt}
	}
	bundle.Operations = doc.Operations
	return atomicWriteJSON(filepath.Join(dir, "rollback.json"), bundle)
}

// LoadPlan reads dir's plan.json.
func LoadPlan(dir string) (*planner.Plan, error) {
	var plan planner.Plan
	ok, err := readJSON(filepath.Join(dir, "plan.json"), &plan)
	if err != nil || !ok {
		return nil, err
	}
	return &plan, nil
}

// Summary describes one session directory for the sessions command.
type Summary struct {
	ID         string
	CreatedAt  time.Time
	PlanID     string
	MediaType  string
	TotalItems int
	HasPlan    bool
	HasRollback bool
}

// List returns every session directory under cfg's sessions root, newest
// first.
func List(cfg *config.Config) ([]Summary, error) {
	root := cfg.SessionsDir()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrExternalTool, "session", "list", root, err)
	}

	var out []Summary
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		summary := Summary{ID: e.Name()}

		if plan, err := LoadPlan(dir); err == nil && plan != nil {
			summary.HasPlan = true
			summary.PlanID = plan.ID
			summary.CreatedAt = plan.CreatedAt
			summary.MediaType = string(plan.MediaType)
			summary.TotalItems = len(plan.Items) + len(plan.Samples) + len(plan.Unknown)
		}
		if _, err := os.Stat(filepath.Join(dir, "rollback.json")); err == nil {
			summary.HasRollback = true
		}
		out = append(out, summary)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, services.Wrap(services.ErrExternalTool, "session", "read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, services.Wrap(services.ErrIntegrity, "session", "decode", path, err)
	}
	return true, nil
}

// atomicWriteJSON writes v to a temp file in path's directory, fsyncs it,
// then renames it into place, the same discipline internal/index uses
// for its own documents.
func atomicWriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "session", "write", "create dir", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "session", "write", "create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return services.Wrap(services.ErrExternalTool, "session", "write", "encode", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return services.Wrap(services.ErrExternalTool, "session", "write", "fsync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "session", "write", "close temp file", err)
	}
	return os.Rename(tmpPath, path)
}
