package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"organizer/internal/config"
	"organizer/internal/fsutil"
	"organizer/internal/services"
)

// Store persists per-disk and central index documents under the
// configured config directory, serializing concurrent writers with a
// single-instance file lock the same way a daemon guards its own lock
// file.
type Store struct {
	cfg      *config.Config
	lockPath string
	lock     *flock.Flock
}

// NewStore constructs a Store for cfg.
func NewStore(cfg *config.Config) *Store {
	lockPath := filepath.Join(cfg.Paths.ConfigDir, "index.lock")
	return &Store{cfg: cfg, lockPath: lockPath, lock: flock.New(lockPath)}
}

func (s *Store) diskPath(label string) string {
	return filepath.Join(s.cfg.DiskIndexesDir(), label+".json")
}

// LoadDisk reads a disk index, or (nil, nil) if it has never been scanned.
func (s *Store) LoadDisk(label string) (*DiskIndex, error) {
	var idx DiskIndex
	ok, err := readJSON(s.diskPath(label), &idx)
	if err != nil || !ok {
		return nil, err
	}
	return &idx, nil
}

// SaveDisk atomically writes a disk index.
func (s *Store) SaveDisk(idx DiskIndex) error {
	return s.withLock(func() error {
		if err := os.MkdirAll(s.cfg.DiskIndexesDir(), 0o755); err != nil {
			return services.Wrap(services.ErrExternalTool, "index", "save_disk", "create disk_indexes dir", err)
		}
		return atomicWriteJSON(s.diskPath(idx.Label), idx)
	})
}

// ListDiskLabels returns every disk label with a saved index.
func (s *Store) ListDiskLabels() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.DiskIndexesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrExternalTool, "index", "list_disks", s.cfg.DiskIndexesDir(), err)
	}
	var labels []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" {
			continue
		}
		labels = append(labels, e.Name()[:len(e.Name())-len(ext)])
	}
	sort.Strings(labels)
	return labels, nil
}

// LoadCentral reads the merged central index, or (nil, nil) if it has
// never been built.
func (s *Store) LoadCentral() (*Central, error) {
	var central Central
	ok, err := readJSON(s.cfg.CentralIndexPath(), &central)
	if err != nil || !ok {
		return nil, err
	}
	return &central, nil
}

// Rebuild reloads every saved disk index, combines all of their entries
// (a title organized on several disks keeps one entry per disk, which
// Duplicates relies on), derives the secondary lookup tables, and
// atomically replaces central_index.json — backing up whatever was there
// first.
func (s *Store) Rebuild() (*Central, error) {
	labels, err := s.ListDiskLabels()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0)
	for _, label := range labels {
		disk, err := s.LoadDisk(label)
		if err != nil {
			return nil, err
		}
		if disk == nil {
			continue
		}
		entries = append(entries, disk.Entries...)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Title != entries[j].Title {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].TMDBID < entries[j].TMDBID
	})

	central := Central{
		Version:   "1.0",
		UpdatedAt: time.Now(),
		Disks:     labels,
		Entries:   entries,
		Secondary: BuildSecondary(entries),
	}

	if err := s.withLock(func() error { return s.replaceCentral(central) }); err != nil {
		return nil, err
	}
	return &central, nil
}

// SaveCentral atomically replaces the central index with central as-is,
// without recomputing it from the per-disk sources. Used by callers that
// mutate a loaded Central in place (e.g. marking a disk online/offline)
// and want to persist exactly that, not a fresh Rebuild.
func (s *Store) SaveCentral(central Central) error {
	return s.withLock(func() error { return s.replaceCentral(central) })
}

// RemoveDisk deletes label's per-disk index file. Callers should call
// Rebuild afterward so the central index no longer reflects label.
func (s *Store) RemoveDisk(label string) error {
	path := s.diskPath(label)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return services.Wrap(services.ErrNotFound, "index", "remove_disk", label, err)
		}
		return services.Wrap(services.ErrExternalTool, "index", "remove_disk", path, err)
	}
	return nil
}

func (s *Store) replaceCentral(central Central) error {
	path := s.cfg.CentralIndexPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "rebuild", "create config dir", err)
	}
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".backup"); err != nil {
			return services.Wrap(services.ErrExternalTool, "index", "rebuild", "backup previous central index", err)
		}
	}
	return atomicWriteJSON(path, central)
}

func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "lock", "create lock dir", err)
	}
	locked, err := s.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "lock", "acquire index lock", err)
	}
	if !locked {
		return services.Wrap(services.ErrConflict, "index", "lock", "another process holds the index lock", nil)
	}
	defer s.lock.Unlock()
	return fn()
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, services.Wrap(services.ErrExternalTool, "index", "read", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, services.Wrap(services.ErrIntegrity, "index", "decode", path, err)
	}
	return true, nil
}

// atomicWriteJSON writes v to a temp file in dir's directory, fsyncs it,
// then renames it over path — the same write-temp-then-rename discipline
// internal/fsutil uses for every other durable write in this project.
func atomicWriteJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "write", "create dir", err)
	}
	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "write", "create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return services.Wrap(services.ErrExternalTool, "index", "write", "encode", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return services.Wrap(services.ErrExternalTool, "index", "write", "fsync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "write", "close temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return services.Wrap(services.ErrExternalTool, "index", "write", "rename into place", err)
	}
	return fsutil.FsyncParent(path)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
