package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"organizer/internal/config"
	"organizer/internal/fsutil"
	"organizer/internal/index"
	"organizer/internal/services"
)

// Mode selects how Import reconciles archive content with the
// destination.
type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModeForce  Mode = "force"
	ModeMerge  Mode = "merge"
)

// ImportOptions controls one Import call.
type ImportOptions struct {
	Mode Mode
	// BackupFirst copies the current config tree sibling-wise before any
	// mutation. Ignored in ModeDryRun, which never mutates.
	BackupFirst bool
}

// Result reports what an Import did (or, in ModeDryRun, would do).
type Result struct {
	Manifest          Manifest
	DiskLabelsAdded   []string
	DiskLabelsUpdated []string
	SessionsAdded     int
	BackupPath        string
}

// ImportFile opens path as a zip archive and imports it into cfg.
func ImportFile(cfg *config.Config, path string, opts ImportOptions) (Result, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "import", "open", path, err)
	}
	defer zr.Close()
	return Import(cfg, &zr.Reader, opts)
}

// Import reconciles an open archive with cfg's config directory per
// opts.Mode.
func Import(cfg *config.Config, zr *zip.Reader, opts ImportOptions) (Result, error) {
	manifest, err := readManifest(zr)
	if err != nil {
		return Result{}, err
	}

	if opts.Mode == ModeDryRun {
		return dryRunDiff(cfg, zr, manifest)
	}

	result := Result{Manifest: manifest}

	if opts.BackupFirst {
		backupPath, err := backupConfigTree(cfg.Paths.ConfigDir)
		if err != nil {
			return Result{}, err
		}
		result.BackupPath = backupPath
	}

	if manifest.Contents.Config {
		if err := importConfig(cfg, zr, manifest); err != nil {
			return Result{}, err
		}
	}
	if manifest.Contents.Indexes {
		added, updated, err := importIndexes(cfg, zr, opts.Mode)
		if err != nil {
			return Result{}, err
		}
		result.DiskLabelsAdded, result.DiskLabelsUpdated = added, updated
	}
	if manifest.Contents.Sessions {
		count, err := importSessions(cfg, zr)
		if err != nil {
			return Result{}, err
		}
		result.SessionsAdded = count
	}

	return result, nil
}

// dryRunDiff reports a manifest-level diff without touching the
// destination: which disk labels the archive would add versus what the
// destination already has, and the archive's aggregate stats.
func dryRunDiff(cfg *config.Config, zr *zip.Reader, manifest Manifest) (Result, error) {
	result := Result{Manifest: manifest}
	if !manifest.Contents.Indexes {
		return result, nil
	}

	store := index.NewStore(cfg)
	existing, err := store.ListDiskLabels()
	if err != nil {
		return Result{}, err
	}
	existingSet := make(map[string]bool, len(existing))
	for _, label := range existing {
		existingSet[label] = true
	}

	for _, name := range perDiskFiles(zr) {
		label := strings.TrimSuffix(filepath.Base(name), ".json")
		if existingSet[label] {
			result.DiskLabelsUpdated = append(result.DiskLabelsUpdated, label)
		} else {
			result.DiskLabelsAdded = append(result.DiskLabelsAdded, label)
		}
	}
	return result, nil
}

func importConfig(cfg *config.Config, zr *zip.Reader, manifest Manifest) error {
	file := findFile(zr, "config/config.toml")
	if file == nil {
		return nil
	}
	data, err := readZipFile(file)
	if err != nil {
		return err
	}

	var imported config.Config
	if err := toml.Unmarshal(data, &imported); err != nil {
		return services.Wrap(services.ErrIntegrity, "import", "config", "parse config.toml", err)
	}

	// A redacted export never carries real credentials; keep the
	// destination's own secrets rather than wiping them.
	if !manifest.IncludesSecrets {
		imported.TMDB.APIKey = cfg.TMDB.APIKey
		imported.TMDB.BearerToken = cfg.TMDB.BearerToken
	}
	imported.Paths = cfg.Paths

	out, err := toml.Marshal(imported)
	if err != nil {
		return services.Wrap(services.ErrIntegrity, "import", "config", "marshal config", err)
	}
	path := filepath.Join(cfg.Paths.ConfigDir, "config.toml")
	if err := os.MkdirAll(cfg.Paths.ConfigDir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "import", "config", "create config dir", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "import", "config", path, err)
	}
	return nil
}

func importIndexes(cfg *config.Config, zr *zip.Reader, mode Mode) (added, updated []string, err error) {
	store := index.NewStore(cfg)

	for _, name := range perDiskFiles(zr) {
		var disk index.DiskIndex
		if err := readZipJSON(zr, name, &disk); err != nil {
			return nil, nil, err
		}

		existing, err := store.LoadDisk(disk.Label)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case existing == nil:
			if err := store.SaveDisk(disk); err != nil {
				return nil, nil, err
			}
			added = append(added, disk.Label)
		case mode == ModeForce:
			if err := store.SaveDisk(disk); err != nil {
				return nil, nil, err
			}
			updated = append(updated, disk.Label)
		case disk.ScannedAt.After(existing.ScannedAt):
			// merge: the disk label conflicts; the newer last_indexed wins.
			if err := store.SaveDisk(disk); err != nil {
				return nil, nil, err
			}
			updated = append(updated, disk.Label)
		}
	}

	if _, err := store.Rebuild(); err != nil {
		return nil, nil, err
	}
	return added, updated, nil
}

// importSessions appends every session directory the archive carries that
// the destination doesn't already have. Sessions are execution history:
// always appended, never overwritten, in every import mode.
func importSessions(cfg *config.Config, zr *zip.Reader) (int, error) {
	root := cfg.SessionsDir()
	existing := make(map[string]bool)
	if entries, err := os.ReadDir(root); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				existing[e.Name()] = true
			}
		}
	} else if !os.IsNotExist(err) {
		return 0, services.Wrap(services.ErrExternalTool, "import", "sessions", root, err)
	}

	added := make(map[string]bool)
	for _, f := range zr.File {
		rel := strings.TrimPrefix(f.Name, "sessions/")
		if rel == f.Name || rel == "" || strings.HasSuffix(f.Name, "/") {
			continue
		}
		parts := strings.SplitN(rel, "/", 2)
		if len(parts) != 2 {
			continue
		}
		sessionID := parts[0]
		if existing[sessionID] {
			continue
		}
		destPath := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return 0, services.Wrap(services.ErrExternalTool, "import", "sessions", destPath, err)
		}
		data, err := readZipFile(f)
		if err != nil {
			return 0, err
		}
		if err := os.WriteFile(destPath, data, 0o644); err != nil {
			return 0, services.Wrap(services.ErrExternalTool, "import", "sessions", destPath, err)
		}
		added[sessionID] = true
	}
	return len(added), nil
}

func backupConfigTree(configDir string) (string, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return "", nil
	}
	backupPath := fmt.Sprintf("%s.backup-%d", configDir, time.Now().UnixNano())
	if err := copyTree(configDir, backupPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "import", "backup", backupPath, err)
	}
	return backupPath, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if _, err := fsutil.CopyFileVerified(path, target); err != nil {
			return err
		}
		return nil
	})
}

func readManifest(zr *zip.Reader) (Manifest, error) {
	var manifest Manifest
	if err := readZipJSON(zr, "manifest.json", &manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

func perDiskFiles(zr *zip.Reader) []string {
	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "indexes/per-disk/") && strings.HasSuffix(f.Name, ".json") {
			names = append(names, f.Name)
		}
	}
	return names
}

func findFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, services.Wrap(services.ErrIntegrity, "import", "open entry", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, services.Wrap(services.ErrIntegrity, "import", "read entry", f.Name, err)
	}
	return data, nil
}

func readZipJSON(zr *zip.Reader, name string, v any) error {
	f := findFile(zr, name)
	if f == nil {
		return services.Wrap(services.ErrValidation, "import", "missing entry", name, nil)
	}
	data, err := readZipFile(f)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return services.Wrap(services.ErrIntegrity, "import", "decode", name, err)
	}
	return nil
}
