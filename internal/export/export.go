package export

import (
	"archive/zip"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"organizer/internal/config"
	"organizer/internal/index"
	"organizer/internal/media"
	"organizer/internal/services"
)

// Section names accepted by Options.Only.
const (
	SectionConfig   = "config"
	SectionIndexes  = "indexes"
	SectionSessions = "sessions"
)

// Options controls what an Export writes.
type Options struct {
	// Only restricts the archive to one section ("config", "indexes",
	// "sessions"); empty means every section.
	Only string
	// IncludeSecrets keeps the TMDB API key/bearer token in config/
	// instead of the default redaction.
	IncludeSecrets bool
	// CreatedBy is recorded in the manifest (e.g. hostname or caller id).
	CreatedBy string
}

func (o Options) wants(section string) bool {
	return o.Only == "" || o.Only == section
}

// Export writes a zip archive to w: manifest.json, config/, indexes/, and
// sessions/* per Options.
func Export(cfg *config.Config, opts Options, w io.Writer) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	contents := Contents{
		Config:   opts.wants(SectionConfig),
		Indexes:  opts.wants(SectionIndexes),
		Sessions: opts.wants(SectionSessions),
	}

	var central *index.Central
	var labels []string
	sessionCount := 0

	if contents.Config {
		if err := writeConfigSection(zw, cfg, opts.IncludeSecrets); err != nil {
			return err
		}
	}
	if contents.Indexes {
		var err error
		central, labels, err = writeIndexesSection(zw, cfg)
		if err != nil {
			return err
		}
	}
	if contents.Sessions {
		var err error
		sessionCount, err = writeSessionsSection(zw, cfg)
		if err != nil {
			return err
		}
	}

	manifest := Manifest{
		Version:         ManifestVersion,
		CreatedBy:       opts.CreatedBy,
		CreatedAt:       time.Now(),
		Contents:        contents,
		Stats:           computeStats(central, labels, sessionCount),
		IncludesSecrets: opts.IncludeSecrets,
	}
	return writeJSONEntry(zw, "manifest.json", manifest)
}

func computeStats(central *index.Central, labels []string, sessionCount int) Stats {
	stats := Stats{DiskCount: len(labels), SessionCount: sessionCount}
	if central == nil {
		return stats
	}
	for _, e := range central.Entries {
		switch e.Kind {
		case media.KindMovie:
			stats.MovieCount++
		case media.KindTVShow:
			stats.TVCount++
		}
	}
	return stats
}

func writeConfigSection(zw *zip.Writer, cfg *config.Config, includeSecrets bool) error {
	redacted := *cfg
	if !includeSecrets {
		redacted.TMDB.APIKey = ""
		redacted.TMDB.BearerToken = ""
	}
	data, err := toml.Marshal(redacted)
	if err != nil {
		return services.Wrap(services.ErrIntegrity, "export", "config", "marshal config", err)
	}
	entry, err := zw.Create("config/config.toml")
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "export", "config", "create archive entry", err)
	}
	_, err = entry.Write(data)
	return err
}

func writeIndexesSection(zw *zip.Writer, cfg *config.Config) (*index.Central, []string, error) {
	store := index.NewStore(cfg)

	central, err := store.LoadCentral()
	if err != nil {
		return nil, nil, err
	}
	if central != nil {
		if err := writeJSONEntry(zw, "indexes/central/central_index.json", central); err != nil {
			return nil, nil, err
		}
	}

	labels, err := store.ListDiskLabels()
	if err != nil {
		return nil, nil, err
	}
	for _, label := range labels {
		disk, err := store.LoadDisk(label)
		if err != nil {
			return nil, nil, err
		}
		if disk == nil {
			continue
		}
		if err := writeJSONEntry(zw, "indexes/per-disk/"+label+".json", disk); err != nil {
			return nil, nil, err
		}
	}
	return central, labels, nil
}

func writeSessionsSection(zw *zip.Writer, cfg *config.Config) (int, error) {
	root := cfg.SessionsDir()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, services.Wrap(services.ErrExternalTool, "export", "sessions", root, err)
	}

	count := 0
	for _, dirEntry := range entries {
		if !dirEntry.IsDir() {
			continue
		}
		sessionDir := filepath.Join(root, dirEntry.Name())
		walkErr := filepath.WalkDir(sessionDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			return copyFileToArchive(zw, "sessions/"+filepath.ToSlash(rel), path)
		})
		if walkErr != nil {
			return 0, services.Wrap(services.ErrExternalTool, "export", "sessions", sessionDir, walkErr)
		}
		count++
	}
	return count, nil
}

func copyFileToArchive(zw *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, src)
	return err
}

func writeJSONEntry(zw *zip.Writer, name string, v any) error {
	entry, err := zw.Create(name)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "export", "write", name, err)
	}
	enc := json.NewEncoder(entry)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return services.Wrap(services.ErrIntegrity, "export", "encode", name, err)
	}
	return nil
}
