package index

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"organizer/internal/media"
	"organizer/internal/services"
	"organizer/internal/synth"
)

// entryNamespace scopes the deterministic per-(disk,path) entry id so
// rescanning unchanged NFOs never mints a new id for the same title.
var entryNamespace = uuid.MustParse("2f6f3e0a-6b2a-4f8a-9a9a-6f7a0b1c2d3e")

func entryID(label, dir string) string {
	return uuid.NewMD5(entryNamespace, []byte(label+"|"+dir)).String()
}

// Scan walks root and rebuilds a DiskIndex from the movie.nfo/tvshow.nfo
// sidecars it finds, treating the filesystem — not any prior index — as
// authoritative. When previous is non-nil and force is false,
// an entry whose NFO mtime and size are unchanged since the last scan is
// carried over without being re-parsed.
func Scan(label, root string, previous *DiskIndex, force bool) (DiskIndex, error) {
	prevByDir := make(map[string]Entry)
	if previous != nil {
		for _, e := range previous.Entries {
			prevByDir[e.Path] = e
		}
	}

	now := time.Now()
	var entries []Entry
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != "movie.nfo" && name != "tvshow.nfo" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		dir := filepath.Dir(path)

		if !force {
			if prev, ok := prevByDir[dir]; ok && prev.ModifiedAt.Equal(info.ModTime()) && prev.Size == info.Size() {
				prev.ScannedAt = now
				entries = append(entries, prev)
				return nil
			}
		}

		entry, err := parseEntry(label, dir, name, path, info, now)
		if err != nil {
			return services.Wrap(services.ErrIntegrity, "index", "scan", path, err)
		}
		entries = append(entries, entry)
		return nil
	})
	if walkErr != nil {
		return DiskIndex{}, walkErr
	}

	return DiskIndex{Version: "1.0", Label: label, Root: root, Online: true, ScannedAt: now, Entries: entries}, nil
}

func parseEntry(label, dir, nfoName, path string, info fs.FileInfo, scannedAt time.Time) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}

	var record media.LookupRecord
	var kind media.Kind
	if nfoName == "movie.nfo" {
		record, err = synth.ParseMovieNFO(data)
		kind = media.KindMovie
	} else {
		record, err = synth.ParseTVShowNFO(data)
		kind = media.KindTVShow
	}
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:            entryID(label, dir),
		Kind:          kind,
		TMDBID:        record.TMDBID,
		IMDbID:        record.IMDbID,
		Title:         record.LocalizedTitle,
		OriginalTitle: record.OriginalTitle,
		Year:          record.Year,
		Country:       record.OriginCountry,
		Genres:        record.Genres,
		Directors:     record.Directors,
		Path:          dir,
		DiskLabel:     label,
		Online:        true,
		ScannedAt:     scannedAt,
		ModifiedAt:    info.ModTime(),
		Size:          info.Size(),
	}
	for _, c := range record.Cast {
		entry.Cast = append(entry.Cast, c.Name)
	}
	if record.Collection != nil {
		entry.CollectionID = record.Collection.ID
		entry.CollectionName = record.Collection.Name
		entry.CollectionTotal = len(record.Collection.AllMemberIDs)
	}
	return entry, nil
}
