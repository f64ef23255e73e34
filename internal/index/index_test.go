package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"organizer/internal/config"
	"organizer/internal/media"
	"organizer/internal/synth"
)

func writeMovieNFO(t *testing.T, dir string, record media.LookupRecord) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.nfo"), synth.MovieNFO(record, "", ""), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanReconstructsEntriesFromNFO(t *testing.T) {
	root := t.TempDir()
	writeMovieNFO(t, filepath.Join(root, "US_UnitedStates", "Avatar"), media.LookupRecord{
		TMDBID: 19995, IMDbID: "tt0499549", OriginalTitle: "Avatar", LocalizedTitle: "Avatar",
		Year: 2009, OriginCountry: "US", Genres: []string{"Science Fiction"}, Directors: []string{"James Cameron"},
		Cast: []media.CastMember{{Name: "Sam Worthington", Ordinal: 0}},
	})

	idx, err := Scan("disk1", root, nil, false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(idx.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(idx.Entries))
	}
	e := idx.Entries[0]
	if e.TMDBID != 19995 || e.Title != "Avatar" || e.Kind != media.KindMovie {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if len(e.Cast) != 1 || e.Cast[0] != "Sam Worthington" {
		t.Fatalf("expected cast to round-trip, got %+v", e.Cast)
	}
}

func TestScanSkipsUnchangedEntriesWithoutForce(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Avatar")
	writeMovieNFO(t, dir, media.LookupRecord{TMDBID: 1, OriginalTitle: "X", LocalizedTitle: "X", Year: 2000})

	first, err := Scan("disk1", root, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Scan("disk1", root, &first, false)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Entries[0].ScannedAt.After(first.Entries[0].ScannedAt) && !second.Entries[0].ScannedAt.Equal(first.Entries[0].ScannedAt) {
		t.Fatal("expected carried-over entry to still update ScannedAt")
	}
}

func TestBuildSecondaryIndexesByFacet(t *testing.T) {
	entries := []Entry{
		{TMDBID: 1, Cast: []string{"Actor A"}, Directors: []string{"Dir A"}, Genres: []string{"Drama"}, Year: 2001, Country: "US"},
		{TMDBID: 2, Cast: []string{"Actor A"}, Directors: []string{"Dir B"}, Genres: []string{"Drama"}, Year: 2001, Country: "GB"},
	}
	s := BuildSecondary(entries)
	if len(s.ByActor["Actor A"]) != 2 {
		t.Fatalf("expected both entries under shared actor, got %v", s.ByActor["Actor A"])
	}
	if len(s.ByGenre["Drama"]) != 2 {
		t.Fatalf("expected both entries under shared genre, got %v", s.ByGenre["Drama"])
	}
	if len(s.ByYear["2001"]) != 2 {
		t.Fatalf("expected both entries under shared year, got %v", s.ByYear["2001"])
	}
}

func TestDuplicatesGroupsByKindAndTMDBID(t *testing.T) {
	central := &Central{Entries: []Entry{
		{Kind: media.KindMovie, TMDBID: 1, DiskLabel: "disk1"},
		{Kind: media.KindMovie, TMDBID: 1, DiskLabel: "disk2"},
		{Kind: media.KindMovie, TMDBID: 2, DiskLabel: "disk1"},
	}}
	dupes := Duplicates(central)
	if len(dupes) != 1 {
		t.Fatalf("expected exactly one duplicate group, got %d", len(dupes))
	}
	for _, entries := range dupes {
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries in duplicate group, got %d", len(entries))
		}
	}
}

func TestSearchAndCombinesFilters(t *testing.T) {
	central := &Central{Entries: []Entry{
		{Title: "Avatar", Kind: media.KindMovie, Year: 2009, Country: "US", Genres: []string{"Sci-Fi"}},
		{Title: "Avatar: The Way of Water", Kind: media.KindMovie, Year: 2022, Country: "US", Genres: []string{"Sci-Fi"}},
		{Title: "Parasite", Kind: media.KindMovie, Year: 2019, Country: "KR", Genres: []string{"Thriller"}},
	}}
	results := Search(central, Query{TitleLike: "avatar", YearMax: 2010})
	if len(results) != 1 || results[0].Title != "Avatar" {
		t.Fatalf("expected exactly the 2009 Avatar, got %+v", results)
	}
}

func TestSetOnlineMarksOnlyMatchingDisk(t *testing.T) {
	central := &Central{Entries: []Entry{
		{TMDBID: 1, DiskLabel: "disk1", Online: true},
		{TMDBID: 2, DiskLabel: "disk2", Online: true},
	}}
	SetOnline(central, "disk2", false)
	if !central.Entries[0].Online || central.Entries[1].Online {
		t.Fatalf("expected only disk2's entry to flip offline, got %+v", central.Entries)
	}
}

func TestStoreRebuildMergesDisksAndBacksUpPrevious(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Paths: config.Paths{ConfigDir: dir}}
	store := NewStore(cfg)

	if err := store.SaveDisk(DiskIndex{Version: "1.0", Label: "disk1", ScannedAt: time.Now(), Entries: []Entry{
		{Kind: media.KindMovie, TMDBID: 1, Title: "A", DiskLabel: "disk1"},
	}}); err != nil {
		t.Fatalf("SaveDisk: %v", err)
	}

	first, err := store.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(first.Entries) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(first.Entries))
	}

	if err := store.SaveDisk(DiskIndex{Version: "1.0", Label: "disk2", ScannedAt: time.Now(), Entries: []Entry{
		{Kind: media.KindMovie, TMDBID: 2, Title: "B", DiskLabel: "disk2"},
	}}); err != nil {
		t.Fatalf("SaveDisk: %v", err)
	}
	second, err := store.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if len(second.Entries) != 2 {
		t.Fatalf("expected 2 merged entries after second disk, got %d", len(second.Entries))
	}
	if _, err := os.Stat(cfg.CentralIndexPath() + ".backup"); err != nil {
		t.Fatalf("expected a backup of the prior central index: %v", err)
	}

	loaded, err := store.LoadCentral()
	if err != nil {
		t.Fatalf("LoadCentral: %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("expected persisted central index to round-trip 2 entries, got %d", len(loaded.Entries))
	}
}
