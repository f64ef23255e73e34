package index

// Duplicates groups entries that share the same (media_kind, tmdb_id) —
// the same title organized onto more than one disk. Keys
// with only one entry are omitted.
func Duplicates(central *Central) map[Key][]Entry {
	groups := make(map[Key][]Entry)
	if central == nil {
		return groups
	}
	for _, e := range central.Entries {
		groups[e.Key()] = append(groups[e.Key()], e)
	}
	for key, entries := range groups {
		if len(entries) < 2 {
			delete(groups, key)
		}
	}
	return groups
}

// Collections groups movie entries by their non-empty collection name.
func Collections(central *Central) map[string][]Entry {
	groups := make(map[string][]Entry)
	if central == nil {
		return groups
	}
	for _, e := range central.Entries {
		if e.CollectionName == "" {
			continue
		}
		groups[e.CollectionName] = append(groups[e.CollectionName], e)
	}
	return groups
}

// CollectionRollup aggregates one external collection id: the name, the
// members this library owns across every
// disk, the known total membership (0 when no scanned entry carried a
// collection_total, i.e. the NFO never recorded the full member set), and
// whether owned_count equals the known total.
type CollectionRollup struct {
	ID         int64
	Name       string
	OwnedTMDBIDs []int64
	OwnedCount int
	Total      int
	Complete   bool
}

// Rollups computes one CollectionRollup per unique collection id across
// every movie entry in central.
func Rollups(central *Central) []CollectionRollup {
	if central == nil {
		return nil
	}
	byID := make(map[int64]*CollectionRollup)
	var order []int64
	for _, e := range central.Entries {
		if e.CollectionID == 0 {
			continue
		}
		r, ok := byID[e.CollectionID]
		if !ok {
			r = &CollectionRollup{ID: e.CollectionID, Name: e.CollectionName}
			byID[e.CollectionID] = r
			order = append(order, e.CollectionID)
		}
		r.OwnedTMDBIDs = append(r.OwnedTMDBIDs, e.TMDBID)
		r.OwnedCount++
		if e.CollectionTotal > r.Total {
			r.Total = e.CollectionTotal
		}
	}
	out := make([]CollectionRollup, 0, len(order))
	for _, id := range order {
		r := *byID[id]
		r.Complete = r.Total > 0 && r.OwnedCount >= r.Total
		out = append(out, r)
	}
	return out
}

// SetOnline marks every entry belonging to label as online/offline in
// place, backing the --show-status output.
func SetOnline(central *Central, label string, online bool) {
	if central == nil {
		return
	}
	for i := range central.Entries {
		if central.Entries[i].DiskLabel == label {
			central.Entries[i].Online = online
		}
	}
}
