package cache

import "sort"

// Diff describes how an incoming snapshot differs from a cache.
type Diff struct {
	// Added are keys the cache does not hold yet.
	Added []SnapshotEntry

	// Changed are keys whose incoming value differs from the cached one.
	Changed []ChangedEntry

	// Unchanged are keys held with the same value.
	Unchanged []SnapshotEntry

	// Skipped are entries with an empty key or value; Import ignores them.
	Skipped int
}

// ChangedEntry pairs the cached and incoming values for one key.
type ChangedEntry struct {
	Key string
	Old string
	New string
}

// DiffStats contains summary counts for a diff.
type DiffStats struct {
	Added     int `json:"added"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// Stats returns summary counts for the diff.
func (d *Diff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Changed:   len(d.Changed),
		Unchanged: len(d.Unchanged),
		Skipped:   d.Skipped,
	}
}

// HasChanges reports whether importing would modify the cache.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Changed) > 0
}

// DiffEntries compares current cache contents with incoming entries.
// Results are sorted by key.
func DiffEntries(current map[string]string, incoming []SnapshotEntry) *Diff {
	d := &Diff{}
	seen := make(map[string]bool, len(incoming))

	for _, e := range incoming {
		if e.Key == "" || e.Value == "" {
			d.Skipped++
			continue
		}
		// Later duplicates win, matching Import
		if seen[e.Key] {
			d.remove(e.Key)
		}
		seen[e.Key] = true

		old, ok := current[e.Key]
		switch {
		case !ok:
			d.Added = append(d.Added, e)
		case old != e.Value:
			d.Changed = append(d.Changed, ChangedEntry{Key: e.Key, Old: old, New: e.Value})
		default:
			d.Unchanged = append(d.Unchanged, e)
		}
	}

	sort.Slice(d.Added, func(i, j int) bool { return d.Added[i].Key < d.Added[j].Key })
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].Key < d.Changed[j].Key })
	sort.Slice(d.Unchanged, func(i, j int) bool { return d.Unchanged[i].Key < d.Unchanged[j].Key })
	return d
}

// Preview decodes a snapshot and diffs it against the cache without importing.
func (i *Importer) Preview(data []byte) (*Diff, error) {
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return DiffEntries(i.cache.Entries(), snap.Entries), nil
}

func (d *Diff) remove(key string) {
	d.Added = dropKey(d.Added, key)
	d.Unchanged = dropKey(d.Unchanged, key)
	for i, c := range d.Changed {
		if c.Key == key {
			d.Changed = append(d.Changed[:i], d.Changed[i+1:]...)
			break
		}
	}
}

func dropKey(entries []SnapshotEntry, key string) []SnapshotEntry {
	for i, e := range entries {
		if e.Key == key {
			return append(entries[:i], entries[i+1:]...)
		}
	}
	return entries
}
