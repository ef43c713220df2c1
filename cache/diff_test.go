package cache

import "testing"

func TestDiffEntries(t *testing.T) {
	current := map[string]string{
		"Dashboard_hi": "डैशबोर्ड",
		"Rainfall_fr":  "Pluie",
	}
	incoming := []SnapshotEntry{
		{Key: "Rainfall_fr", Value: "Précipitations"},
		{Key: "Dashboard_hi", Value: "डैशबोर्ड"},
		{Key: "Harvest_hi", Value: "फसल कटाई"},
		{Key: "", Value: "orphan"},
		{Key: "Menu_es", Value: ""},
	}

	d := DiffEntries(current, incoming)

	if len(d.Added) != 1 || d.Added[0].Key != "Harvest_hi" {
		t.Errorf("Added = %v", d.Added)
	}
	if len(d.Changed) != 1 {
		t.Fatalf("Changed = %v", d.Changed)
	}
	if c := d.Changed[0]; c.Key != "Rainfall_fr" || c.Old != "Pluie" || c.New != "Précipitations" {
		t.Errorf("Changed[0] = %+v", c)
	}
	if len(d.Unchanged) != 1 || d.Unchanged[0].Key != "Dashboard_hi" {
		t.Errorf("Unchanged = %v", d.Unchanged)
	}

	stats := d.Stats()
	if stats != (DiffStats{Added: 1, Changed: 1, Unchanged: 1, Skipped: 2}) {
		t.Errorf("Stats = %+v", stats)
	}
	if !d.HasChanges() {
		t.Error("HasChanges should be true")
	}
}

func TestDiffEntries_NoChanges(t *testing.T) {
	d := DiffEntries(map[string]string{"a_hi": "x"}, []SnapshotEntry{{Key: "a_hi", Value: "x"}})
	if d.HasChanges() {
		t.Error("identical entries should not report changes")
	}
}

func TestDiffEntries_DuplicateKeysLastWins(t *testing.T) {
	d := DiffEntries(map[string]string{"a_hi": "x"}, []SnapshotEntry{
		{Key: "a_hi", Value: "y"},
		{Key: "a_hi", Value: "x"},
		{Key: "b_hi", Value: "1"},
		{Key: "b_hi", Value: "2"},
	})

	if len(d.Changed) != 0 || len(d.Unchanged) != 1 {
		t.Errorf("a_hi should end up unchanged: %+v", d)
	}
	if len(d.Added) != 1 || d.Added[0].Value != "2" {
		t.Errorf("Added = %v", d.Added)
	}
}

func TestImporter_Preview(t *testing.T) {
	c := NewLRUCache(0, 0)
	c.Set("Dashboard_hi", "डैशबोर्ड")

	d, err := NewImporter(c).Preview([]byte(`{"Dashboard_hi":"डैशबोर्ड","Menu_hi":"मेनू"}`))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if d.Stats().Added != 1 || d.Stats().Unchanged != 1 {
		t.Errorf("Stats = %+v", d.Stats())
	}
	if c.Len() != 1 {
		t.Error("Preview must not modify the cache")
	}

	if _, err := NewImporter(c).Preview([]byte("nope")); err == nil {
		t.Error("Preview should reject invalid input")
	}
}
