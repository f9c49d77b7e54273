package sqlite

import (
	"testing"

	"wintertree/internal/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx := NewIndex()
	if err := idx.Open(t.TempDir()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func syncTestConcepts(t *testing.T, idx *Index) {
	t.Helper()
	lookup, err := domain.NewLookup([]domain.Concept{
		{ID: "https://openalex.org/C1", Idx: 0, Name: "Mathematics", Level: 0, WorksCount: 100},
		{ID: "https://openalex.org/C2", Idx: 1, Name: "Topology", Level: 1, WorksCount: 50},
		{ID: "https://openalex.org/C3", Idx: 2, Name: "Algebraic topology", Level: 2, WorksCount: 40},
	})
	if err != nil {
		t.Fatal(err)
	}
	stats, err := idx.SyncLookup(lookup)
	if err != nil {
		t.Fatalf("SyncLookup: %v", err)
	}
	if stats.ConceptsUpserted != 3 {
		t.Fatalf("upserted = %d, want 3", stats.ConceptsUpserted)
	}
}

func TestIndexSyncAndSearch(t *testing.T) {
	idx := openTestIndex(t)
	syncTestConcepts(t, idx)

	hits, err := idx.SearchConcepts("topology", 10)
	if err != nil {
		t.Fatalf("SearchConcepts: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v", hits)
	}
	// Busiest first
	if hits[0].Concept.Name != "Topology" || hits[1].Concept.Name != "Algebraic topology" {
		t.Errorf("order = %s, %s", hits[0].Concept.Name, hits[1].Concept.Name)
	}
	if hits[0].Birth != "" {
		t.Errorf("birth before sync = %q", hits[0].Birth)
	}

	hit, err := idx.ConceptByID("https://openalex.org/C1")
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.Concept.Idx != 0 {
		t.Errorf("hit = %+v", hit)
	}

	if hit, err := idx.ConceptByIdx(99); err != nil || hit != nil {
		t.Errorf("missing idx: hit = %+v, err = %v", hit, err)
	}
}

func TestIndexSyncBirths(t *testing.T) {
	idx := openTestIndex(t)
	syncTestConcepts(t, idx)

	stats, err := idx.SyncBirths(map[int]domain.PeriodKey{
		0: "1950",
		1: "1980-03",
		2: "2005-11",
	}, 7)
	if err != nil {
		t.Fatalf("SyncBirths: %v", err)
	}
	if stats.BirthsUpdated != 3 {
		t.Errorf("updated = %d, want 3", stats.BirthsUpdated)
	}

	last, err := idx.LastSyncedChunk()
	if err != nil || last != 7 {
		t.Errorf("last synced = %d, %v", last, err)
	}

	hit, err := idx.ConceptByIdx(1)
	if err != nil {
		t.Fatal(err)
	}
	if hit.Birth != "1980-03" {
		t.Errorf("birth = %q", hit.Birth)
	}

	hits, err := idx.BirthsBetween(1940, 1990, 10)
	if err != nil {
		t.Fatalf("BirthsBetween: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %+v", hits)
	}
	// Oldest first
	if hits[0].Concept.Idx != 0 || hits[1].Concept.Idx != 1 {
		t.Errorf("order = %d, %d", hits[0].Concept.Idx, hits[1].Concept.Idx)
	}

	// Re-syncing the lookup must not clear births.
	syncTestConcepts(t, idx)
	hit, err = idx.ConceptByIdx(0)
	if err != nil {
		t.Fatal(err)
	}
	if hit.Birth != "1950" {
		t.Errorf("birth after lookup re-sync = %q", hit.Birth)
	}
}

func TestNeedsFullRebuild(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex()
	if err := idx.Open(dir); err != nil {
		t.Fatal(err)
	}
	if !idx.NeedsFullRebuild() {
		t.Error("fresh index should need a rebuild until the first lookup sync")
	}
	syncTestConcepts(t, idx)
	if idx.NeedsFullRebuild() {
		t.Error("synced index should not need a rebuild")
	}
	idx.Close()

	// Same database reopened under its own directory is still valid.
	idx = NewIndex()
	if err := idx.Open(dir); err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	if idx.NeedsFullRebuild() {
		t.Error("reopened index should not need a rebuild")
	}
}
