package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

func testStoreTree() *domain.Tree {
	chunks := domain.PlanChunks([]domain.SourceFile{
		{Path: "part_000.gz", Bytes: 600},
		{Path: "part_001.gz", Bytes: 600},
	}, 1000)
	return domain.NewTree(
		domain.TreeConfig{ConceptCount: 2, ChunkTargetBytes: 1000, MinConceptScore: 0.3, MonthFromYear: 1980},
		domain.TreeFiles{Total: 2, TotalBytes: 1200, Dirs: 1},
		chunks,
	)
}

func TestTreeRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if store.Exists() {
		t.Fatal("store should start empty")
	}

	tree := testStoreTree()
	if err := store.Save(tree); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !store.Exists() {
		t.Fatal("tree should exist after save")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Version != tree.Version ||
		loaded.Progress.ChunksTotal != tree.Progress.ChunksTotal ||
		len(loaded.Chunks) != len(tree.Chunks) {
		t.Errorf("loaded tree differs: %+v", loaded)
	}
	if loaded.Config.MinConceptScore != 0.3 {
		t.Errorf("config = %+v", loaded.Config)
	}

	// No stray temp files after atomic writes.
	entries, err := os.ReadDir(filepath.Dir(store.TreePath()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestLoadCorruptTree(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := os.MkdirAll(filepath.Dir(store.TreePath()), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.TreePath(), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for corrupt tree")
	}
}

func TestLookupRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if store.LookupExists() {
		t.Fatal("lookup should start absent")
	}

	lookup, err := domain.NewLookup([]domain.Concept{
		{ID: "C1", Idx: 0, Name: "Mathematics", Level: 0, WorksCount: 100},
		{ID: "C2", Idx: 1, Name: "Topology", Level: 1, WorksCount: 50},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.SaveLookup(lookup); err != nil {
		t.Fatalf("SaveLookup: %v", err)
	}
	if !store.LookupExists() {
		t.Fatal("lookup should exist after save")
	}

	loaded, err := store.LoadLookup()
	if err != nil {
		t.Fatalf("LoadLookup: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("size = %d, want 2", loaded.Size())
	}
	idx, ok := loaded.IdxOf("C2")
	if !ok || idx != 1 {
		t.Errorf("IdxOf(C2) = %d, %v", idx, ok)
	}
	c, _ := loaded.At(0)
	if c.Name != "Mathematics" || c.WorksCount != 100 {
		t.Errorf("At(0) = %+v", c)
	}
}

func TestChunkArtifactsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	acc := domain.NewAccumulator()
	acc.AddScanned()
	acc.AddRecord("2000", []int{0, 1})
	acc.AddScanned()
	acc.AddRecord("2000", []int{0, 1})
	acc.AddScanned()
	acc.AddRecord("2000", []int{2})

	meta := &domain.ChunkMeta{
		ID:            1,
		Files:         []string{"part_000.gz"},
		PapersTotal:   acc.Papers(),
		PapersMatched: acc.Matched(),
		PairsCounted:  acc.Pairs(),
		UniquePairs:   acc.UniquePairs(),
		PeriodsSeen:   acc.Periods(),
		PeriodPapers:  acc.PeriodPapers(),
		Timestamp:     "2026-01-01 00:00:00",
	}

	if err := store.WriteChunk(acc, meta); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}

	activity, err := store.ReadActivity(1)
	if err != nil {
		t.Fatalf("ReadActivity: %v", err)
	}
	act := activity["2000"]
	if act[0] != 2 || act[1] != 2 || act[2] != 1 {
		t.Errorf("activity = %v", act)
	}

	cooc, err := store.ReadCooc(1)
	if err != nil {
		t.Fatalf("ReadCooc: %v", err)
	}
	if cooc["2000"][domain.NewPair(0, 1)] != 2 {
		t.Errorf("cooc = %v", cooc["2000"])
	}
	if len(cooc["2000"]) != 1 {
		t.Errorf("cooc has %d pairs, want 1", len(cooc["2000"]))
	}

	gotMeta, err := store.ReadMeta(1)
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if gotMeta.PapersTotal != 3 || gotMeta.PapersMatched != 3 || gotMeta.PairsCounted != 2 {
		t.Errorf("meta = %+v", gotMeta)
	}
	if gotMeta.PeriodPapers["2000"] != 3 {
		t.Errorf("period papers = %v", gotMeta.PeriodPapers)
	}
}

func TestWriteBirths(t *testing.T) {
	store := NewStore(t.TempDir())

	lookup, err := domain.NewLookup([]domain.Concept{
		{ID: "C1", Idx: 0, Name: "Mathematics"},
		{ID: "C2", Idx: 1, Name: "Topology"},
	})
	if err != nil {
		t.Fatal(err)
	}

	path, err := store.WriteBirths(map[int]domain.PeriodKey{
		0: "1950",
		1: "1980-03",
	}, lookup)
	if err != nil {
		t.Fatalf("WriteBirths: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"Mathematics":1950`, `"Topology":1980`, `"1980-03"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("births file missing %s", want)
		}
	}
}

func TestWriteSnapshot(t *testing.T) {
	store := NewStore(t.TempDir())

	dir, err := store.WriteSnapshot(&ports.Snapshot{
		CutoffYear: 2015,
		Activity:   map[int]int64{0: 10, 1: 5},
		Cooc:       map[domain.Pair]int64{domain.NewPair(0, 1): 4},
		TotalWorks: 15,
		ChunksRead: 2,
	})
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	for _, name := range []string{"activity.json", "cooc.json.gz", "meta.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing snapshot artifact %s: %v", name, err)
		}
	}

	var cooc map[string]int64
	if err := readGzJSON(filepath.Join(dir, "cooc.json.gz"), &cooc); err != nil {
		t.Fatalf("read snapshot cooc: %v", err)
	}
	if cooc["0|1"] != 4 {
		t.Errorf("snapshot cooc = %v", cooc)
	}
}
