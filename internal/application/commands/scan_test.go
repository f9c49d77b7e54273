package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"wintertree/internal/application"
	"wintertree/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testPipeline builds an initialized two-chunk pipeline:
//
//	chunk 1: part_000.gz + part_001.gz (4 records, one malformed line)
//	chunk 2: part_002.gz (2 records, one without a usable year)
func testPipeline(t *testing.T) (*memCorpus, *memStore) {
	t.Helper()

	corpus := &memCorpus{
		files: []domain.SourceFile{
			{Path: "part_000.gz", Bytes: 600},
			{Path: "part_001.gz", Bytes: 600},
			{Path: "part_002.gz", Bytes: 300},
		},
		lines: map[string][]string{
			"part_000.gz": {
				record("W1", 2007, "2007-06-01", mention("C1", 0.9), mention("C2", 0.5)),
				record("W2", 1950, "", mention("C1", 0.8), mention("C3", 0.45)),
				`{broken`,
			},
			"part_001.gz": {
				record("W3", 2007, "2007-06-15", mention("C1", 0.6), mention("C2", 0.31)),
				"",
				record("W4", 2007, "2007-07-01", mention("C2", 0.29)),
			},
			"part_002.gz": {
				record("W5", 1980, "1980-03-01", mention("C3", 0.9)),
				record("W6", 0, "", mention("C1", 0.9)),
			},
		},
		broken: map[string]bool{},
	}

	store := newMemStore()
	vocab := &memVocab{concepts: testConcepts()}
	if _, err := newInitCommand(vocab, corpus, store).Execute(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return corpus, store
}

func newScanCommand(corpus *memCorpus, store *memStore, coord *application.Coordinator, max int) *ScanCommand {
	cmd := NewScanCommand(corpus, store, store, store, coord, testLogger())
	cmd.MaxChunks = max
	return cmd
}

func checkFullScanTotals(t *testing.T, store *memStore) {
	t.Helper()

	tree, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p := tree.Progress
	if p.ChunksCompleted != 2 {
		t.Fatalf("chunks completed = %d, want 2", p.ChunksCompleted)
	}
	if p.PapersScanned != 6 {
		t.Errorf("papers scanned = %d, want 6", p.PapersScanned)
	}
	if p.PapersMatched != 4 {
		t.Errorf("papers matched = %d, want 4", p.PapersMatched)
	}
	if p.PairsCounted != 3 {
		t.Errorf("pairs counted = %d, want 3", p.PairsCounted)
	}
	if p.RecordsSkipped != 1 {
		t.Errorf("records skipped = %d, want 1", p.RecordsSkipped)
	}
	if tree.Periods["2007-06"] == nil || tree.Periods["2007-06"].Papers != 2 {
		t.Errorf("period 2007-06 = %+v", tree.Periods["2007-06"])
	}
	if tree.Periods["1950"] == nil || tree.Periods["1950"].Papers != 1 {
		t.Errorf("period 1950 = %+v", tree.Periods["1950"])
	}
	if tree.Periods["1980-03"] == nil || tree.Periods["1980-03"].Papers != 1 {
		t.Errorf("period 1980-03 = %+v", tree.Periods["1980-03"])
	}
	if tree.NextPending() != nil {
		t.Error("scan should be complete")
	}
}

func TestScanCommand_Execute(t *testing.T) {
	corpus, store := testPipeline(t)

	result, err := newScanCommand(corpus, store, nil, 10).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.ChunksScanned != 2 || result.Interrupted {
		t.Fatalf("result = %+v", result)
	}
	checkFullScanTotals(t, store)

	// W4 scored below threshold: no activity for it, W5 only boosts idx 2.
	act1, err := store.ReadActivity(1)
	if err != nil {
		t.Fatal(err)
	}
	if act1["2007-06"][0] != 2 || act1["2007-06"][1] != 2 {
		t.Errorf("chunk 1 activity = %v", act1["2007-06"])
	}
	if len(act1["2007-07"]) != 0 {
		t.Errorf("below-threshold record produced activity: %v", act1["2007-07"])
	}

	cooc1, err := store.ReadCooc(1)
	if err != nil {
		t.Fatal(err)
	}
	if cooc1["2007-06"][domain.NewPair(0, 1)] != 2 {
		t.Errorf("chunk 1 cooc = %v", cooc1["2007-06"])
	}
	if cooc1["1950"][domain.NewPair(0, 2)] != 1 {
		t.Errorf("chunk 1 cooc 1950 = %v", cooc1["1950"])
	}

	meta2, err := store.ReadMeta(2)
	if err != nil {
		t.Fatal(err)
	}
	if meta2.PapersTotal != 2 || meta2.PapersMatched != 1 || meta2.PairsCounted != 0 {
		t.Errorf("chunk 2 meta = %+v", meta2)
	}
}

// Scanning one chunk per run must accumulate exactly the same totals as one
// uninterrupted run over the whole plan.
func TestScanCommand_ResumedCountsMatch(t *testing.T) {
	corpus, store := testPipeline(t)

	for i := 0; i < 2; i++ {
		result, err := newScanCommand(corpus, store, nil, 1).Execute(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if result.ChunksScanned != 1 {
			t.Fatalf("run %d scanned %d chunks", i, result.ChunksScanned)
		}
	}
	checkFullScanTotals(t, store)
}

func TestScanCommand_Interrupt(t *testing.T) {
	corpus, store := testPipeline(t)

	// Stop requested before the run claims anything: no chunk is touched.
	coord := application.NewCoordinator()
	coord.RequestStop()
	result, err := newScanCommand(corpus, store, coord, 10).Execute(context.Background())
	if !errors.Is(err, application.ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if result == nil || result.ChunksScanned != 0 || !result.Interrupted {
		t.Fatalf("result = %+v", result)
	}
	if !contains(result.Message, "resume from chunk_001") {
		t.Errorf("interrupted message lacks resume point: %q", result.Message)
	}
	tree, _ := store.Load()
	if tree.Progress.ChunksCompleted != 0 {
		t.Fatalf("chunks completed = %d, want 0", tree.Progress.ChunksCompleted)
	}

	// Resume with a fresh coordinator: totals match the uninterrupted run.
	if _, err := newScanCommand(corpus, store, application.NewCoordinator(), 10).Execute(context.Background()); err != nil {
		t.Fatalf("resume: %v", err)
	}
	checkFullScanTotals(t, store)
}

func TestScanCommand_ScanComplete(t *testing.T) {
	corpus, store := testPipeline(t)

	if _, err := newScanCommand(corpus, store, nil, 10).Execute(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := newScanCommand(corpus, store, nil, 10).Execute(context.Background())
	if !errors.Is(err, application.ErrScanComplete) {
		t.Fatalf("err = %v, want ErrScanComplete", err)
	}
}

func TestScanCommand_NotInitialized(t *testing.T) {
	_, err := newScanCommand(&memCorpus{}, newMemStore(), nil, 1).Execute(context.Background())
	if !errors.Is(err, application.ErrNotInitialized) {
		t.Fatalf("err = %v, want ErrNotInitialized", err)
	}
}

func TestScanCommand_DamagedFile(t *testing.T) {
	corpus, store := testPipeline(t)
	corpus.broken["part_001.gz"] = true

	if _, err := newScanCommand(corpus, store, nil, 10).Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	meta1, err := store.ReadMeta(1)
	if err != nil {
		t.Fatal(err)
	}
	if meta1.FilesSkipped != 1 {
		t.Errorf("files skipped = %d, want 1", meta1.FilesSkipped)
	}
	// The chunk still commits with whatever part_000.gz yielded.
	if meta1.PapersTotal != 2 || meta1.PapersMatched != 2 {
		t.Errorf("meta = %+v", meta1)
	}
	tree, _ := store.Load()
	if tree.Progress.FilesSkipped != 1 {
		t.Errorf("tree files skipped = %d, want 1", tree.Progress.FilesSkipped)
	}
}

func TestScanCommand_Validate(t *testing.T) {
	cmd := &ScanCommand{MaxChunks: 0}
	if err := cmd.Validate(); err == nil || !contains(err.Error(), "must be positive") {
		t.Fatalf("err = %v", err)
	}
}
