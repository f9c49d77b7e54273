package domain

import (
	"fmt"
	"time"
)

// TreeVersion is the current on-disk format version of the winter tree.
const TreeVersion = 1

// TreeConfig records the tunables the plan was built with. A scan must run
// with the same configuration its plan was created under.
type TreeConfig struct {
	ConceptCount     int     `json:"concept_count"`
	ChunkTargetBytes int64   `json:"chunk_target_bytes"`
	MinConceptScore  float64 `json:"min_concept_score"`
	MonthFromYear    int     `json:"month_from_year"`
	WorksDir         string  `json:"works_dir"`
}

// TreeFiles summarizes the enumerated corpus.
type TreeFiles struct {
	Total      int   `json:"total"`
	TotalBytes int64 `json:"total_bytes"`
	Dirs       int   `json:"dirs"`
}

// TreeProgress holds cumulative statistics across completed chunks.
type TreeProgress struct {
	ChunksTotal     int   `json:"chunks_total"`
	ChunksCompleted int   `json:"chunks_completed"`
	PapersScanned   int64 `json:"papers_scanned"`
	PapersMatched   int64 `json:"papers_with_concepts"`
	PairsCounted    int64 `json:"pairs_counted"`
	FilesSkipped    int   `json:"files_skipped"`
	RecordsSkipped  int64 `json:"records_skipped"`
	ScanTimeSec     float64 `json:"scan_time_sec"`
}

// PeriodStats aggregates per-period paper counts and which chunks saw them.
type PeriodStats struct {
	Papers int64 `json:"papers"`
	Chunks []int `json:"chunks"`
}

// Tree is the Progress Index: the ordered chunk plan plus completion status
// and cumulative statistics. It is the sole source of truth for what remains
// to be scanned. Created once by the planner, mutated only when a chunk's
// artifacts are durably written, never rolled back except by explicit re-plan.
type Tree struct {
	Version int                        `json:"version"`
	Created string                     `json:"created"`
	Config  TreeConfig                 `json:"config"`
	Files   TreeFiles                  `json:"files"`
	Progress TreeProgress              `json:"progress"`
	Periods map[PeriodKey]*PeriodStats `json:"periods"`
	Chunks  []Chunk                    `json:"chunks"`
}

// NewTree creates the initial Progress Index from a fresh plan.
func NewTree(cfg TreeConfig, files TreeFiles, chunks []Chunk) *Tree {
	return &Tree{
		Version: TreeVersion,
		Created: time.Now().Format("2006-01-02 15:04:05"),
		Config:  cfg,
		Files:   files,
		Progress: TreeProgress{
			ChunksTotal: len(chunks),
		},
		Periods: make(map[PeriodKey]*PeriodStats),
		Chunks:  chunks,
	}
}

// Validate checks structural invariants after loading from disk.
func (t *Tree) Validate() error {
	if t.Version != TreeVersion {
		return fmt.Errorf("unsupported tree version %d (want %d)", t.Version, TreeVersion)
	}
	if t.Progress.ChunksTotal != len(t.Chunks) {
		return fmt.Errorf("chunk count mismatch: progress says %d, plan has %d",
			t.Progress.ChunksTotal, len(t.Chunks))
	}
	for i := range t.Chunks {
		c := &t.Chunks[i]
		switch c.Status {
		case ChunkPending, ChunkScanning, ChunkDone:
		default:
			return fmt.Errorf("chunk %d: unknown status %q", c.ID, c.Status)
		}
		if len(c.Files) == 0 {
			return fmt.Errorf("chunk %d: empty file list", c.ID)
		}
	}
	return nil
}

// NextPending returns the next chunk still to be scanned, or nil when the
// scan is complete. A chunk left in the scanning state by a crash or
// interrupt has no committed artifacts and is returned again for a rescan.
func (t *Tree) NextPending() *Chunk {
	for i := range t.Chunks {
		if t.Chunks[i].Status != ChunkDone {
			return &t.Chunks[i]
		}
	}
	return nil
}

// ChunkByID returns the chunk with the given sequence number.
func (t *Tree) ChunkByID(id int) *Chunk {
	for i := range t.Chunks {
		if t.Chunks[i].ID == id {
			return &t.Chunks[i]
		}
	}
	return nil
}

// MarkScanning transitions a chunk to the scanning state.
func (t *Tree) MarkScanning(id int) error {
	c := t.ChunkByID(id)
	if c == nil {
		return fmt.Errorf("no such chunk: %d", id)
	}
	if c.Status == ChunkDone {
		return fmt.Errorf("chunk %d already done", id)
	}
	c.Status = ChunkScanning
	return nil
}

// Complete marks a chunk done and folds its metadata into the cumulative
// statistics. Callers must only invoke this after the chunk's artifacts are
// durably written.
func (t *Tree) Complete(meta *ChunkMeta) error {
	c := t.ChunkByID(meta.ID)
	if c == nil {
		return fmt.Errorf("no such chunk: %d", meta.ID)
	}
	if c.Status == ChunkDone {
		return fmt.Errorf("chunk %d already done", meta.ID)
	}

	c.Status = ChunkDone
	c.Papers = meta.PapersTotal
	c.Matched = meta.PapersMatched
	c.Pairs = meta.PairsCounted
	c.Periods = len(meta.PeriodsSeen)
	c.TimeSec = meta.ScanTimeSec
	c.Timestamp = meta.Timestamp
	if len(meta.PeriodsSeen) > 0 {
		c.YearRange = []string{
			string(meta.PeriodsSeen[0]),
			string(meta.PeriodsSeen[len(meta.PeriodsSeen)-1]),
		}
	}

	t.Progress.ChunksCompleted++
	t.Progress.PapersScanned += meta.PapersTotal
	t.Progress.PapersMatched += meta.PapersMatched
	t.Progress.PairsCounted += meta.PairsCounted
	t.Progress.FilesSkipped += meta.FilesSkipped
	t.Progress.RecordsSkipped += meta.RecordsSkipped
	t.Progress.ScanTimeSec += meta.ScanTimeSec

	for period, count := range meta.PeriodPapers {
		stats := t.Periods[period]
		if stats == nil {
			stats = &PeriodStats{}
			t.Periods[period] = stats
		}
		stats.Papers += count
		stats.Chunks = append(stats.Chunks, meta.ID)
	}

	return nil
}

// DoneChunkIDs returns the sequence numbers of all completed chunks in order.
func (t *Tree) DoneChunkIDs() []int {
	var ids []int
	for i := range t.Chunks {
		if t.Chunks[i].Status == ChunkDone {
			ids = append(ids, t.Chunks[i].ID)
		}
	}
	return ids
}

// PercentDone returns chunk completion as a percentage.
func (t *Tree) PercentDone() float64 {
	if t.Progress.ChunksTotal == 0 {
		return 0
	}
	return float64(t.Progress.ChunksCompleted) / float64(t.Progress.ChunksTotal) * 100
}
