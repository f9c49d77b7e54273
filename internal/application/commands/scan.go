package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wintertree/internal/application"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// ScanResult contains the result of a scan run
type ScanResult struct {
	Tree          *domain.Tree
	ChunksScanned int
	Interrupted   bool
	Message       string
}

// ScanCommand processes up to MaxChunks pending chunks, committing each
// chunk's artifacts and progress before claiming the next. A stop request
// from the coordinator is honored only between chunks, so the in-flight
// chunk always finishes in full.
type ScanCommand struct {
	corpus    ports.Corpus
	trees     ports.TreeStore
	lookups   ports.LookupStore
	artifacts ports.ArtifactStore
	coord     *application.Coordinator
	logger    *slog.Logger

	MaxChunks int
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand(
	corpus ports.Corpus,
	trees ports.TreeStore,
	lookups ports.LookupStore,
	artifacts ports.ArtifactStore,
	coord *application.Coordinator,
	logger *slog.Logger,
) *ScanCommand {
	return &ScanCommand{
		corpus:    corpus,
		trees:     trees,
		lookups:   lookups,
		artifacts: artifacts,
		coord:     coord,
		logger:    logger,
	}
}

// Validate checks if the scan operation is valid
func (c *ScanCommand) Validate() error {
	if c.MaxChunks <= 0 {
		return &application.ValidationError{
			Field:   "maxChunks",
			Message: "chunk count must be positive",
		}
	}
	return nil
}

// Execute runs the scan command
func (c *ScanCommand) Execute(ctx context.Context) (*ScanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if !c.trees.Exists() {
		return nil, application.ErrNotInitialized
	}
	tree, err := c.trees.Load()
	if err != nil {
		return nil, &application.TreeCorruptError{Path: c.trees.TreePath(), Reason: err.Error()}
	}

	lookup, err := c.lookups.LoadLookup()
	if err != nil {
		return nil, fmt.Errorf("failed to load concept lookup: %w", err)
	}

	if tree.NextPending() == nil {
		return nil, application.ErrScanComplete
	}

	result := &ScanResult{Tree: tree}
	for result.ChunksScanned < c.MaxChunks {
		if c.coord != nil && c.coord.Stopping() {
			result.Interrupted = true
			break
		}

		chunk := tree.NextPending()
		if chunk == nil {
			break
		}

		meta, err := c.scanChunk(ctx, tree, lookup, chunk)
		if err != nil {
			return nil, err
		}

		if err := tree.Complete(meta); err != nil {
			return nil, err
		}
		if err := c.trees.Save(tree); err != nil {
			return nil, fmt.Errorf("failed to save progress index: %w", err)
		}
		result.ChunksScanned++

		c.logger.Info("chunk committed",
			"chunk", meta.ID,
			"papers", meta.PapersTotal,
			"matched", meta.PapersMatched,
			"pairs", meta.PairsCounted,
			"elapsed_sec", fmt.Sprintf("%.1f", meta.ScanTimeSec),
			"done", fmt.Sprintf("%d/%d", tree.Progress.ChunksCompleted, tree.Progress.ChunksTotal))
	}

	result.Message = fmt.Sprintf("Scanned %d chunks (%d/%d done, %.1f%%)",
		result.ChunksScanned,
		tree.Progress.ChunksCompleted, tree.Progress.ChunksTotal, tree.PercentDone())

	if result.Interrupted {
		if next := tree.NextPending(); next != nil {
			result.Message += fmt.Sprintf(", resume from chunk_%03d", next.ID)
		}
		return result, application.ErrInterrupted
	}
	return result, nil
}

// scanChunk processes one chunk's file list into a fresh accumulator and
// writes its artifacts. The chunk is marked scanning in the persisted tree
// first so a crash mid-chunk is visible on restart.
func (c *ScanCommand) scanChunk(ctx context.Context, tree *domain.Tree, lookup *domain.Lookup, chunk *domain.Chunk) (*domain.ChunkMeta, error) {
	if err := tree.MarkScanning(chunk.ID); err != nil {
		return nil, err
	}
	if err := c.trees.Save(tree); err != nil {
		return nil, fmt.Errorf("failed to save progress index: %w", err)
	}

	c.logger.Info("chunk started",
		"chunk", chunk.ID,
		"files", len(chunk.Files),
		"bytes", chunk.Bytes)

	acc := domain.NewAccumulator()
	minScore := tree.Config.MinConceptScore
	monthFrom := tree.Config.MonthFromYear

	start := time.Now()
	filesSkipped := 0
	var recordsSkipped int64

	for i, relPath := range chunk.Files {
		fileStart := time.Now()
		papersBefore := acc.Papers()

		skipped, err := c.corpus.ScanRecords(relPath, func(rec *domain.Record) {
			acc.AddScanned()
			period, ok := rec.PeriodKey(monthFrom)
			if !ok {
				return
			}
			indices := rec.QualifyingIndices(lookup, minScore)
			if len(indices) == 0 {
				return
			}
			acc.AddRecord(period, indices)
		})
		recordsSkipped += skipped
		if err != nil {
			filesSkipped++
			c.logger.Warn("skipping damaged source file",
				"chunk", chunk.ID,
				"file", relPath,
				"error", err)
			continue
		}

		c.logger.Info("file scanned",
			"chunk", chunk.ID,
			"file", fmt.Sprintf("%d/%d", i+1, len(chunk.Files)),
			"papers", acc.Papers()-papersBefore,
			"elapsed_sec", fmt.Sprintf("%.1f", time.Since(fileStart).Seconds()))
	}

	elapsed := time.Since(start).Seconds()
	perSec := acc.Papers()
	if elapsed >= 1 {
		perSec = int64(float64(acc.Papers()) / elapsed)
	}

	meta := &domain.ChunkMeta{
		ID:             chunk.ID,
		Files:          chunk.Files,
		PapersTotal:    acc.Papers(),
		PapersMatched:  acc.Matched(),
		PairsCounted:   acc.Pairs(),
		UniquePairs:    acc.UniquePairs(),
		FilesSkipped:   filesSkipped,
		RecordsSkipped: recordsSkipped,
		PeriodsSeen:    acc.Periods(),
		PeriodPapers:   acc.PeriodPapers(),
		ActiveConcepts: acc.ActiveConcepts(),
		ScanTimeSec:    elapsed,
		PapersPerSec:   perSec,
		Timestamp:      time.Now().Format("2006-01-02 15:04:05"),
	}

	if err := c.artifacts.WriteChunk(acc, meta); err != nil {
		return nil, fmt.Errorf("failed to write chunk %d artifacts: %w", chunk.ID, err)
	}
	return meta, nil
}
