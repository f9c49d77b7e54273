package commands

import (
	"context"
	"fmt"

	"wintertree/internal/application"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// SnapshotResult contains the result of building a cutoff snapshot
type SnapshotResult struct {
	Snapshot *ports.Snapshot
	Dir      string
	Message  string
}

// SnapshotCommand aggregates every committed chunk's activity and
// co-occurrence counts for periods up to and including the cutoff year, and
// writes them as one flat snapshot.
type SnapshotCommand struct {
	trees     ports.TreeStore
	artifacts ports.ArtifactStore

	CutoffYear int
}

// NewSnapshotCommand creates a new SnapshotCommand
func NewSnapshotCommand(trees ports.TreeStore, artifacts ports.ArtifactStore, cutoffYear int) *SnapshotCommand {
	return &SnapshotCommand{
		trees:     trees,
		artifacts: artifacts,
		CutoffYear: cutoffYear,
	}
}

// Validate checks if the snapshot operation is valid
func (c *SnapshotCommand) Validate() error {
	if c.CutoffYear <= 0 {
		return &application.ValidationError{
			Field:   "cutoffYear",
			Message: "cutoff year must be positive",
		}
	}
	return nil
}

// Execute runs the snapshot command
func (c *SnapshotCommand) Execute(ctx context.Context) (*SnapshotResult, error) {
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

	done := tree.DoneChunkIDs()
	if len(done) == 0 {
		return nil, &application.ValidationError{
			Field:   "chunks",
			Message: "no completed chunks yet, run scan first",
		}
	}

	snap := &ports.Snapshot{
		CutoffYear: c.CutoffYear,
		Activity:   make(map[int]int64),
		Cooc:       make(map[domain.Pair]int64),
		ChunksRead: len(done),
	}

	for _, id := range done {
		activity, err := c.artifacts.ReadActivity(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d activity: %w", id, err)
		}
		for period, concepts := range activity {
			if period.Year() > c.CutoffYear {
				continue
			}
			for idx, count := range concepts {
				snap.Activity[idx] += count
			}
		}

		cooc, err := c.artifacts.ReadCooc(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d co-occurrences: %w", id, err)
		}
		for period, pairs := range cooc {
			if period.Year() > c.CutoffYear {
				continue
			}
			for pair, count := range pairs {
				snap.Cooc[pair] += count
			}
		}

		meta, err := c.artifacts.ReadMeta(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d meta: %w", id, err)
		}
		for period, count := range meta.PeriodPapers {
			if period.Year() <= c.CutoffYear {
				snap.TotalWorks += count
			}
		}
	}

	dir, err := c.artifacts.WriteSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	return &SnapshotResult{
		Snapshot: snap,
		Dir:      dir,
		Message: fmt.Sprintf("Snapshot through %d: %d works, %d active concepts, %d unique pairs (%s)",
			c.CutoffYear, snap.TotalWorks, len(snap.Activity), len(snap.Cooc), dir),
	}, nil
}
