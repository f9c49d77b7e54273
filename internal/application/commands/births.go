package commands

import (
	"context"
	"fmt"

	"wintertree/internal/application"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// BirthsResult contains the result of deriving the birth index
type BirthsResult struct {
	Births      map[int]domain.PeriodKey
	ChunksRead  int
	Path        string
	IndexSynced bool
	Message     string
}

// BirthsCommand derives each concept's earliest period of activity from the
// committed chunk artifacts and writes the birth index. When a concept index
// is attached, the births are synced into it as well.
type BirthsCommand struct {
	trees     ports.TreeStore
	lookups   ports.LookupStore
	artifacts ports.ArtifactStore
	index     ports.ConceptIndex // optional
}

// NewBirthsCommand creates a new BirthsCommand
func NewBirthsCommand(trees ports.TreeStore, lookups ports.LookupStore, artifacts ports.ArtifactStore, index ports.ConceptIndex) *BirthsCommand {
	return &BirthsCommand{
		trees:     trees,
		lookups:   lookups,
		artifacts: artifacts,
		index:     index,
	}
}

// Validate checks if the births operation is valid
func (c *BirthsCommand) Validate() error {
	return nil
}

// Execute runs the births command
func (c *BirthsCommand) Execute(ctx context.Context) (*BirthsResult, error) {
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

	lookup, err := c.lookups.LoadLookup()
	if err != nil {
		return nil, fmt.Errorf("failed to load concept lookup: %w", err)
	}

	births := make(map[int]domain.PeriodKey)
	for _, id := range done {
		activity, err := c.artifacts.ReadActivity(id)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %d activity: %w", id, err)
		}
		for period, concepts := range activity {
			for idx := range concepts {
				cur, ok := births[idx]
				if !ok || period.Before(cur) {
					births[idx] = period
				}
			}
		}
	}

	path, err := c.artifacts.WriteBirths(births, lookup)
	if err != nil {
		return nil, fmt.Errorf("failed to write birth index: %w", err)
	}

	result := &BirthsResult{
		Births:     births,
		ChunksRead: len(done),
		Path:       path,
	}

	if c.index != nil {
		if err := c.syncIndex(lookup, births, done, result); err != nil {
			return nil, err
		}
	}

	result.Message = fmt.Sprintf("Derived births for %d concepts from %d chunks: %s",
		len(births), len(done), path)
	return result, nil
}

// syncIndex pushes the derived births into the concept index. A stale index
// (fresh database, schema change, moved scan directory) is re-seeded from
// the lookup first; an index already synced through the last completed chunk
// is left alone.
func (c *BirthsCommand) syncIndex(lookup *domain.Lookup, births map[int]domain.PeriodKey, done []int, result *BirthsResult) error {
	rebuilt := c.index.NeedsFullRebuild()
	if rebuilt {
		if _, err := c.index.SyncLookup(lookup); err != nil {
			return fmt.Errorf("failed to re-seed concept index: %w", err)
		}
	}

	lastDone := done[len(done)-1]
	synced, err := c.index.LastSyncedChunk()
	if err != nil {
		return fmt.Errorf("failed to read index sync state: %w", err)
	}
	if !rebuilt && synced >= lastDone {
		return nil
	}

	if _, err := c.index.SyncBirths(births, lastDone); err != nil {
		return fmt.Errorf("failed to sync birth index: %w", err)
	}
	result.IndexSynced = true
	return nil
}
