package commands

import (
	"context"
	"fmt"

	"wintertree/internal/application"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// InitializeResult contains the result of planning a new winter tree
type InitializeResult struct {
	Tree     *domain.Tree
	Concepts int
	Message  string
}

// InitializeCommand builds the concept lookup, enumerates the corpus and
// writes a fresh chunk plan. With Force it discards an existing plan and all
// recorded progress.
type InitializeCommand struct {
	vocab   ports.Vocabulary
	corpus  ports.Corpus
	trees   ports.TreeStore
	lookups ports.LookupStore

	WorksDir         string
	ChunkTargetBytes int64
	MinConceptScore  float64
	MonthFromYear    int
	Force            bool
}

// NewInitializeCommand creates a new InitializeCommand
func NewInitializeCommand(vocab ports.Vocabulary, corpus ports.Corpus, trees ports.TreeStore, lookups ports.LookupStore) *InitializeCommand {
	return &InitializeCommand{
		vocab:   vocab,
		corpus:  corpus,
		trees:   trees,
		lookups: lookups,
	}
}

// Validate checks if the initialize operation is valid
func (c *InitializeCommand) Validate() error {
	if c.ChunkTargetBytes <= 0 {
		return &application.ValidationError{
			Field:   "chunkTargetBytes",
			Message: "chunk target must be positive",
		}
	}

	if c.MinConceptScore < 0 || c.MinConceptScore > 1 {
		return &application.ValidationError{
			Field:   "minConceptScore",
			Message: fmt.Sprintf("score threshold must be in [0, 1], got %g", c.MinConceptScore),
		}
	}

	if c.MonthFromYear <= 0 {
		return &application.ValidationError{
			Field:   "monthFromYear",
			Message: "month granularity cutoff year must be positive",
		}
	}

	return nil
}

// Execute runs the initialize command
func (c *InitializeCommand) Execute(ctx context.Context) (*InitializeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.trees.Exists() && !c.Force {
		return nil, application.ErrAlreadyInitialized
	}

	concepts, err := c.vocab.LoadConcepts()
	if err != nil {
		return nil, fmt.Errorf("failed to load concept vocabulary: %w", err)
	}
	lookup, err := domain.NewLookup(concepts)
	if err != nil {
		return nil, fmt.Errorf("failed to build concept lookup: %w", err)
	}
	if err := c.lookups.SaveLookup(lookup); err != nil {
		return nil, fmt.Errorf("failed to save concept lookup: %w", err)
	}

	files, err := c.corpus.Enumerate()
	if err != nil {
		return nil, &application.CorpusError{Root: c.WorksDir, Reason: err.Error()}
	}
	if len(files) == 0 {
		return nil, &application.CorpusError{Root: c.WorksDir, Reason: "no part files found"}
	}

	var totalBytes int64
	for _, f := range files {
		totalBytes += f.Bytes
	}

	chunks := domain.PlanChunks(files, c.ChunkTargetBytes)
	tree := domain.NewTree(
		domain.TreeConfig{
			ConceptCount:     lookup.Size(),
			ChunkTargetBytes: c.ChunkTargetBytes,
			MinConceptScore:  c.MinConceptScore,
			MonthFromYear:    c.MonthFromYear,
			WorksDir:         c.WorksDir,
		},
		domain.TreeFiles{
			Total:      len(files),
			TotalBytes: totalBytes,
			Dirs:       domain.CountDirs(files),
		},
		chunks,
	)

	if err := c.trees.Save(tree); err != nil {
		return nil, fmt.Errorf("failed to save progress index: %w", err)
	}

	return &InitializeResult{
		Tree:     tree,
		Concepts: lookup.Size(),
		Message: fmt.Sprintf("Planned %d chunks over %d files (%.1f GB), %d concepts",
			len(chunks), len(files), float64(totalBytes)/(1<<30), lookup.Size()),
	}, nil
}
