package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wintertree/internal/application"
	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// PeriodCount is one row of the per-period activity summary.
type PeriodCount struct {
	Period domain.PeriodKey
	Papers int64
	Chunks int
}

// StatusResult contains the result of a status query
type StatusResult struct {
	Tree       *domain.Tree
	NextChunk  *domain.Chunk
	TopPeriods []PeriodCount
	Message    string
}

// StatusCommand reports plan progress and the busiest periods seen so far.
type StatusCommand struct {
	trees ports.TreeStore

	TopN int
}

// NewStatusCommand creates a new StatusCommand
func NewStatusCommand(trees ports.TreeStore) *StatusCommand {
	return &StatusCommand{trees: trees, TopN: 15}
}

// Validate checks if the status operation is valid
func (c *StatusCommand) Validate() error {
	if c.TopN <= 0 {
		return &application.ValidationError{
			Field:   "topN",
			Message: "period count must be positive",
		}
	}
	return nil
}

// Execute runs the status command
func (c *StatusCommand) Execute(ctx context.Context) (*StatusResult, error) {
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

	result := &StatusResult{
		Tree:       tree,
		NextChunk:  tree.NextPending(),
		TopPeriods: topPeriods(tree, c.TopN),
	}
	result.Message = formatStatus(result)
	return result, nil
}

func topPeriods(tree *domain.Tree, n int) []PeriodCount {
	rows := make([]PeriodCount, 0, len(tree.Periods))
	for period, stats := range tree.Periods {
		rows = append(rows, PeriodCount{
			Period: period,
			Papers: stats.Papers,
			Chunks: len(stats.Chunks),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Papers != rows[j].Papers {
			return rows[i].Papers > rows[j].Papers
		}
		return rows[i].Period.Before(rows[j].Period)
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func formatStatus(r *StatusResult) string {
	t := r.Tree
	var b strings.Builder

	fmt.Fprintf(&b, "Winter tree: %d/%d chunks done (%.1f%%)\n",
		t.Progress.ChunksCompleted, t.Progress.ChunksTotal, t.PercentDone())
	fmt.Fprintf(&b, "Corpus: %d files in %d dirs, %.1f GB\n",
		t.Files.Total, t.Files.Dirs, float64(t.Files.TotalBytes)/(1<<30))
	fmt.Fprintf(&b, "Papers: %d scanned, %d with concepts, %d pair counts\n",
		t.Progress.PapersScanned, t.Progress.PapersMatched, t.Progress.PairsCounted)
	if t.Progress.FilesSkipped > 0 || t.Progress.RecordsSkipped > 0 {
		fmt.Fprintf(&b, "Skipped: %d files, %d records\n",
			t.Progress.FilesSkipped, t.Progress.RecordsSkipped)
	}
	if t.Progress.ScanTimeSec > 0 {
		fmt.Fprintf(&b, "Scan time: %.0f s\n", t.Progress.ScanTimeSec)
	}

	if r.NextChunk != nil {
		fmt.Fprintf(&b, "Next: chunk %d (%d files, %.2f GB)\n",
			r.NextChunk.ID, len(r.NextChunk.Files), float64(r.NextChunk.Bytes)/(1<<30))
	} else {
		b.WriteString("Next: nothing, scan complete\n")
	}

	if len(r.TopPeriods) > 0 {
		b.WriteString("Busiest periods:\n")
		for _, row := range r.TopPeriods {
			fmt.Fprintf(&b, "  %-7s %12d papers (%d chunks)\n", row.Period, row.Papers, row.Chunks)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
