package ports

import "wintertree/internal/domain"

// ConceptHit is one row from the concept query index.
type ConceptHit struct {
	Concept domain.Concept
	Birth   domain.PeriodKey // empty when no birth has been recorded yet
}

// IndexSyncStats holds statistics from a concept index sync.
type IndexSyncStats struct {
	ConceptsUpserted int
	BirthsUpdated    int
	ChunksScanned    int
}

// ConceptIndex is the queryable concept database kept next to the scan
// output. All query operations should be O(log n) via database indexes.
type ConceptIndex interface {
	// Lifecycle
	Open(scanDir string) error
	Close() error

	// Sync operations
	NeedsFullRebuild() bool
	SyncLookup(lookup *domain.Lookup) (*IndexSyncStats, error)
	SyncBirths(births map[int]domain.PeriodKey, throughChunk int) (*IndexSyncStats, error)
	LastSyncedChunk() (int, error)

	// Queries
	SearchConcepts(query string, limit int) ([]ConceptHit, error)
	ConceptByIdx(idx int) (*ConceptHit, error)
	ConceptByID(id string) (*ConceptHit, error)
	BirthsBetween(fromYear, toYear int, limit int) ([]ConceptHit, error)
}
