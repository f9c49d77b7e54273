package ports

import "wintertree/internal/domain"

// TreeStore persists the Progress Index. Save must be atomic: a reader (or a
// crashed process on restart) never observes a half-written tree.
type TreeStore interface {
	Exists() bool
	TreePath() string
	Load() (*domain.Tree, error)
	Save(tree *domain.Tree) error
}

// LookupStore persists the concept lookup built at initialization.
type LookupStore interface {
	LookupExists() bool
	LoadLookup() (*domain.Lookup, error)
	SaveLookup(lookup *domain.Lookup) error
}

// Snapshot is a cutoff-filtered aggregate over all committed chunks.
type Snapshot struct {
	CutoffYear int
	Activity   map[int]int64
	Cooc       map[domain.Pair]int64
	TotalWorks int64
	ChunksRead int
}

// ArtifactStore persists and reads back per-chunk output artifacts. All
// writes go through a temporary name and a rename, so downstream readers
// only ever see complete artifacts.
type ArtifactStore interface {
	// WriteChunk writes cooc.json.gz, activity.json.gz and meta.json for one
	// chunk, each atomically.
	WriteChunk(acc *domain.Accumulator, meta *domain.ChunkMeta) error

	// ChunkDir returns the artifact directory for a chunk sequence number.
	ChunkDir(id int) string

	ReadActivity(id int) (map[domain.PeriodKey]map[int]int64, error)
	ReadCooc(id int) (map[domain.PeriodKey]map[domain.Pair]int64, error)
	ReadMeta(id int) (*domain.ChunkMeta, error)

	// WriteBirths writes the earliest-appearance index.
	WriteBirths(births map[int]domain.PeriodKey, lookup *domain.Lookup) (string, error)

	// WriteSnapshot writes a cutoff-filtered aggregate.
	WriteSnapshot(snap *Snapshot) (string, error)
}
