package ports

import "wintertree/internal/domain"

// Corpus provides read-only access to the compressed work files.
type Corpus interface {
	// Enumerate lists every source file under the corpus root with its size,
	// in lexicographic path order so planning is reproducible. Fails fast if
	// the root is unreachable.
	Enumerate() ([]domain.SourceFile, error)

	// ScanRecords streams the records of one source file through fn.
	// Malformed individual records are skipped and counted in skipped; an
	// error is returned only when the file itself cannot be opened or
	// decompressed.
	ScanRecords(relPath string, fn func(*domain.Record)) (skipped int64, err error)
}

// Vocabulary loads the external concept vocabulary the lookup is built from.
type Vocabulary interface {
	// LoadConcepts reads all vocabulary entries and assigns dense indices
	// in encounter order.
	LoadConcepts() ([]domain.Concept, error)
}
