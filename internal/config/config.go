package config

import (
	"os"
	"strconv"
)

const (
	DefaultWorksDir    = "~/openalex/data/works"
	DefaultConceptsDir = "~/openalex/data/concepts"
	DefaultScanDir     = "data/scan"

	// DefaultChunkTargetBytes is the byte budget one chunk is packed up to (~1 GB).
	DefaultChunkTargetBytes = 1 << 30

	// DefaultMinConceptScore is the relevance threshold below which a mention is ignored.
	DefaultMinConceptScore = 0.3

	// DefaultMonthFromYear is the first year bucketed month-by-month;
	// earlier years are bucketed yearly.
	DefaultMonthFromYear = 1980
)

// WorksDir returns the corpus root from WINTERTREE_WORKS_DIR,
// falling back to DefaultWorksDir.
func WorksDir() string {
	if env := os.Getenv("WINTERTREE_WORKS_DIR"); env != "" {
		return env
	}
	return DefaultWorksDir
}

// ConceptsDir returns the vocabulary snapshot root from WINTERTREE_CONCEPTS_DIR,
// falling back to DefaultConceptsDir.
func ConceptsDir() string {
	if env := os.Getenv("WINTERTREE_CONCEPTS_DIR"); env != "" {
		return env
	}
	return DefaultConceptsDir
}

// ScanDir returns the output directory (tree, lookup, chunk artifacts)
// from WINTERTREE_SCAN_DIR, falling back to DefaultScanDir.
func ScanDir() string {
	if env := os.Getenv("WINTERTREE_SCAN_DIR"); env != "" {
		return env
	}
	return DefaultScanDir
}

// ChunkTargetBytes returns the chunk byte budget from WINTERTREE_CHUNK_BYTES.
func ChunkTargetBytes() int64 {
	if env := os.Getenv("WINTERTREE_CHUNK_BYTES"); env != "" {
		if n, err := strconv.ParseInt(env, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return DefaultChunkTargetBytes
}

// MinConceptScore returns the mention relevance threshold from WINTERTREE_MIN_SCORE.
func MinConceptScore() float64 {
	if env := os.Getenv("WINTERTREE_MIN_SCORE"); env != "" {
		if f, err := strconv.ParseFloat(env, 64); err == nil && f >= 0 {
			return f
		}
	}
	return DefaultMinConceptScore
}

// MonthFromYear returns the monthly-granularity cutoff year from
// WINTERTREE_MONTH_FROM_YEAR.
func MonthFromYear() int {
	if env := os.Getenv("WINTERTREE_MONTH_FROM_YEAR"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMonthFromYear
}
