package domain

import "path"

// ChunkStatus tracks a chunk through its lifecycle.
type ChunkStatus string

const (
	ChunkPending  ChunkStatus = "pending"
	ChunkScanning ChunkStatus = "scanning"
	ChunkDone     ChunkStatus = "done"
)

// SourceFile is one enumerated corpus file, path relative to the works root.
type SourceFile struct {
	Path  string
	Bytes int64
}

// Chunk is a bounded, ordered group of source files processed and
// checkpointed as one unit. Stats fields are filled in when the chunk
// completes.
type Chunk struct {
	ID     int         `json:"id"`
	Files  []string    `json:"files"`
	Bytes  int64       `json:"bytes"`
	Status ChunkStatus `json:"status"`

	Papers    int64    `json:"papers,omitempty"`
	Matched   int64    `json:"matched,omitempty"`
	Pairs     int64    `json:"pairs,omitempty"`
	Periods   int      `json:"periods,omitempty"`
	TimeSec   float64  `json:"time_sec,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	YearRange []string `json:"year_range,omitempty"`
}

// PlanChunks partitions the enumerated file list into chunks. Packing is
// greedy in enumeration order: files accumulate into the current chunk, and
// the chunk closes once its byte total reaches targetBytes. A chunk may
// therefore exceed the target by at most one file, and a single file at or
// above the target becomes an oversized chunk of its own. Every file lands
// in exactly one chunk; the plan is deterministic for an unchanged listing.
func PlanChunks(files []SourceFile, targetBytes int64) []Chunk {
	var chunks []Chunk
	var cur []string
	var curBytes int64
	id := 1

	for _, f := range files {
		cur = append(cur, f.Path)
		curBytes += f.Bytes

		if curBytes >= targetBytes {
			chunks = append(chunks, Chunk{
				ID:     id,
				Files:  cur,
				Bytes:  curBytes,
				Status: ChunkPending,
			})
			id++
			cur = nil
			curBytes = 0
		}
	}

	if len(cur) > 0 {
		chunks = append(chunks, Chunk{
			ID:     id,
			Files:  cur,
			Bytes:  curBytes,
			Status: ChunkPending,
		})
	}

	return chunks
}

// CountDirs returns the number of distinct parent directories among the
// enumerated files, for the plan summary.
func CountDirs(files []SourceFile) int {
	dirs := make(map[string]struct{})
	for _, f := range files {
		dirs[path.Dir(f.Path)] = struct{}{}
	}
	return len(dirs)
}
