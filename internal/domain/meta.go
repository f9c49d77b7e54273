package domain

// ChunkMeta is the small metadata artifact written next to a chunk's
// co-occurrence and activity tables. FilesSkipped and RecordsSkipped make
// coverage gaps from damaged inputs auditable after the fact.
type ChunkMeta struct {
	ID             int                  `json:"id"`
	Files          []string             `json:"files"`
	PapersTotal    int64                `json:"papers_total"`
	PapersMatched  int64                `json:"papers_matched"`
	PairsCounted   int64                `json:"pairs_counted"`
	UniquePairs    int64                `json:"unique_pairs"`
	FilesSkipped   int                  `json:"files_skipped"`
	RecordsSkipped int64                `json:"records_skipped"`
	PeriodsSeen    []PeriodKey          `json:"periods_seen"`
	PeriodPapers   map[PeriodKey]int64  `json:"period_papers"`
	ActiveConcepts int                  `json:"active_concepts"`
	ScanTimeSec    float64              `json:"scan_time_sec"`
	PapersPerSec   int64                `json:"papers_per_sec"`
	Timestamp      string               `json:"timestamp"`
}
