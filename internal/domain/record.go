package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Mention associates a record with a concept at some relevance score.
type Mention struct {
	ConceptID string  `json:"id"`
	Score     float64 `json:"score"`
}

// Record is one parsed work from the corpus. Parsing is strict: a line either
// yields a fully-populated Record or a per-record recoverable error, never an
// ambiguous partial.
type Record struct {
	ID              string    `json:"id"`
	PublicationYear int       `json:"publication_year"`
	PublicationDate string    `json:"publication_date"`
	Concepts        []Mention `json:"concepts"`
}

// ParseRecord decodes one JSONL line into a Record.
func ParseRecord(line []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("malformed record: %w", err)
	}
	return &rec, nil
}

// PeriodKey buckets the record's publication date. ok is false when the
// record has no usable year; such records contribute nothing.
func (r *Record) PeriodKey(monthFromYear int) (PeriodKey, bool) {
	return PeriodKeyFor(r.PublicationYear, r.PublicationDate, monthFromYear)
}

// QualifyingIndices returns the record's qualifying concept set: mentions at
// or above minScore, resolved through the lookup, deduplicated, ascending.
// Mentions of unknown concepts are silently excluded.
func (r *Record) QualifyingIndices(lookup *Lookup, minScore float64) []int {
	if len(r.Concepts) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(r.Concepts))
	for _, m := range r.Concepts {
		if m.Score < minScore {
			continue
		}
		idx, ok := lookup.IdxOf(m.ConceptID)
		if !ok {
			continue
		}
		seen[idx] = struct{}{}
	}

	if len(seen) == 0 {
		return nil
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}
