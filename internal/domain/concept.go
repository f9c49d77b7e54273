package domain

import "fmt"

// Concept is one vocabulary entry: a stable external ID mapped to a dense
// integer index used by all downstream counts.
type Concept struct {
	ID         string // e.g., "https://openalex.org/C41008148"
	Idx        int    // dense index in [0, N)
	Name       string // e.g., "Computer science"
	Level      int    // hierarchy level (0 = root discipline)
	WorksCount int64
}

// Lookup maps concept IDs to dense indices. Built once at initialization,
// immutable afterwards; safe to share read-only across workers.
type Lookup struct {
	byID    map[string]Concept
	byIdx   []Concept
	byLevel map[int]int
}

// NewLookup builds a Lookup from vocabulary entries. The entries' Idx values
// must form a bijection onto [0, len(concepts)).
func NewLookup(concepts []Concept) (*Lookup, error) {
	l := &Lookup{
		byID:    make(map[string]Concept, len(concepts)),
		byIdx:   make([]Concept, len(concepts)),
		byLevel: make(map[int]int),
	}

	seen := make([]bool, len(concepts))
	for _, c := range concepts {
		if c.Idx < 0 || c.Idx >= len(concepts) {
			return nil, fmt.Errorf("concept %s: index %d out of range [0, %d)", c.ID, c.Idx, len(concepts))
		}
		if seen[c.Idx] {
			return nil, fmt.Errorf("concept %s: duplicate index %d", c.ID, c.Idx)
		}
		if _, dup := l.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate concept ID: %s", c.ID)
		}
		seen[c.Idx] = true
		l.byID[c.ID] = c
		l.byIdx[c.Idx] = c
		l.byLevel[c.Level]++
	}

	return l, nil
}

// IdxOf returns the dense index for a concept ID. Absent IDs report ok=false
// and are silently excluded from counting.
func (l *Lookup) IdxOf(id string) (int, bool) {
	c, ok := l.byID[id]
	return c.Idx, ok
}

// Get returns the full entry for a concept ID.
func (l *Lookup) Get(id string) (Concept, bool) {
	c, ok := l.byID[id]
	return c, ok
}

// At returns the entry at a dense index.
func (l *Lookup) At(idx int) (Concept, bool) {
	if idx < 0 || idx >= len(l.byIdx) {
		return Concept{}, false
	}
	return l.byIdx[idx], true
}

// Size returns the vocabulary size N.
func (l *Lookup) Size() int {
	return len(l.byIdx)
}

// ByLevel returns the number of concepts per hierarchy level.
func (l *Lookup) ByLevel() map[int]int {
	out := make(map[int]int, len(l.byLevel))
	for k, v := range l.byLevel {
		out[k] = v
	}
	return out
}

// Concepts returns all entries ordered by dense index.
func (l *Lookup) Concepts() []Concept {
	out := make([]Concept, len(l.byIdx))
	copy(out, l.byIdx)
	return out
}
