package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Pair is an unordered pair of concept indices in canonical order (A < B),
// so the same unordered pair is never counted under two orderings.
type Pair struct {
	A, B int
}

// NewPair returns the canonical form of an unordered pair.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Key renders the pair as the on-disk "a|b" key.
func (p Pair) Key() string {
	return strconv.Itoa(p.A) + "|" + strconv.Itoa(p.B)
}

// ParsePairKey decodes an "a|b" key back into a canonical Pair.
func ParsePairKey(key string) (Pair, error) {
	a, b, ok := strings.Cut(key, "|")
	if !ok {
		return Pair{}, fmt.Errorf("malformed pair key: %q", key)
	}
	ai, err := strconv.Atoi(a)
	if err != nil {
		return Pair{}, fmt.Errorf("malformed pair key: %q", key)
	}
	bi, err := strconv.Atoi(b)
	if err != nil {
		return Pair{}, fmt.Errorf("malformed pair key: %q", key)
	}
	return NewPair(ai, bi), nil
}

// Accumulator holds one chunk's in-memory counts. It is created fresh per
// chunk and discarded after the chunk's artifacts are flushed, bounding peak
// memory to a single chunk's period/pair cardinality.
type Accumulator struct {
	cooc         map[PeriodKey]map[Pair]int64
	activity     map[PeriodKey]map[int]int64
	periodPapers map[PeriodKey]int64

	papers  int64
	matched int64
	pairs   int64
}

// NewAccumulator creates an empty chunk accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		cooc:         make(map[PeriodKey]map[Pair]int64),
		activity:     make(map[PeriodKey]map[int]int64),
		periodPapers: make(map[PeriodKey]int64),
	}
}

// AddRecord counts one qualifying record: indices must be the record's
// deduplicated qualifying concept set. Each concept gets one activity
// increment, and each unordered pair of distinct concepts one co-occurrence
// increment, so k concepts contribute k*(k-1)/2 pairs.
func (a *Accumulator) AddRecord(period PeriodKey, indices []int) {
	a.matched++
	a.periodPapers[period]++

	act := a.activity[period]
	if act == nil {
		act = make(map[int]int64)
		a.activity[period] = act
	}
	for _, idx := range indices {
		act[idx]++
	}

	if len(indices) < 2 {
		return
	}

	co := a.cooc[period]
	if co == nil {
		co = make(map[Pair]int64)
		a.cooc[period] = co
	}
	for i := 0; i < len(indices); i++ {
		for j := i + 1; j < len(indices); j++ {
			co[NewPair(indices[i], indices[j])]++
			a.pairs++
		}
	}
}

// AddScanned counts a record that was read, qualifying or not.
func (a *Accumulator) AddScanned() {
	a.papers++
}

// Papers returns the number of records read.
func (a *Accumulator) Papers() int64 { return a.papers }

// Matched returns the number of records with at least one qualifying concept.
func (a *Accumulator) Matched() int64 { return a.matched }

// Pairs returns the total number of pair increments.
func (a *Accumulator) Pairs() int64 { return a.pairs }

// Cooc returns the per-period co-occurrence table.
func (a *Accumulator) Cooc() map[PeriodKey]map[Pair]int64 { return a.cooc }

// Activity returns the per-period activity table.
func (a *Accumulator) Activity() map[PeriodKey]map[int]int64 { return a.activity }

// PeriodPapers returns the number of qualifying records per period.
func (a *Accumulator) PeriodPapers() map[PeriodKey]int64 { return a.periodPapers }

// Periods returns every period with at least one qualifying record,
// chronologically ordered.
func (a *Accumulator) Periods() []PeriodKey {
	keys := make([]PeriodKey, 0, len(a.periodPapers))
	for k := range a.periodPapers {
		keys = append(keys, k)
	}
	SortPeriods(keys)
	return keys
}

// UniquePairs returns the number of distinct (period, pair) entries.
func (a *Accumulator) UniquePairs() int64 {
	var n int64
	for _, pairs := range a.cooc {
		n += int64(len(pairs))
	}
	return n
}

// ActiveConcepts returns the number of distinct concepts seen in any period.
func (a *Accumulator) ActiveConcepts() int {
	seen := make(map[int]struct{})
	for _, act := range a.activity {
		for idx := range act {
			seen[idx] = struct{}{}
		}
	}
	return len(seen)
}
