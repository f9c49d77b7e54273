package domain

import (
	"testing"
)

func testLookup(t *testing.T) *Lookup {
	t.Helper()
	lookup, err := NewLookup([]Concept{
		{ID: "C1", Idx: 0, Name: "Mathematics", Level: 0},
		{ID: "C2", Idx: 1, Name: "Topology", Level: 1},
		{ID: "C3", Idx: 2, Name: "Knot theory", Level: 2},
	})
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	return lookup
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{
			name: "valid record",
			line: `{"id":"W1","publication_year":2007,"publication_date":"2007-06-01","concepts":[{"id":"C1","score":0.9}]}`,
		},
		{
			name: "no concepts",
			line: `{"id":"W2","publication_year":1950}`,
		},
		{
			name:    "malformed JSON",
			line:    `{"id":"W3","publication_year":`,
			wantErr: true,
		},
		{
			name:    "not an object",
			line:    `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord([]byte(tt.line))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec == nil {
				t.Fatal("nil record without error")
			}
		})
	}
}

func TestQualifyingIndices(t *testing.T) {
	lookup := testLookup(t)

	tests := []struct {
		name     string
		mentions []Mention
		want     []int
	}{
		{
			name: "score exactly at threshold is included",
			mentions: []Mention{
				{ConceptID: "C1", Score: 0.3},
			},
			want: []int{0},
		},
		{
			name: "score below threshold is excluded",
			mentions: []Mention{
				{ConceptID: "C1", Score: 0.29999},
			},
			want: nil,
		},
		{
			name: "unknown concept is silently excluded",
			mentions: []Mention{
				{ConceptID: "C999", Score: 0.9},
				{ConceptID: "C2", Score: 0.9},
			},
			want: []int{1},
		},
		{
			name: "duplicate mentions collapse to one occurrence",
			mentions: []Mention{
				{ConceptID: "C3", Score: 0.5},
				{ConceptID: "C3", Score: 0.8},
			},
			want: []int{2},
		},
		{
			name: "result is sorted ascending",
			mentions: []Mention{
				{ConceptID: "C3", Score: 0.5},
				{ConceptID: "C1", Score: 0.5},
				{ConceptID: "C2", Score: 0.5},
			},
			want: []int{0, 1, 2},
		},
		{
			name:     "no mentions",
			mentions: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{ID: "W", PublicationYear: 2000, Concepts: tt.mentions}
			got := rec.QualifyingIndices(lookup, 0.3)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNewLookupRejectsBrokenIndex(t *testing.T) {
	tests := []struct {
		name     string
		concepts []Concept
	}{
		{
			name: "duplicate index",
			concepts: []Concept{
				{ID: "C1", Idx: 0},
				{ID: "C2", Idx: 0},
			},
		},
		{
			name: "index out of range",
			concepts: []Concept{
				{ID: "C1", Idx: 0},
				{ID: "C2", Idx: 5},
			},
		},
		{
			name: "duplicate ID",
			concepts: []Concept{
				{ID: "C1", Idx: 0},
				{ID: "C1", Idx: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLookup(tt.concepts); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLookupAccessors(t *testing.T) {
	lookup := testLookup(t)

	if lookup.Size() != 3 {
		t.Errorf("Size = %d, want 3", lookup.Size())
	}

	idx, ok := lookup.IdxOf("C2")
	if !ok || idx != 1 {
		t.Errorf("IdxOf(C2) = %d, %v", idx, ok)
	}
	if _, ok := lookup.IdxOf("missing"); ok {
		t.Error("IdxOf(missing) should report absent")
	}

	c, ok := lookup.At(2)
	if !ok || c.Name != "Knot theory" {
		t.Errorf("At(2) = %+v, %v", c, ok)
	}
	if _, ok := lookup.At(99); ok {
		t.Error("At(99) should report absent")
	}

	byLevel := lookup.ByLevel()
	if byLevel[0] != 1 || byLevel[1] != 1 || byLevel[2] != 1 {
		t.Errorf("ByLevel = %v", byLevel)
	}
}
