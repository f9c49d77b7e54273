package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// memCorpus is an in-memory corpus: file name to JSONL lines, with optional
// files that fail mid-read.
type memCorpus struct {
	files  []domain.SourceFile
	lines  map[string][]string
	broken map[string]bool
}

func (c *memCorpus) Enumerate() ([]domain.SourceFile, error) {
	if c.files == nil {
		return nil, fmt.Errorf("corpus root unreachable")
	}
	return c.files, nil
}

func (c *memCorpus) ScanRecords(relPath string, fn func(*domain.Record)) (int64, error) {
	if c.broken[relPath] {
		return 0, fmt.Errorf("failed to read %s: unexpected EOF", relPath)
	}
	var skipped int64
	for _, line := range c.lines[relPath] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := domain.ParseRecord([]byte(line))
		if err != nil {
			skipped++
			continue
		}
		fn(rec)
	}
	return skipped, nil
}

type memVocab struct {
	concepts []domain.Concept
	err      error
}

func (v *memVocab) LoadConcepts() ([]domain.Concept, error) {
	return v.concepts, v.err
}

// memStore holds the tree, lookup and chunk artifacts in memory. Save and
// Load round-trip the tree through JSON so persisted state is decoupled from
// the caller's pointer, like the real store.
type memStore struct {
	tree     []byte
	lookup   *domain.Lookup
	saves    int
	activity map[int]map[domain.PeriodKey]map[int]int64
	cooc     map[int]map[domain.PeriodKey]map[domain.Pair]int64
	meta     map[int]*domain.ChunkMeta
	births   map[int]domain.PeriodKey
	snapshot *ports.Snapshot
}

func newMemStore() *memStore {
	return &memStore{
		activity: make(map[int]map[domain.PeriodKey]map[int]int64),
		cooc:     make(map[int]map[domain.PeriodKey]map[domain.Pair]int64),
		meta:     make(map[int]*domain.ChunkMeta),
	}
}

func (s *memStore) Exists() bool     { return s.tree != nil }
func (s *memStore) TreePath() string { return "mem/winter_tree.json" }

func (s *memStore) Load() (*domain.Tree, error) {
	if s.tree == nil {
		return nil, fmt.Errorf("no tree")
	}
	var tree domain.Tree
	if err := json.Unmarshal(s.tree, &tree); err != nil {
		return nil, err
	}
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	return &tree, nil
}

func (s *memStore) Save(tree *domain.Tree) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return err
	}
	s.tree = data
	s.saves++
	return nil
}

func (s *memStore) LookupExists() bool { return s.lookup != nil }

func (s *memStore) LoadLookup() (*domain.Lookup, error) {
	if s.lookup == nil {
		return nil, fmt.Errorf("no lookup")
	}
	return s.lookup, nil
}

func (s *memStore) SaveLookup(lookup *domain.Lookup) error {
	s.lookup = lookup
	return nil
}

func (s *memStore) WriteChunk(acc *domain.Accumulator, meta *domain.ChunkMeta) error {
	s.activity[meta.ID] = acc.Activity()
	s.cooc[meta.ID] = acc.Cooc()
	s.meta[meta.ID] = meta
	return nil
}

func (s *memStore) ChunkDir(id int) string {
	return fmt.Sprintf("mem/chunks/chunk_%03d", id)
}

func (s *memStore) ReadActivity(id int) (map[domain.PeriodKey]map[int]int64, error) {
	a, ok := s.activity[id]
	if !ok {
		return nil, fmt.Errorf("no artifacts for chunk %d", id)
	}
	return a, nil
}

func (s *memStore) ReadCooc(id int) (map[domain.PeriodKey]map[domain.Pair]int64, error) {
	c, ok := s.cooc[id]
	if !ok {
		return nil, fmt.Errorf("no artifacts for chunk %d", id)
	}
	return c, nil
}

func (s *memStore) ReadMeta(id int) (*domain.ChunkMeta, error) {
	m, ok := s.meta[id]
	if !ok {
		return nil, fmt.Errorf("no artifacts for chunk %d", id)
	}
	return m, nil
}

func (s *memStore) WriteBirths(births map[int]domain.PeriodKey, lookup *domain.Lookup) (string, error) {
	s.births = births
	return "mem/concept_births.json", nil
}

func (s *memStore) WriteSnapshot(snap *ports.Snapshot) (string, error) {
	s.snapshot = snap
	return fmt.Sprintf("mem/snapshot_%d", snap.CutoffYear), nil
}

var (
	_ ports.Corpus        = (*memCorpus)(nil)
	_ ports.Vocabulary    = (*memVocab)(nil)
	_ ports.TreeStore     = (*memStore)(nil)
	_ ports.LookupStore   = (*memStore)(nil)
	_ ports.ArtifactStore = (*memStore)(nil)
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// record builds one JSONL work line.
func record(id string, year int, date string, mentions ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"id":%q,"publication_year":%d`, id, year)
	if date != "" {
		fmt.Fprintf(&b, `,"publication_date":%q`, date)
	}
	if len(mentions) > 0 {
		b.WriteString(`,"concepts":[`)
		b.WriteString(strings.Join(mentions, ","))
		b.WriteString("]")
	}
	b.WriteString("}")
	return b.String()
}

func mention(conceptID string, score float64) string {
	return fmt.Sprintf(`{"id":%q,"score":%g}`, conceptID, score)
}

// testConcepts is the standard three-concept vocabulary used across tests.
func testConcepts() []domain.Concept {
	return []domain.Concept{
		{ID: "C1", Idx: 0, Name: "Mathematics", Level: 0, WorksCount: 100},
		{ID: "C2", Idx: 1, Name: "Topology", Level: 1, WorksCount: 50},
		{ID: "C3", Idx: 2, Name: "Algebra", Level: 1, WorksCount: 40},
	}
}
