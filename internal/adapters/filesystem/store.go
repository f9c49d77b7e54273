package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

const (
	treeFile    = "winter_tree.json"
	lookupFile  = "concepts_65k.json"
	birthsFile  = "concept_births.json"
	chunksDir   = "chunks"
	coocFile    = "cooc.json.gz"
	activityFile = "activity.json.gz"
	metaFile    = "meta.json"
)

// Store persists the winter tree, the concept lookup and all chunk artifacts
// under one scan directory. Every write is atomic (temp file + rename).
type Store struct {
	scanDir string
}

// Ensure Store implements the persistence ports
var (
	_ ports.TreeStore     = (*Store)(nil)
	_ ports.LookupStore   = (*Store)(nil)
	_ ports.ArtifactStore = (*Store)(nil)
)

// NewStore creates a store rooted at scanDir.
func NewStore(scanDir string) *Store {
	return &Store{scanDir: expandHome(scanDir)}
}

// TreePath returns the Progress Index path.
func (s *Store) TreePath() string {
	return filepath.Join(s.scanDir, treeFile)
}

// LookupPath returns the concept lookup path.
func (s *Store) LookupPath() string {
	return filepath.Join(s.scanDir, lookupFile)
}

// Exists reports whether a Progress Index is already present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.TreePath())
	return err == nil
}

// Load reads and validates the Progress Index.
func (s *Store) Load() (*domain.Tree, error) {
	data, err := os.ReadFile(s.TreePath())
	if err != nil {
		return nil, fmt.Errorf("failed to read progress index: %w", err)
	}

	var tree domain.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse progress index: %w", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progress index: %w", err)
	}
	return &tree, nil
}

// Save atomically rewrites the Progress Index.
func (s *Store) Save(tree *domain.Tree) error {
	return writeJSONAtomic(s.TreePath(), tree, true)
}

// --- concept lookup ---

type lookupEntry struct {
	Idx        int    `json:"idx"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	WorksCount int64  `json:"works_count"`
}

type lookupMeta struct {
	Total   int         `json:"total"`
	ByLevel map[int]int `json:"by_level"`
	Date    string      `json:"date"`
}

type lookupPayload struct {
	Meta     lookupMeta             `json:"meta"`
	Concepts map[string]lookupEntry `json:"concepts"`
}

// LookupExists reports whether the concept lookup is already present.
func (s *Store) LookupExists() bool {
	_, err := os.Stat(s.LookupPath())
	return err == nil
}

// SaveLookup atomically writes the concept lookup.
func (s *Store) SaveLookup(lookup *domain.Lookup) error {
	payload := lookupPayload{
		Meta: lookupMeta{
			Total:   lookup.Size(),
			ByLevel: lookup.ByLevel(),
			Date:    time.Now().Format("2006-01-02 15:04:05"),
		},
		Concepts: make(map[string]lookupEntry, lookup.Size()),
	}
	for _, c := range lookup.Concepts() {
		payload.Concepts[c.ID] = lookupEntry{
			Idx:        c.Idx,
			Name:       c.Name,
			Level:      c.Level,
			WorksCount: c.WorksCount,
		}
	}
	return writeJSONAtomic(s.LookupPath(), payload, false)
}

// LoadLookup reads the concept lookup back into memory.
func (s *Store) LoadLookup() (*domain.Lookup, error) {
	data, err := os.ReadFile(s.LookupPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read concept lookup: %w", err)
	}

	var payload lookupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse concept lookup: %w", err)
	}

	concepts := make([]domain.Concept, 0, len(payload.Concepts))
	for id, e := range payload.Concepts {
		concepts = append(concepts, domain.Concept{
			ID:         id,
			Idx:        e.Idx,
			Name:       e.Name,
			Level:      e.Level,
			WorksCount: e.WorksCount,
		})
	}

	lookup, err := domain.NewLookup(concepts)
	if err != nil {
		return nil, fmt.Errorf("corrupt concept lookup: %w", err)
	}
	return lookup, nil
}
