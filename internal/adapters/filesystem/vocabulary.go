package filesystem

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// Vocabulary implements ports.Vocabulary over a directory of gzipped JSONL
// concept dumps.
type Vocabulary struct {
	root string
}

// Ensure Vocabulary implements the port
var _ ports.Vocabulary = (*Vocabulary)(nil)

// NewVocabulary creates a vocabulary loader rooted at conceptsDir.
func NewVocabulary(conceptsDir string) *Vocabulary {
	return &Vocabulary{root: expandHome(conceptsDir)}
}

type vocabularyRow struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
	WorksCount  int64  `json:"works_count"`
}

// LoadConcepts reads every .gz file under the vocabulary root in sorted
// order and assigns dense indices in encounter order. Rows without an ID or
// display name are skipped; malformed lines are skipped.
func (v *Vocabulary) LoadConcepts() ([]domain.Concept, error) {
	var paths []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".gz") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vocabulary root unreachable: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no vocabulary files under %s", v.root)
	}
	sort.Strings(paths)

	var concepts []domain.Concept
	for _, path := range paths {
		if err := v.loadFile(path, &concepts); err != nil {
			return nil, err
		}
	}
	return concepts, nil
}

func (v *Vocabulary) loadFile(path string, concepts *[]domain.Concept) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 1<<20), maxRecordBytes)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row vocabularyRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			continue
		}
		if row.ID == "" || row.DisplayName == "" {
			continue
		}
		*concepts = append(*concepts, domain.Concept{
			ID:         row.ID,
			Idx:        len(*concepts),
			Name:       row.DisplayName,
			Level:      row.Level,
			WorksCount: row.WorksCount,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}
