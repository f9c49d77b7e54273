package filesystem

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// Complete corpus files look like part_000.gz; anything else under the works
// root (partial downloads, manifests) is ignored.
var partFileRegex = regexp.MustCompile(`^part_\d+\.gz$`)

// maxRecordBytes bounds a single JSONL line; works with very long reference
// lists can run to a few MB.
const maxRecordBytes = 64 << 20

// Corpus implements ports.Corpus over a local directory of gzipped JSONL
// work files.
type Corpus struct {
	root string
}

// Ensure Corpus implements the port
var _ ports.Corpus = (*Corpus)(nil)

// NewCorpus creates a corpus reader rooted at worksDir.
func NewCorpus(worksDir string) *Corpus {
	return &Corpus{root: expandHome(worksDir)}
}

// Root returns the expanded corpus root.
func (c *Corpus) Root() string {
	return c.root
}

// Enumerate walks the corpus root and returns every complete part file with
// its size, path relative to the root, in lexicographic order.
func (c *Corpus) Enumerate() ([]domain.SourceFile, error) {
	if _, err := os.Stat(c.root); err != nil {
		return nil, fmt.Errorf("corpus root unreachable: %w", err)
	}

	var files []domain.SourceFile
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !partFileRegex.MatchString(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		files = append(files, domain.SourceFile{
			Path:  filepath.ToSlash(rel),
			Bytes: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate corpus: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// ScanRecords decompresses one part file and streams its records through fn.
// Blank and malformed lines are skipped and counted; only an unreadable or
// undecompressable file is an error.
func (c *Corpus) ScanRecords(relPath string, fn func(*domain.Record)) (int64, error) {
	path := filepath.Join(c.root, filepath.FromSlash(relPath))

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", relPath, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("failed to decompress %s: %w", relPath, err)
	}
	defer zr.Close()

	var skipped int64
	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 1<<20), maxRecordBytes)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		rec, err := domain.ParseRecord(line)
		if err != nil {
			skipped++
			continue
		}
		fn(rec)
	}
	if err := scanner.Err(); err != nil {
		// Truncated gzip stream mid-file: records already delivered stand,
		// the file itself is reported failed.
		return skipped, fmt.Errorf("failed to read %s: %w", relPath, err)
	}

	return skipped, nil
}
