package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"wintertree/internal/domain"
	"wintertree/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

const indexFile = "concept_index.db"

// Index implements ports.ConceptIndex using SQLite
type Index struct {
	db      *sql.DB
	scanDir string
	dbPath  string
}

// Ensure Index implements ConceptIndex
var _ ports.ConceptIndex = (*Index)(nil)

// NewIndex creates a new SQLite concept index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index for the given scan directory
func (idx *Index) Open(scanDir string) error {
	// Expand ~ in path
	if len(scanDir) > 0 && scanDir[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		scanDir = filepath.Join(home, scanDir[1:])
	}

	idx.scanDir = scanDir
	idx.dbPath = filepath.Join(scanDir, indexFile)

	// Ensure directory exists
	if err := os.MkdirAll(scanDir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS concepts (
			idx INTEGER PRIMARY KEY,
			openalex_id TEXT NOT NULL,
			name TEXT NOT NULL,
			level INTEGER NOT NULL,
			works_count INTEGER NOT NULL,
			birth_period TEXT,
			birth_year INTEGER
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_concepts_openalex ON concepts(openalex_id);
		CREATE INDEX IF NOT EXISTS idx_concepts_name ON concepts(name);
		CREATE INDEX IF NOT EXISTS idx_concepts_birth_year ON concepts(birth_year);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild reports whether the concept table must be re-seeded from
// the lookup: true for a fresh database and whenever the schema version or
// scan directory recorded at the last full sync no longer match.
func (idx *Index) NeedsFullRebuild() bool {
	var version, dirHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'scan_dir_hash'").Scan(&dirHash)

	return version != schemaVersion || dirHash != hashScanDir(idx.scanDir)
}

// hashScanDir returns a short hash of the scan directory path
func hashScanDir(scanDir string) string {
	h := sha256.Sum256([]byte(scanDir))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta records the schema version and scan directory hash after a
// successful full sync.
func (idx *Index) updateMeta() error {
	if _, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`,
		schemaVersion); err != nil {
		return err
	}
	_, err := idx.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('scan_dir_hash', ?)`,
		hashScanDir(idx.scanDir))
	return err
}

const hitColumns = `idx, openalex_id, name, level, works_count, birth_period`

func scanHit(row interface{ Scan(...any) error }) (*ports.ConceptHit, error) {
	var hit ports.ConceptHit
	var birth sql.NullString

	err := row.Scan(&hit.Concept.Idx, &hit.Concept.ID, &hit.Concept.Name,
		&hit.Concept.Level, &hit.Concept.WorksCount, &birth)
	if err != nil {
		return nil, err
	}
	if birth.Valid {
		hit.Birth = domain.PeriodKey(birth.String)
	}
	return &hit, nil
}

// SearchConcepts finds concepts by name substring or exact OpenAlex ID,
// busiest first
func (idx *Index) SearchConcepts(query string, limit int) ([]ports.ConceptHit, error) {
	rows, err := idx.db.Query(`
		SELECT `+hitColumns+`
		FROM concepts
		WHERE name LIKE ? OR openalex_id = ?
		ORDER BY works_count DESC, idx
		LIMIT ?
	`, "%"+query+"%", query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ports.ConceptHit
	for rows.Next() {
		hit, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, *hit)
	}
	return hits, rows.Err()
}

// ConceptByIdx retrieves a concept by dense index
func (idx *Index) ConceptByIdx(conceptIdx int) (*ports.ConceptHit, error) {
	hit, err := scanHit(idx.db.QueryRow(`
		SELECT `+hitColumns+` FROM concepts WHERE idx = ?
	`, conceptIdx))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return hit, err
}

// ConceptByID retrieves a concept by OpenAlex ID
func (idx *Index) ConceptByID(id string) (*ports.ConceptHit, error) {
	hit, err := scanHit(idx.db.QueryRow(`
		SELECT `+hitColumns+` FROM concepts WHERE openalex_id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return hit, err
}

// BirthsBetween lists concepts whose earliest activity falls in the year
// range, oldest first
func (idx *Index) BirthsBetween(fromYear, toYear, limit int) ([]ports.ConceptHit, error) {
	rows, err := idx.db.Query(`
		SELECT `+hitColumns+`
		FROM concepts
		WHERE birth_year BETWEEN ? AND ?
		ORDER BY birth_year, works_count DESC
		LIMIT ?
	`, fromYear, toYear, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ports.ConceptHit
	for rows.Next() {
		hit, err := scanHit(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, *hit)
	}
	return hits, rows.Err()
}
