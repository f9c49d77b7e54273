package sqlite

import (
	"database/sql"
	"strconv"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// SyncLookup upserts every concept from the lookup. Birth columns are left
// untouched so a vocabulary refresh never erases derived births.
func (idx *Index) SyncLookup(lookup *domain.Lookup) (*ports.IndexSyncStats, error) {
	stats := &ports.IndexSyncStats{}

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO concepts (idx, openalex_id, name, level, works_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(idx) DO UPDATE SET
			openalex_id = excluded.openalex_id,
			name = excluded.name,
			level = excluded.level,
			works_count = excluded.works_count
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, c := range lookup.Concepts() {
		if _, err := stmt.Exec(c.Idx, c.ID, c.Name, c.Level, c.WorksCount); err != nil {
			return nil, err
		}
		stats.ConceptsUpserted++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if err := idx.updateMeta(); err != nil {
		return nil, err
	}
	return stats, nil
}

// SyncBirths writes derived birth periods and records how far the derivation
// has read into the chunk sequence.
func (idx *Index) SyncBirths(births map[int]domain.PeriodKey, throughChunk int) (*ports.IndexSyncStats, error) {
	stats := &ports.IndexSyncStats{ChunksScanned: throughChunk}

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE concepts SET birth_period = ?, birth_year = ? WHERE idx = ?
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for conceptIdx, period := range births {
		res, err := stmt.Exec(string(period), period.Year(), conceptIdx)
		if err != nil {
			return nil, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stats.BirthsUpdated++
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_synced_chunk', ?)`,
		strconv.Itoa(throughChunk)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return stats, nil
}

// LastSyncedChunk returns the chunk sequence number births were last derived
// through, or 0 when births have never been synced.
func (idx *Index) LastSyncedChunk() (int, error) {
	var value string
	err := idx.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_synced_chunk'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}
