package filesystem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"wintertree/internal/domain"
	"wintertree/internal/ports"
)

// ChunkDir returns the artifact directory for a chunk sequence number.
func (s *Store) ChunkDir(id int) string {
	return filepath.Join(s.scanDir, chunksDir, fmt.Sprintf("chunk_%03d", id))
}

// WriteChunk writes a completed chunk's three artifacts. Each file is
// written atomically; callers mark the chunk done only after this returns.
func (s *Store) WriteChunk(acc *domain.Accumulator, meta *domain.ChunkMeta) error {
	dir := s.ChunkDir(meta.ID)

	coocOut := make(map[domain.PeriodKey]map[string]int64, len(acc.Cooc()))
	for period, pairs := range acc.Cooc() {
		m := make(map[string]int64, len(pairs))
		for pair, count := range pairs {
			m[pair.Key()] = count
		}
		coocOut[period] = m
	}
	if err := writeGzJSONAtomic(filepath.Join(dir, coocFile), coocOut); err != nil {
		return err
	}

	actOut := make(map[domain.PeriodKey]map[string]int64, len(acc.Activity()))
	for period, concepts := range acc.Activity() {
		m := make(map[string]int64, len(concepts))
		for idx, count := range concepts {
			m[strconv.Itoa(idx)] = count
		}
		actOut[period] = m
	}
	if err := writeGzJSONAtomic(filepath.Join(dir, activityFile), actOut); err != nil {
		return err
	}

	return writeJSONAtomic(filepath.Join(dir, metaFile), meta, true)
}

// ReadActivity loads a committed chunk's activity table.
func (s *Store) ReadActivity(id int) (map[domain.PeriodKey]map[int]int64, error) {
	var raw map[domain.PeriodKey]map[string]int64
	if err := readGzJSON(filepath.Join(s.ChunkDir(id), activityFile), &raw); err != nil {
		return nil, err
	}

	out := make(map[domain.PeriodKey]map[int]int64, len(raw))
	for period, concepts := range raw {
		m := make(map[int]int64, len(concepts))
		for key, count := range concepts {
			idx, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("chunk %d: bad concept key %q", id, key)
			}
			m[idx] = count
		}
		out[period] = m
	}
	return out, nil
}

// ReadCooc loads a committed chunk's co-occurrence table.
func (s *Store) ReadCooc(id int) (map[domain.PeriodKey]map[domain.Pair]int64, error) {
	var raw map[domain.PeriodKey]map[string]int64
	if err := readGzJSON(filepath.Join(s.ChunkDir(id), coocFile), &raw); err != nil {
		return nil, err
	}

	out := make(map[domain.PeriodKey]map[domain.Pair]int64, len(raw))
	for period, pairs := range raw {
		m := make(map[domain.Pair]int64, len(pairs))
		for key, count := range pairs {
			pair, err := domain.ParsePairKey(key)
			if err != nil {
				return nil, fmt.Errorf("chunk %d: %w", id, err)
			}
			m[pair] = count
		}
		out[period] = m
	}
	return out, nil
}

// ReadMeta loads a committed chunk's metadata summary.
func (s *Store) ReadMeta(id int) (*domain.ChunkMeta, error) {
	data, err := os.ReadFile(filepath.Join(s.ChunkDir(id), metaFile))
	if err != nil {
		return nil, err
	}
	var meta domain.ChunkMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("chunk %d: bad meta: %w", id, err)
	}
	return &meta, nil
}

// --- births ---

type birthsPayload struct {
	Meta struct {
		Total int    `json:"total"`
		Date  string `json:"date"`
	} `json:"meta"`
	BirthsByName map[string]int    `json:"births_by_name"`
	BirthsByIdx  []*int            `json:"births_by_idx"`
	PeriodsByIdx map[string]string `json:"periods_by_idx"`
}

// WriteBirths writes the earliest-appearance index and returns its path.
func (s *Store) WriteBirths(births map[int]domain.PeriodKey, lookup *domain.Lookup) (string, error) {
	var payload birthsPayload
	payload.Meta.Total = len(births)
	payload.Meta.Date = time.Now().Format("2006-01-02 15:04:05")
	payload.BirthsByName = make(map[string]int, len(births))
	payload.BirthsByIdx = make([]*int, lookup.Size())
	payload.PeriodsByIdx = make(map[string]string, len(births))

	for idx, period := range births {
		year := period.Year()
		if c, ok := lookup.At(idx); ok {
			payload.BirthsByName[c.Name] = year
		}
		if idx >= 0 && idx < len(payload.BirthsByIdx) {
			y := year
			payload.BirthsByIdx[idx] = &y
		}
		payload.PeriodsByIdx[strconv.Itoa(idx)] = string(period)
	}

	path := filepath.Join(s.scanDir, birthsFile)
	if err := writeJSONAtomic(path, payload, false); err != nil {
		return "", err
	}
	return path, nil
}

// --- snapshot ---

type snapshotMeta struct {
	CutoffYear  int    `json:"cutoff_year"`
	ChunksRead  int    `json:"chunks_read"`
	TotalWorks  int64  `json:"total_works"`
	UniquePairs int    `json:"unique_pairs"`
	Timestamp   string `json:"timestamp"`
}

// WriteSnapshot writes a cutoff-filtered aggregate and returns its directory.
func (s *Store) WriteSnapshot(snap *ports.Snapshot) (string, error) {
	dir := filepath.Join(s.scanDir, fmt.Sprintf("snapshot_%d", snap.CutoffYear))

	activity := make(map[string]int64, len(snap.Activity))
	for idx, count := range snap.Activity {
		activity[strconv.Itoa(idx)] = count
	}
	actPayload := map[string]any{
		"total_works": snap.TotalWorks,
		"activity":    activity,
	}
	if err := writeJSONAtomic(filepath.Join(dir, "activity.json"), actPayload, false); err != nil {
		return "", err
	}

	cooc := make(map[string]int64, len(snap.Cooc))
	for pair, count := range snap.Cooc {
		cooc[pair.Key()] = count
	}
	if err := writeGzJSONAtomic(filepath.Join(dir, "cooc.json.gz"), cooc); err != nil {
		return "", err
	}

	meta := snapshotMeta{
		CutoffYear:  snap.CutoffYear,
		ChunksRead:  snap.ChunksRead,
		TotalWorks:  snap.TotalWorks,
		UniquePairs: len(snap.Cooc),
		Timestamp:   time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := writeJSONAtomic(filepath.Join(dir, metaFile), meta, true); err != nil {
		return "", err
	}

	return dir, nil
}
