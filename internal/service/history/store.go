// Package history keeps every record ever served, so the curator can reuse
// past picks and avoid serving the same person twice in one set.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/domain"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

// Store is a JSON-file-backed record archive with a bounded size. All
// methods are safe for concurrent use.
type Store struct {
	path    string
	maxSize int
	logger  *zap.Logger

	mu      sync.RWMutex
	records []domain.ImageRecord
	ids     map[string]struct{}
}

func NewStore(path string, maxSize int, logger *zap.Logger) *Store {
	return &Store{
		path:    path,
		maxSize: maxSize,
		logger:  logger,
		ids:     make(map[string]struct{}),
	}
}

// Load reads the archive from disk. A missing file is initialized empty; a
// corrupt file is treated as empty rather than blocking startup.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("History file not found, starting empty", zap.String("path", s.path))
		return s.persistLocked()
	}
	if err != nil {
		return apperrors.NewStorageError("failed to read history file", "load", s.path, err)
	}

	var records []domain.ImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("History file is corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		s.records = nil
		s.ids = make(map[string]struct{})
		return nil
	}

	s.records = records
	s.ids = make(map[string]struct{}, len(records))
	for _, rec := range records {
		s.ids[rec.ID] = struct{}{}
	}

	s.logger.Info("History loaded", zap.Int("records", len(records)))
	return nil
}

// Contains reports whether the record ID was ever archived. The error return
// lets callers distinguish a definitive answer from a lookup failure; the
// in-memory index never fails, so err is always nil here.
func (s *Store) Contains(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}

// ByGroup returns archived records with the given label, skipping those born
// before minBirthYear when it is positive. Records without a birth year pass
// the year check.
func (s *Store) ByGroup(group domain.Group, minBirthYear int) []domain.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ImageRecord
	for _, rec := range s.records {
		if rec.Group != group {
			continue
		}
		if minBirthYear > 0 && rec.BirthYear != nil && *rec.BirthYear < minBirthYear {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Append archives new records, skipping IDs already present. When the
// archive exceeds its cap the oldest entries are dropped. A persist failure
// is returned but the in-memory state keeps the records.
func (s *Store) Append(records []domain.ImageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, rec := range records {
		if _, ok := s.ids[rec.ID]; ok {
			continue
		}
		s.records = append(s.records, rec)
		s.ids[rec.ID] = struct{}{}
		added++
	}
	if added == 0 {
		return nil
	}

	if excess := len(s.records) - s.maxSize; excess > 0 {
		for _, rec := range s.records[:excess] {
			delete(s.ids, rec.ID)
		}
		s.records = append([]domain.ImageRecord(nil), s.records[excess:]...)
		s.logger.Info("History truncated", zap.Int("dropped", excess), zap.Int("size", len(s.records)))
	}

	if err := s.persistLocked(); err != nil {
		s.logger.Error("Failed to persist history", zap.Error(err))
		return err
	}

	s.logger.Info("History updated", zap.Int("added", added), zap.Int("size", len(s.records)))
	return nil
}

// Len returns the number of archived records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) persistLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageError("failed to create history directory", "persist", dir, err)
		}
	}

	records := s.records
	if records == nil {
		records = []domain.ImageRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode history", "persist", s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return apperrors.NewStorageError("failed to write history file", "persist", s.path, err)
	}
	return nil
}
