package infrastructure

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// JSONHistoryStore persists the attribution log as a human-readable JSON
// array, capped to the most recent maxEntries records. Every append is a
// full read-modify-write under the store's lock, so concurrent jobs
// finishing together cannot lose each other's records.
type JSONHistoryStore struct {
	path       string
	maxEntries int
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewJSONHistoryStore creates a new history store
func NewJSONHistoryStore(path string, maxEntries int, logger *zap.Logger) *JSONHistoryStore {
	return &JSONHistoryStore{
		path:       path,
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Append adds a record to the log, evicting the oldest entries beyond the
// cap. History is best-effort: persistence failures are logged and
// swallowed, never failing the caller's job.
func (s *JSONHistoryStore) Append(record *domain.DownloadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load()
	history = append(history, *record)
	if len(history) > s.maxEntries {
		history = history[len(history)-s.maxEntries:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		s.logFailure("encode", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logFailure("write", err)
	}
}

// List returns the persisted records, oldest first.
func (s *JSONHistoryStore) List() ([]domain.DownloadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// load reads the history file. A missing, unreadable or corrupted file is
// treated as an empty log; a parse error must never propagate to a job.
func (s *JSONHistoryStore) load() []domain.DownloadRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var history []domain.DownloadRecord
	if err := json.Unmarshal(data, &history); err != nil {
		if s.logger != nil {
			s.logger.Warn("History file unreadable, starting a fresh log",
				zap.String("path", s.path),
				zap.Error(err))
		}
		return nil
	}
	return history
}

func (s *JSONHistoryStore) logFailure(op string, err error) {
	if s.logger != nil {
		s.logger.Error("Failed to persist download history",
			zap.String("op", op),
			zap.String("path", s.path),
			zap.Error(err))
	}
}
