// Package usage tracks when repositories were last opened.
package usage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"repodex/internal/paths"
)

// Record is one persisted open event.
type Record struct {
	Path         string    `json:"path"`
	LastOpenedAt time.Time `json:"lastOpenedAt"`
}

// Store maps repository paths to their most recent open time. Every
// RecordOpen writes through to disk so a crash never loses more than the
// event in flight.
type Store struct {
	mu      sync.RWMutex
	records map[string]Record

	filePath string
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a store backed by the given file, loading any existing
// contents. A corrupt or missing file yields an empty store.
func New(filePath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		records:  make(map[string]Record),
		filePath: filePath,
		logger:   logger,
		now:      time.Now,
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("usage store unreadable, resetting", "path", s.filePath, "error", err)
		return
	}
	if records != nil {
		s.records = records
	}
}

// RecordOpen stamps the path with the current time and persists
// immediately.
func (s *Store) RecordOpen(path string) error {
	s.mu.Lock()
	s.records[paths.Key(path)] = Record{
		Path:         path,
		LastOpenedAt: s.now(),
	}
	s.mu.Unlock()
	return s.persist()
}

// LastOpened returns the recorded open time for the path. The second
// return is false when the path has never been opened.
func (s *Store) LastOpened(path string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[paths.Key(path)]
	return rec.LastOpenedAt, ok
}

// CleanupMissingPaths drops every record whose path no longer exists,
// persisting only if something was removed. Returns the number of records
// dropped.
func (s *Store) CleanupMissingPaths() int {
	s.mu.Lock()
	removed := 0
	for key, rec := range s.records {
		if !paths.Exists(rec.Path) {
			delete(s.records, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		if err := s.persist(); err != nil {
			s.logger.Warn("failed to persist usage store", "error", err)
		}
	}
	return removed
}

// Len returns the number of recorded paths.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) persist() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.records, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal usage store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("write usage store: %w", err)
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write usage store: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write usage store: %w", err)
	}
	return nil
}
