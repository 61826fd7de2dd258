package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"repodex/internal/model"
	"repodex/internal/paths"
)

// Snapshot is one complete discovery result with the time it was taken.
type Snapshot struct {
	Entries []model.RepositoryEntry `json:"entries"`
	TakenAt time.Time               `json:"takenAt"`
}

// Store holds the current discovery snapshot and refreshes it from the
// backend. Reads always return immediately from the snapshot; an expired
// snapshot triggers at most one background refresh at a time.
type Store struct {
	mu         sync.RWMutex
	snapshot   Snapshot
	refreshing bool

	filePath    string
	backend     *Backend
	roots       []string
	ttl         time.Duration
	icons       map[string]string
	subscribers []func([]model.RepositoryEntry)
	logger      *slog.Logger
	now         func() time.Time
}

// NewStore creates a store backed by the given file, loading any persisted
// snapshot so the first query after startup has something to serve.
func NewStore(filePath string, backend *Backend, roots []string, ttl time.Duration, icons map[string]string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{
		filePath: filePath,
		backend:  backend,
		roots:    roots,
		ttl:      ttl,
		icons:    icons,
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
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("discovery snapshot unreadable, resetting", "path", s.filePath, "error", err)
		return
	}
	s.snapshot = snap
}

// Available reports whether the search backend can be launched.
func (s *Store) Available(ctx context.Context) bool {
	return s.backend.Available(ctx)
}

// Results returns a copy of the current snapshot's entries. When the
// snapshot is older than the TTL, or empty (a degraded backend run leaves
// nothing worth caching), this kicks off a single background refresh;
// callers still get the current copy immediately.
func (s *Store) Results() []model.RepositoryEntry {
	s.mu.Lock()
	expired := s.snapshot.TakenAt.IsZero() ||
		len(s.snapshot.Entries) == 0 ||
		s.now().Sub(s.snapshot.TakenAt) > s.ttl
	startRefresh := expired && !s.refreshing
	if startRefresh {
		s.refreshing = true
	}
	entries := copyEntries(s.snapshot.Entries)
	s.mu.Unlock()

	if startRefresh {
		go func() {
			defer func() {
				s.mu.Lock()
				s.refreshing = false
				s.mu.Unlock()
			}()
			s.ForceRefresh(context.Background())
		}()
	}
	return entries
}

// Len returns the number of entries in the current snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Entries)
}

// GitPaths returns the paths of all git-repository entries in the current
// snapshot.
func (s *Store) GitPaths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, e := range s.snapshot.Entries {
		if e.Kind == model.KindGitRepository {
			out = append(out, e.Path)
		}
	}
	return out
}

// Subscribe registers a callback invoked with a copy of the entries after
// every completed refresh.
func (s *Store) Subscribe(fn func([]model.RepositoryEntry)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// ForceRefresh queries the backend for every configured root, replaces the
// snapshot, persists it, and returns a copy of the new entries. Duplicate
// paths across overlapping roots collapse to one entry.
func (s *Store) ForceRefresh(ctx context.Context) []model.RepositoryEntry {
	var entries []model.RepositoryEntry
	seen := make(map[string]bool)

	add := func(path string, kind model.EntryKind) {
		key := kind.String() + "\x00" + paths.Key(path)
		if seen[key] {
			return
		}
		seen[key] = true
		entries = append(entries, model.RepositoryEntry{
			Path:           path,
			Kind:           kind,
			CustomIconPath: s.iconFor(path),
		})
	}

	for _, root := range s.roots {
		for _, p := range s.backend.SearchGit(ctx, root) {
			// Backends report the .git folder itself; the entry is its parent.
			if filepath.Base(p) == ".git" {
				p = filepath.Dir(p)
			}
			add(p, model.KindGitRepository)
		}
		for _, p := range s.backend.SearchWorkspaces(ctx, root) {
			add(p, model.KindWorkspace)
		}
	}

	snap := Snapshot{Entries: entries, TakenAt: s.now()}
	s.mu.Lock()
	s.snapshot = snap
	subs := make([]func([]model.RepositoryEntry), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	if err := s.persist(snap); err != nil {
		s.logger.Warn("failed to persist discovery snapshot", "error", err)
	}
	s.logger.Debug("discovery refreshed", "entries", len(entries))

	for _, fn := range subs {
		fn(copyEntries(entries))
	}
	return copyEntries(entries)
}

func (s *Store) iconFor(path string) string {
	for p, icon := range s.icons {
		if paths.SameKey(p, path) {
			return icon
		}
	}
	return ""
}

func (s *Store) persist(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal discovery snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func copyEntries(entries []model.RepositoryEntry) []model.RepositoryEntry {
	out := make([]model.RepositoryEntry, len(entries))
	copy(out, entries)
	return out
}
