// Package langcache persists language classifications with a staleness model.
package langcache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"repodex/internal/classify"
	"repodex/internal/paths"
)

// Record is one persisted classification.
type Record struct {
	Path       string              `json:"path"`
	Languages  []classify.Language `json:"languages"`
	RemoteURL  string              `json:"remoteUrl,omitempty"`
	DetectedAt time.Time           `json:"detectedAt"`
}

// Classifier is the language-detection dependency.
type Classifier interface {
	Classify(repoPath string) []classify.Language
}

// Options configures staleness and persistence batching.
type Options struct {
	StaleAfter       time.Duration
	PersistBatchSize int
}

// DefaultOptions returns the default cache settings.
func DefaultOptions() Options {
	return Options{
		StaleAfter:       24 * time.Hour,
		PersistBatchSize: 20,
	}
}

// Cache maps repository paths to classification records. The mutex guards
// only the map swap and persistence; classification work runs outside it so
// readers are never blocked by an in-flight scan.
type Cache struct {
	mu      sync.RWMutex
	records map[string]Record
	dirty   bool

	filePath   string
	classifier Classifier
	remoteFn   func(string) string
	staleAfter time.Duration
	batchSize  int
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a cache backed by the given file, loading any existing
// contents. A corrupt or missing file silently yields an empty cache.
func New(filePath string, classifier Classifier, opts Options, logger *slog.Logger) *Cache {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 24 * time.Hour
	}
	if opts.PersistBatchSize <= 0 {
		opts.PersistBatchSize = 20
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Cache{
		records:    make(map[string]Record),
		filePath:   filePath,
		classifier: classifier,
		remoteFn:   classify.RemoteURL,
		staleAfter: opts.StaleAfter,
		batchSize:  opts.PersistBatchSize,
		logger:     logger,
		now:        time.Now,
	}
	c.load()
	return c
}

func (c *Cache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return
	}
	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("classification cache unreadable, resetting", "path", c.filePath, "error", err)
		return
	}
	if records != nil {
		c.records = records
	}
}

// Languages returns the cached tags for the path, or the single Unknown tag
// on a miss. Never triggers I/O.
func (c *Cache) Languages(path string) []classify.Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rec, ok := c.records[paths.Key(path)]; ok && len(rec.Languages) > 0 {
		out := make([]classify.Language, len(rec.Languages))
		copy(out, rec.Languages)
		return out
	}
	return []classify.Language{classify.LangUnknown}
}

// RemoteURL returns the cached remote URL for the path, or "" on a miss.
func (c *Cache) RemoteURL(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records[paths.Key(path)].RemoteURL
}

// Has reports whether a record exists for the path, stale or not.
func (c *Cache) Has(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.records[paths.Key(path)]
	return ok
}

// IsStale reports whether the path needs re-detection: absent, or detected
// longer ago than the staleness threshold.
func (c *Cache) IsStale(path string) bool {
	c.mu.RLock()
	rec, ok := c.records[paths.Key(path)]
	c.mu.RUnlock()
	if !ok {
		return true
	}
	return c.now().Sub(rec.DetectedAt) > c.staleAfter
}

// DetectAndCache classifies the path synchronously and stores the result
// with the current timestamp. Concurrent calls for the same path are
// last-write-wins; duplicate work is not coalesced.
func (c *Cache) DetectAndCache(path string) []classify.Language {
	tags := c.classifier.Classify(path)
	remote := c.remoteFn(path)

	c.mu.Lock()
	c.records[paths.Key(path)] = Record{
		Path:       path,
		Languages:  tags,
		RemoteURL:  remote,
		DetectedAt: c.now(),
	}
	c.dirty = true
	c.mu.Unlock()

	return tags
}

// ForceRebuild discards any existing record before re-detecting, so the
// fresh timestamp always bypasses the staleness check.
func (c *Cache) ForceRebuild(path string) []classify.Language {
	c.mu.Lock()
	delete(c.records, paths.Key(path))
	c.mu.Unlock()
	return c.DetectAndCache(path)
}

// RefreshStale re-detects every stale path in the list, persisting every
// batchSize updates and once at the end. Cancellation is observed between
// paths. Returns the number of paths re-detected.
func (c *Cache) RefreshStale(ctx context.Context, pathList []string) int {
	return c.bulkDetect(ctx, pathList, true)
}

// RebuildAll unconditionally re-detects every path in the list with the
// same batching and cancellation behavior as RefreshStale.
func (c *Cache) RebuildAll(ctx context.Context, pathList []string) int {
	return c.bulkDetect(ctx, pathList, false)
}

func (c *Cache) bulkDetect(ctx context.Context, pathList []string, onlyStale bool) int {
	updated := 0
	for _, p := range pathList {
		select {
		case <-ctx.Done():
			c.logger.Debug("bulk detection cancelled", "updated", updated)
			c.flushQuiet()
			return updated
		default:
		}

		if onlyStale {
			if !c.IsStale(p) {
				continue
			}
			c.DetectAndCache(p)
		} else {
			c.ForceRebuild(p)
		}
		updated++

		if updated%c.batchSize == 0 {
			c.flushQuiet()
		}
	}
	c.flushQuiet()
	return updated
}

// CleanupMissingPaths drops every record whose path no longer exists as a
// file or directory, persisting only if something was removed. Returns the
// number of records dropped.
func (c *Cache) CleanupMissingPaths() int {
	c.mu.Lock()
	removed := 0
	for key, rec := range c.records {
		if !paths.Exists(rec.Path) {
			delete(c.records, key)
			removed++
		}
	}
	if removed > 0 {
		c.dirty = true
	}
	c.mu.Unlock()

	if removed > 0 {
		c.flushQuiet()
	}
	return removed
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Flush persists the cache if it has unsaved changes. Writes are
// whole-file replaces, so readers never observe a partial document.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal classification cache: %w", err)
	}
	if err := writeFileAtomic(c.filePath, data); err != nil {
		return fmt.Errorf("write classification cache: %w", err)
	}
	c.dirty = false
	return nil
}

func (c *Cache) flushQuiet() {
	if err := c.Flush(); err != nil {
		c.logger.Warn("failed to persist classification cache", "error", err)
	}
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
