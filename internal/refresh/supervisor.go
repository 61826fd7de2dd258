// Package refresh coordinates background discovery and classification runs.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"repodex/internal/model"
)

// Discoverer is the discovery snapshot dependency.
type Discoverer interface {
	Available(ctx context.Context) bool
	ForceRefresh(ctx context.Context) []model.RepositoryEntry
}

// ClassificationStore is the language-cache dependency.
type ClassificationStore interface {
	RefreshStale(ctx context.Context, pathList []string) int
	RebuildAll(ctx context.Context, pathList []string) int
	CleanupMissingPaths() int
	Flush() error
}

// UsagePruner prunes usage records for deleted paths.
type UsagePruner interface {
	CleanupMissingPaths() int
}

// startleDelay keeps the startup run from competing with the first
// interactive query.
const startleDelay = 2 * time.Second

// Supervisor runs at most one refresh at a time. Triggering while a run is
// in flight cancels it and waits for it to exit before the new run starts.
type Supervisor struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	disc   Discoverer
	langs  ClassificationStore
	usage  UsagePruner
	logger *slog.Logger
	delay  time.Duration
}

// New creates a supervisor over the given stores.
func New(disc Discoverer, langs ClassificationStore, usage UsagePruner, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Supervisor{
		disc:   disc,
		langs:  langs,
		usage:  usage,
		logger: logger,
		delay:  startleDelay,
	}
}

// Start schedules the startup refresh after the startle delay. Cancelling
// the context before the delay elapses skips the run.
func (s *Supervisor) Start(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
		}
		s.Trigger()
	}()
}

// Trigger starts a stale-only refresh, superseding any run in flight.
func (s *Supervisor) Trigger() {
	s.start(false)
}

// TriggerRebuildAll starts a full reclassification, superseding any run in
// flight.
func (s *Supervisor) TriggerRebuildAll() {
	s.start(true)
}

// Stop cancels the current run, if any, and waits for it to exit.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Supervisor) start(rebuild bool) {
	s.mu.Lock()
	// Concurrent triggers can each find a run to supersede; whoever
	// re-acquires the lock first installs its own, so keep cancelling
	// until the slot is actually free.
	for s.cancel != nil {
		cancel, done := s.cancel, s.done
		s.mu.Unlock()
		cancel()
		<-done
		s.mu.Lock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done = cancel, done
	s.mu.Unlock()

	go func() {
		defer func() {
			close(done)
			s.mu.Lock()
			if s.done == done {
				s.cancel, s.done = nil, nil
			}
			s.mu.Unlock()
		}()
		s.RunOnce(ctx, rebuild)
	}()
}

// RunOnce executes one complete refresh synchronously: probe the backend,
// rediscover, reclassify git repositories, prune deleted paths, persist.
// An unavailable backend aborts quietly.
func (s *Supervisor) RunOnce(ctx context.Context, rebuild bool) {
	log := s.logger.With("run", uuid.NewString())

	if !s.disc.Available(ctx) {
		log.Debug("search backend unavailable, skipping refresh")
		return
	}

	entries := s.disc.ForceRefresh(ctx)
	if ctx.Err() != nil {
		log.Debug("refresh cancelled during discovery")
		return
	}

	var gitPaths []string
	for _, e := range entries {
		if e.Kind == model.KindGitRepository {
			gitPaths = append(gitPaths, e.Path)
		}
	}

	var updated int
	if rebuild {
		updated = s.langs.RebuildAll(ctx, gitPaths)
	} else {
		updated = s.langs.RefreshStale(ctx, gitPaths)
	}
	if ctx.Err() != nil {
		log.Debug("refresh cancelled during classification", "updated", updated)
		return
	}

	pruned := s.langs.CleanupMissingPaths() + s.usage.CleanupMissingPaths()
	if err := s.langs.Flush(); err != nil {
		log.Warn("failed to persist classification cache", "error", err)
	}
	log.Info("refresh complete",
		"entries", len(entries),
		"reclassified", updated,
		"pruned", pruned,
		"rebuild", rebuild)
}
