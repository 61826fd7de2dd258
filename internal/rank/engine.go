package rank

import (
	"log/slog"
	"sort"
	"time"

	"github.com/sahilm/fuzzy"

	"repodex/internal/classify"
	"repodex/internal/model"
)

// LanguageSource supplies cached classifications, detecting on a miss.
type LanguageSource interface {
	Has(path string) bool
	DetectAndCache(path string) []classify.Language
	Languages(path string) []classify.Language
	RemoteURL(path string) string
}

// UsageSource supplies last-opened times for the LastOpened sort policy.
type UsageSource interface {
	LastOpened(path string) (time.Time, bool)
}

// DefaultMaxResults is the truncation limit when none is configured.
const DefaultMaxResults = 40

// Engine enriches discovery shells from the caches, filters them by the
// parsed query, and orders what remains.
type Engine struct {
	langs  LanguageSource
	usage  UsageSource
	logger *slog.Logger
}

// New creates a ranking engine over the given sources.
func New(langs LanguageSource, usage UsageSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{langs: langs, usage: usage, logger: logger}
}

// Rank runs the full query pipeline: enrich, filter, order, truncate.
// A non-positive limit falls back to DefaultMaxResults.
func (e *Engine) Rank(entries []model.RepositoryEntry, rawQuery string, policy model.SortPolicy, limit int) []model.RepositoryEntry {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	q := Parse(rawQuery)

	enriched := make([]model.RepositoryEntry, 0, len(entries))
	for _, entry := range entries {
		enriched = append(enriched, e.enrich(entry))
	}

	filtered := make([]model.RepositoryEntry, 0, len(enriched))
	for _, entry := range enriched {
		if e.matchesFilters(entry, q) {
			filtered = append(filtered, entry)
		}
	}

	if q.Text != "" {
		filtered = e.fuzzyOrder(filtered, q.Text)
	} else if policy == model.SortLastOpened {
		filtered = e.lastOpenedOrder(filtered)
	}

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// enrich fills languages and remote URL on git entries. Never-seen paths
// are classified on the spot; cached records are served as-is even when
// stale, the background refresher brings them up to date. Workspace files
// have no source tree to classify and carry the single Unknown tag.
func (e *Engine) enrich(entry model.RepositoryEntry) model.RepositoryEntry {
	if entry.Kind != model.KindGitRepository {
		if len(entry.Languages) == 0 {
			entry.Languages = []classify.Language{classify.LangUnknown}
		}
		return entry
	}
	if !e.langs.Has(entry.Path) {
		entry.Languages = e.langs.DetectAndCache(entry.Path)
	} else {
		entry.Languages = e.langs.Languages(entry.Path)
	}
	entry.RemoteURL = e.langs.RemoteURL(entry.Path)
	return entry
}

func (e *Engine) matchesFilters(entry model.RepositoryEntry, q Query) bool {
	if q.RemoteOnly && entry.RemoteURL == "" {
		return false
	}
	for _, token := range q.Lang {
		if !anyLanguageMatches(entry.Languages, token) {
			return false
		}
	}
	return true
}

func anyLanguageMatches(langs []classify.Language, token string) bool {
	for _, l := range langs {
		if l.Matches(token) {
			return true
		}
	}
	return false
}

// titleSource adapts entries to the fuzzy matcher.
type titleSource []model.RepositoryEntry

func (t titleSource) Len() int            { return len(t) }
func (t titleSource) String(i int) string { return t[i].DisplayTitle() }

// fuzzyOrder keeps only entries whose title matches the text, ordered by
// descending match score, ties broken by ascending title.
func (e *Engine) fuzzyOrder(entries []model.RepositoryEntry, text string) []model.RepositoryEntry {
	matches := fuzzy.FindFrom(text, titleSource(entries))
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Str < matches[j].Str
	})

	out := make([]model.RepositoryEntry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

// lastOpenedOrder puts opened entries first, most recent open leading, and
// keeps never-opened entries behind them in discovery order.
func (e *Engine) lastOpenedOrder(entries []model.RepositoryEntry) []model.RepositoryEntry {
	type opened struct {
		entry model.RepositoryEntry
		at    time.Time
	}
	var openedList []opened
	var rest []model.RepositoryEntry
	for _, entry := range entries {
		if at, ok := e.usage.LastOpened(entry.Path); ok {
			openedList = append(openedList, opened{entry, at})
		} else {
			rest = append(rest, entry)
		}
	}
	sort.SliceStable(openedList, func(i, j int) bool {
		return openedList[i].at.After(openedList[j].at)
	})

	out := make([]model.RepositoryEntry, 0, len(entries))
	for _, o := range openedList {
		out = append(out, o.entry)
	}
	return append(out, rest...)
}
