package classify

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// Options configures the classifier.
type Options struct {
	IgnoreDirs            []string
	FileBudget            int
	SignificanceThreshold float64
}

// DefaultOptions returns the default classifier settings.
func DefaultOptions() Options {
	return Options{
		IgnoreDirs: []string{
			"node_modules", "vendor", "target", "build", "dist",
			"out", "bin", "obj", "__pycache__", "venv", "deps",
			"packages", "bower_components",
		},
		FileBudget:            500,
		SignificanceThreshold: 0.2,
	}
}

// Classifier determines the significant languages of a repository tree.
type Classifier struct {
	ignoreDirs map[string]struct{}
	budget     int
	threshold  float64
	logger     *slog.Logger
}

// New creates a classifier. A nil logger discards diagnostics.
func New(opts Options, logger *slog.Logger) *Classifier {
	if opts.FileBudget <= 0 {
		opts.FileBudget = 500
	}
	if opts.SignificanceThreshold <= 0 {
		opts.SignificanceThreshold = 0.2
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ignore := make(map[string]struct{}, len(opts.IgnoreDirs))
	for _, d := range opts.IgnoreDirs {
		ignore[strings.ToLower(d)] = struct{}{}
	}

	return &Classifier{
		ignoreDirs: ignore,
		budget:     opts.FileBudget,
		threshold:  opts.SignificanceThreshold,
		logger:     logger,
	}
}

// Classify returns the ordered significant languages of the tree rooted at
// repoPath, most prevalent first. It never fails: any access error degrades
// to the single Unknown tag.
func (c *Classifier) Classify(repoPath string) []Language {
	if lang, ok := c.signatureLanguage(repoPath); ok {
		return []Language{lang}
	}

	counts := c.countExtensions(repoPath)
	if len(counts) == 0 {
		return []Language{LangUnknown}
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	type langCount struct {
		lang  Language
		count int
	}
	ranked := make([]langCount, 0, len(counts))
	for lang, n := range counts {
		ranked = append(ranked, langCount{lang, n})
	}
	// Descending count; exact ties broken by ascending tag name.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].lang < ranked[j].lang
	})

	var significant []Language
	for _, lc := range ranked {
		share := float64(lc.count) / float64(total)
		if share >= c.threshold {
			significant = append(significant, lc.lang)
		}
	}
	if len(significant) == 0 {
		significant = []Language{ranked[0].lang}
	}
	return significant
}

// countExtensions walks the tree depth-first counting classifiable files
// until the budget is exhausted.
func (c *Classifier) countExtensions(repoPath string) map[Language]int {
	counts := make(map[Language]int)
	remaining := c.budget

	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == repoPath {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			if _, ignored := c.ignoreDirs[strings.ToLower(name)]; ignored {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, skip := skipExtensions[ext]; skip {
			return nil
		}
		if remaining <= 0 {
			return fs.SkipAll
		}
		remaining--

		if lang, ok := extensionTable[ext]; ok {
			counts[lang]++
		}
		return nil
	})
	if err != nil {
		c.logger.Debug("classification walk aborted", "path", repoPath, "error", err)
		return counts
	}
	return counts
}
