// Package model defines the result types shared across the engine.
package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"repodex/internal/classify"
)

// EntryKind discriminates the discovered artifact variants.
type EntryKind int

const (
	// KindGitRepository is a directory containing a .git folder; the entry
	// path is the parent of that folder, never the .git folder itself.
	KindGitRepository EntryKind = iota
	// KindWorkspace is an editor workspace file; the entry path is the file.
	KindWorkspace
)

// String returns the kind's wire name.
func (k EntryKind) String() string {
	switch k {
	case KindGitRepository:
		return "git"
	case KindWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON persistence.
func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EntryKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "git":
		*k = KindGitRepository
	case "workspace":
		*k = KindWorkspace
	default:
		return fmt.Errorf("unknown entry kind %q", text)
	}
	return nil
}

// RepositoryEntry is one discovered artifact. Discovery produces shells
// carrying only Path, Kind and CustomIconPath; the query path enriches them
// with languages and remote URL from the classification cache.
type RepositoryEntry struct {
	Path           string              `json:"path"`
	Kind           EntryKind           `json:"kind"`
	Languages      []classify.Language `json:"languages,omitempty"`
	RemoteURL      string              `json:"remoteUrl,omitempty"`
	CustomIconPath string              `json:"customIconPath,omitempty"`
}

// DisplayTitle returns the title shown to the user: the path's base name,
// with the workspace extension dropped for workspace entries.
func (e RepositoryEntry) DisplayTitle() string {
	base := filepath.Base(e.Path)
	if e.Kind == KindWorkspace {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

// SortPolicy selects the ordering used when the free text is empty.
type SortPolicy int

const (
	// SortRecencyOfDiscovery preserves the discovery backend's own order.
	SortRecencyOfDiscovery SortPolicy = iota
	// SortLastOpened orders opened entries by descending last-opened time,
	// then appends never-opened entries in discovery order.
	SortLastOpened
)

// ParseSortPolicy maps a config/CLI token to a policy.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recency", "discovery":
		return SortRecencyOfDiscovery, nil
	case "last-opened", "lastopened", "opened":
		return SortLastOpened, nil
	default:
		return SortRecencyOfDiscovery, fmt.Errorf("unknown sort policy %q", s)
	}
}

// String returns the policy's config token.
func (p SortPolicy) String() string {
	switch p {
	case SortLastOpened:
		return "last-opened"
	default:
		return "recency"
	}
}
