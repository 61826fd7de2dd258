package classify

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/plumbing/format/config"
)

// scpLikePattern matches git@host:owner/repo style URLs.
var scpLikePattern = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):(.+)$`)

// RemoteURL reads the repository's git configuration and returns the origin
// remote URL normalized to a browser-navigable HTTPS form. Any failure
// (missing config, no remotes, unparseable URL) yields "".
func RemoteURL(repoPath string) string {
	f, err := os.Open(filepath.Join(repoPath, ".git", "config"))
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	cfg := gitconfig.New()
	if err := gitconfig.NewDecoder(f).Decode(cfg); err != nil {
		return ""
	}

	remotes := cfg.Section("remote")
	raw := ""
	if remotes.HasSubsection("origin") {
		raw = remotes.Subsection("origin").Option("url")
	} else if len(remotes.Subsections) > 0 {
		raw = remotes.Subsections[0].Option("url")
	}
	if raw == "" {
		return ""
	}

	return NormalizeRemoteURL(raw)
}

// NormalizeRemoteURL converts SSH-style remote URLs to HTTPS and strips a
// trailing .git suffix. Unrecognized forms are returned with only the
// suffix stripped.
func NormalizeRemoteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(raw, "https://"), strings.HasPrefix(raw, "http://"):
		return stripGitSuffix(raw)
	case strings.HasPrefix(raw, "ssh://"):
		rest := strings.TrimPrefix(raw, "ssh://")
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		// Drop an explicit port if present.
		if host, path, ok := strings.Cut(rest, "/"); ok {
			if colon := strings.Index(host, ":"); colon >= 0 {
				host = host[:colon]
			}
			return stripGitSuffix("https://" + host + "/" + path)
		}
		return ""
	case strings.HasPrefix(raw, "git://"):
		return stripGitSuffix("https://" + strings.TrimPrefix(raw, "git://"))
	default:
		if m := scpLikePattern.FindStringSubmatch(raw); m != nil {
			return stripGitSuffix("https://" + m[1] + "/" + strings.TrimPrefix(m[2], "/"))
		}
		return stripGitSuffix(raw)
	}
}

func stripGitSuffix(url string) string {
	return strings.TrimSuffix(url, ".git")
}
