// Package discovery finds git repositories and editor workspace files via an
// external indexed-search tool, and caches the results as a snapshot.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"repodex/internal/config"
)

// runnerFunc executes the search command and returns its stdout. Split out
// so tests can stub the subprocess.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Backend wraps the indexed-search executable. Any tool that accepts the
// configured argument templates and prints newline-delimited absolute paths
// works.
type Backend struct {
	command       string
	gitArgs       []string
	workspaceArgs []string
	workspaceExt  string
	searchTimeout time.Duration
	probeTimeout  time.Duration
	runner        runnerFunc
	logger        *slog.Logger
}

// NewBackend builds a backend from the discovery configuration.
func NewBackend(cfg config.Discovery, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		command:       cfg.Command,
		gitArgs:       cfg.GitArgs,
		workspaceArgs: cfg.WorkspaceArgs,
		workspaceExt:  cfg.WorkspaceExtension,
		searchTimeout: time.Duration(cfg.SearchTimeoutMs) * time.Millisecond,
		probeTimeout:  time.Duration(cfg.ProbeTimeoutMs) * time.Millisecond,
		runner:        runCommand,
		logger:        logger,
	}
}

// Available reports whether the search executable can be launched at all.
// A non-zero exit still counts as available; only a failure to start the
// process (not installed, not executable) does not.
func (b *Backend) Available(ctx context.Context) bool {
	if b.command == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, b.probeTimeout)
	defer cancel()

	_, err := b.runner(ctx, b.command)
	if err == nil {
		return true
	}
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// SearchGit returns the paths the backend reports for .git folders under
// the root. Entries may be the .git folder itself or its parent depending
// on the tool; the store normalizes them.
func (b *Backend) SearchGit(ctx context.Context, root string) []string {
	return b.search(ctx, root, b.gitArgs)
}

// SearchWorkspaces returns the workspace-file paths under the root.
func (b *Backend) SearchWorkspaces(ctx context.Context, root string) []string {
	return b.search(ctx, root, b.workspaceArgs)
}

// search runs one templated query. Failures degrade to an empty result so
// a broken backend never takes the snapshot down with it.
func (b *Backend) search(ctx context.Context, root string, template []string) []string {
	ctx, cancel := context.WithTimeout(ctx, b.searchTimeout)
	defer cancel()

	args := make([]string, len(template))
	for i, a := range template {
		a = strings.ReplaceAll(a, "{root}", root)
		a = strings.ReplaceAll(a, "{ext}", strings.TrimPrefix(b.workspaceExt, "."))
		args[i] = a
	}

	out, err := b.runner(ctx, b.command, args...)
	if err != nil {
		b.logger.Warn("search backend failed", "command", b.command, "root", root, "error", err)
		return nil
	}
	return splitLines(out)
}

func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
