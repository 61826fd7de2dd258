package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"repodex/internal/model"
)

var (
	searchSort  string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search discovered repositories and workspaces",
	Long: `Search the discovery snapshot with a fuzzy query.

Query syntax:
  lang:<token>   keep only entries matching the language token
  --remote       keep only entries with a known remote URL
  anything else  fuzzy-matched against display titles

Examples:
  repodex search widget
  repodex search "lang:rust auth"
  repodex search --sort last-opened`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort policy for empty queries: recency, last-opened")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results (default: from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !a.disc.Available(ctx) {
		return printBackendMissing(a.cfg.Discovery.Command)
	}

	// Cold start: nothing to serve yet, so discovery runs synchronously.
	// Otherwise the snapshot answers immediately and refreshes behind us.
	var entries []model.RepositoryEntry
	if a.disc.Len() == 0 {
		entries = a.disc.ForceRefresh(ctx)
	} else {
		entries = a.disc.Results()
	}

	sortToken := searchSort
	if sortToken == "" {
		sortToken = a.cfg.Ranking.DefaultSort
	}
	policy, err := model.ParseSortPolicy(sortToken)
	if err != nil {
		return err
	}

	limit := searchLimit
	if limit <= 0 {
		limit = a.cfg.Ranking.MaxResults
	}

	results := a.engine.Rank(entries, strings.Join(args, " "), policy, limit)
	if err := a.langs.Flush(); err != nil {
		a.logger.Warn("failed to persist classification cache", "error", err)
	}

	if searchJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}
	printResults(results)
	return nil
}

func printResults(results []model.RepositoryEntry) {
	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, r := range results {
		line := fmt.Sprintf("%-30s %-10s %s", r.DisplayTitle(), r.Kind, r.Path)
		if len(r.Languages) > 0 {
			var names []string
			for _, l := range r.Languages {
				names = append(names, l.DisplayName())
			}
			line += "  [" + strings.Join(names, ", ") + "]"
		}
		fmt.Println(line)
	}
}

func printBackendMissing(command string) error {
	msg := fmt.Sprintf("Search backend %q is not available.", command)
	hint := fmt.Sprintf("Install it or point discovery.command in %s at another tool that prints newline-delimited paths.", "~/.repodex/config.json")
	if searchJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"error": msg,
			"hint":  hint,
		})
	}
	fmt.Println(msg)
	fmt.Println(hint)
	return nil
}
