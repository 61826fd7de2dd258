package main

import (
	"github.com/spf13/cobra"

	"repodex/internal/version"
)

var (
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repodex",
	Short: "Repodex - repository discovery and ranking engine",
	Long: `Repodex discovers git repositories and editor workspaces through an
indexed-search backend, classifies each repository's languages, tracks when
you last opened them, and ranks the results against fuzzy queries.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate(version.Full() + "\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default: from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human, json (default: from config)")
}
