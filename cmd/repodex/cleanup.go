package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove cached records for deleted paths",
	RunE:  runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	removed := a.langs.CleanupMissingPaths() + a.usage.CleanupMissingPaths()
	fmt.Printf("Removed %d stale records.\n", removed)
	return nil
}
