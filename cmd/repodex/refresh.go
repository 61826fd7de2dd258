package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rediscover and reclassify stale repositories",
	Long: `Run one synchronous refresh: query the search backend for every
configured root, reclassify repositories whose cached classification has
gone stale, and prune records for deleted paths.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.disc.Available(cmd.Context()) {
		return fmt.Errorf("search backend %q is not available", a.cfg.Discovery.Command)
	}
	a.super.RunOnce(cmd.Context(), false)
	fmt.Printf("Refreshed %d entries.\n", a.disc.Len())
	return nil
}
