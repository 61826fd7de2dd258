package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Reclassify every discovered repository from scratch",
	Long: `Discard cached classifications and re-detect languages for every
git repository in the discovery snapshot, regardless of staleness.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.disc.Available(cmd.Context()) {
		return fmt.Errorf("search backend %q is not available", a.cfg.Discovery.Command)
	}
	a.super.RunOnce(cmd.Context(), true)
	fmt.Printf("Rebuilt classifications for %d entries.\n", a.langs.Len())
	return nil
}
