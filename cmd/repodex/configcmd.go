package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repodex/internal/config"
	"repodex/internal/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage repodex configuration",
	Long:  "View and manage the repodex configuration stored in ~/.repodex/config.json",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	file := filepath.Join(dir, "config.json")
	if paths.Exists(file) {
		return fmt.Errorf("config already exists at %s", file)
	}
	if err := config.DefaultConfig().Save(dir); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote default configuration to %s\n", file)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
