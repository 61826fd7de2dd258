package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"repodex/internal/paths"
)

var openExec bool

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Record an open and launch the configured editor",
	Long: `Record the path as opened, stamping its last-opened time, and build
the editor invocation from the configured command. By default the
invocation is printed; --exec launches it.`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&openExec, "exec", false, "Launch the editor instead of printing the invocation")
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	target, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	if !paths.Exists(target) {
		return fmt.Errorf("path does not exist: %s", target)
	}

	if err := a.usage.RecordOpen(target); err != nil {
		return fmt.Errorf("record open: %w", err)
	}

	invocation := append([]string{a.cfg.Editor.Command}, a.cfg.Editor.Args...)
	invocation = append(invocation, target)

	if !openExec {
		fmt.Println(strings.Join(invocation, " "))
		return nil
	}

	c := exec.CommandContext(cmd.Context(), invocation[0], invocation[1:]...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Start(); err != nil {
		return fmt.Errorf("launch editor: %w", err)
	}
	a.logger.Info("editor launched", "path", target, "pid", c.Process.Pid)
	return nil
}
