package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var daemonInterval time.Duration

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background refresh loop",
	Long: `Keep the discovery snapshot and classification cache fresh: one
startup refresh shortly after launch, then periodic refreshes at the
configured interval. Stops cleanly on SIGINT/SIGTERM.`,
	RunE: runDaemon,
}

func init() {
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 30*time.Minute, "Time between background refreshes")
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a.super.Start(ctx)
	a.logger.Info("daemon started", "interval", daemonInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(daemonInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.super.Trigger()
		case s := <-sig:
			fmt.Printf("Received %s, shutting down\n", s)
			a.super.Stop()
			if err := a.langs.Flush(); err != nil {
				a.logger.Warn("failed to persist classification cache", "error", err)
			}
			return nil
		case <-ctx.Done():
			a.super.Stop()
			return nil
		}
	}
}
