package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papermind-ai/papermind/internal/watcher"
)

var watchSync bool

var watchCmd = &cobra.Command{
	Use:   "watch [folder]",
	Short: "Watch a folder and ingest dropped documents",
	Long: `Watches a folder and ingests text and markdown files as they are
created or changed. Deleting a file removes its document. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchSync, "sync", false, "ingest files already present before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	folder := args[0]
	info, err := os.Stat(folder)
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", folder)
	}

	w, err := watcher.New(folder, ownerID, ingestService, watcher.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watchSync {
		cmd.Printf("Syncing existing files in %s...\n", folder)
		if err := w.Sync(ctx); err != nil {
			return fmt.Errorf("initial sync failed: %w", err)
		}
	}

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", folder)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	cmd.Println("Stopping...")
	return w.Stop()
}
