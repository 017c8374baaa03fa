package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pipeline settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Println("Settings:")
	cmd.Printf("  chunk_size:        %d\n", settings.ChunkSize)
	cmd.Printf("  chunk_overlap:     %d\n", settings.ChunkOverlap)
	cmd.Printf("  max_batch_size:    %d\n", settings.MaxBatchSize)
	cmd.Printf("  max_batch_tokens:  %d\n", settings.MaxBatchTokens)
	cmd.Printf("  max_retries:       %d\n", settings.MaxRetries)
	cmd.Printf("  inter_batch_delay: %s\n", settings.InterBatchDelay)
	cmd.Printf("  chat_top_k:        %d\n", settings.ChatTopK)
	cmd.Printf("  exam_top_k:        %d\n", settings.ExamTopK)
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	if settingsStore == nil {
		return errors.New("settings store not configured")
	}

	if err := settingsStore.Save(domain.DefaultSettings()); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	cmd.Println("Default settings written.")
	return nil
}
