// Package cli implements the papermind command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Wired application services. Set from the composition root before
// Execute; commands nil-check the ones they need so partial wiring
// (for example, no LLM configured) degrades cleanly.
var (
	ingestService driving.Ingestor
	chatService   driving.Chatter
	examService   driving.ExamGenerator
	documentStore driven.DocumentStore
	settingsStore driven.SettingsStore
)

// Persistent flags.
var (
	verbose bool
	ownerID string
)

var rootCmd = &cobra.Command{
	Use:   "papermind",
	Short: "Document Q&A and exam generation from your own files",
	Long: `Papermind ingests documents into a vector index and answers
questions or generates practice exams grounded in their content.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "local", "owner the documents belong to")
}

// Services bundles everything the CLI needs from the composition root.
type Services struct {
	Ingestor      driving.Ingestor
	Chatter       driving.Chatter
	ExamGenerator driving.ExamGenerator
	DocumentStore driven.DocumentStore
	SettingsStore driven.SettingsStore
}

// SetServices wires application services into the CLI.
func SetServices(s Services) {
	ingestService = s.Ingestor
	chatService = s.Chatter
	examService = s.ExamGenerator
	documentStore = s.DocumentStore
	settingsStore = s.SettingsStore
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
