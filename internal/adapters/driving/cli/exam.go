package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	examCount int
	examJSON  bool
)

var examCmd = &cobra.Command{
	Use:   "exam [doc-id]",
	Short: "Generate a practice exam from a document",
	Long: `Generates multiple-choice questions covering the document's most
representative passages. The document must be ingested first.`,
	Args: cobra.ExactArgs(1),
	RunE: runExam,
}

func init() {
	examCmd.Flags().IntVarP(&examCount, "count", "n", 5, "number of questions to generate")
	examCmd.Flags().BoolVar(&examJSON, "json", false, "output questions as JSON")
	rootCmd.AddCommand(examCmd)
}

func runExam(cmd *cobra.Command, args []string) error {
	if examService == nil {
		return errors.New("exam service not configured: set an LLM provider")
	}

	questions, err := examService.Generate(context.Background(), ownerID, args[0], examCount)
	if err != nil {
		return fmt.Errorf("failed to generate exam: %w", err)
	}

	if examJSON {
		data, err := json.MarshalIndent(questions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal questions: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i, q := range questions {
		cmd.Printf("%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			cmd.Printf("   %c) %s\n", 'a'+j, opt)
		}
		cmd.Println()
	}

	cmd.Println("Answers:")
	for i, q := range questions {
		cmd.Printf("  %d. %s\n", i+1, q.Answer)
	}
	return nil
}
