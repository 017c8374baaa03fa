package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askDocumentID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about a document",
	Long: `Retrieves the passages most relevant to the question from the
document's vectors and generates an answer constrained to them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDocumentID, "document", "d", "", "document to ask about (required)")
	_ = askCmd.MarkFlagRequired("document")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured: set an LLM provider")
	}

	answer, err := chatService.Ask(context.Background(), args[0], ownerID, askDocumentID)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	cmd.Println(answer)
	return nil
}
