package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, inspect, reprocess, or remove ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentStatusCmd = &cobra.Command{
	Use:   "status [doc-id]",
	Short: "Show document info and indexing state",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentStatus,
}

var documentReprocessCmd = &cobra.Command{
	Use:   "reprocess [doc-id]",
	Short: "Rebuild a document's vectors from its stored content",
	Long: `Deletes the document's existing vectors and runs the full pipeline
over its stored content again. Use after changing chunking settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentReprocess,
}

var documentRemoveCmd = &cobra.Command{
	Use:     "remove [doc-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a document and its vectors",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentStatusCmd)
	documentCmd.AddCommand(documentReprocessCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	docs, err := documentStore.ListByOwner(context.Background(), ownerID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		state := "pending"
		if docs[i].Vectorized {
			state = "indexed"
		}
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    State: %s\n", state)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentStatus(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	state := "pending"
	if doc.Vectorized {
		state = "indexed"
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  Owner:      %s\n", doc.OwnerID)
	cmd.Printf("  State:      %s\n", state)
	cmd.Printf("  Size:       %d bytes\n", len(doc.Content))
	cmd.Printf("  Created:    %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:    %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentReprocess(cmd *cobra.Command, args []string) error {
	if ingestService == nil || documentStore == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	doc, err := documentStore.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Reprocessing document %s...\n", doc.ID)
	if err := ingestService.Reprocess(ctx, doc); err != nil {
		return fmt.Errorf("reprocessing failed: %w", err)
	}

	cmd.Printf("Document %s reprocessed.\n", doc.ID)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Document %s removed.\n", args[0])
	return nil
}
