package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/watcher"
)

var ingestTitle string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the index",
	Long: `Reads a text or markdown file, splits it into chunks, embeds the
chunks and writes them to the vector index. Ingesting the same file
again replaces its previous vectors.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title (defaults to the file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	title := ingestTitle
	if title == "" {
		title = filepath.Base(path)
	}

	doc := &domain.Document{
		ID:      watcher.DocumentID(path),
		OwnerID: ownerID,
		Title:   title,
		Content: string(content),
	}

	cmd.Printf("Ingesting %s...\n", path)
	if err := ingestService.Reprocess(context.Background(), doc); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Document %s ingested.\n", doc.ID)
	return nil
}
