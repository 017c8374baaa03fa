package driving

import (
	"context"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

// Ingestor runs the document ingestion pipeline: split, plan, embed, index.
type Ingestor interface {
	// Process chunks, embeds and indexes a document's content, then marks
	// the document vectorized. Any batch failure aborts processing and
	// leaves the flag unset; vectors from batches that already committed
	// may remain until cleanup.
	Process(ctx context.Context, doc *domain.Document) error

	// Reprocess deletes the document's existing vectors, then runs the
	// standard ingestion pipeline over its current content.
	Reprocess(ctx context.Context, doc *domain.Document) error

	// Delete removes a document and all of its vectors. Safe to call for
	// partially indexed documents.
	Delete(ctx context.Context, documentID string) error
}
