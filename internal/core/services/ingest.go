package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/executor"
	"github.com/papermind-ai/papermind/internal/logger"
	"github.com/papermind-ai/papermind/internal/planner"
	"github.com/papermind-ai/papermind/internal/splitter"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// vectorNamespace is the UUID namespace for deterministic vector IDs.
// Deriving the ID from document and offset makes upserts idempotent:
// reprocessing the same content overwrites instead of duplicating.
var vectorNamespace = uuid.MustParse("8d7f2fb4-9a64-4b8e-9f3e-0c2b1a6d5e4f")

// IngestService runs the ingestion pipeline: split the document into
// chunks, pack chunks into batches, embed and index each batch with
// retry, and mark the document vectorized once every batch has committed.
//
// Batches are submitted strictly sequentially; concurrency exists across
// documents (callers process different documents in parallel), never
// within one document's batch stream.
type IngestService struct {
	docStore driven.DocumentStore
	index    *VectorIndex
	embedder driven.EmbeddingService
	split    *splitter.Splitter
	plan     *planner.Planner
	exec     *executor.Executor
	settings domain.Settings
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithExecutor substitutes the batch executor. Used by tests to inject
// an executor with a fake sleep function.
func WithExecutor(exec *executor.Executor) IngestOption {
	return func(s *IngestService) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// NewIngestService creates the ingestion pipeline from settings.
// Invalid settings (such as overlap >= chunk size) fail here with
// domain.ErrInvalidConfiguration rather than at processing time.
func NewIngestService(
	docStore driven.DocumentStore,
	index *VectorIndex,
	embedder driven.EmbeddingService,
	settings domain.Settings,
	opts ...IngestOption,
) (*IngestService, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	split, err := splitter.New(settings.ChunkSize, settings.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	s := &IngestService{
		docStore: docStore,
		index:    index,
		embedder: embedder,
		split:    split,
		plan: planner.New(
			planner.WithMaxBatchSize(settings.MaxBatchSize),
			planner.WithMaxBatchTokens(settings.MaxBatchTokens),
		),
		exec: executor.New(
			executor.WithMaxRetries(settings.MaxRetries),
			executor.WithInterBatchDelay(settings.InterBatchDelay),
		),
		settings: settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Process chunks, embeds and indexes the document, then flips its
// vectorized flag. The flag is set only after every batch has committed;
// any batch failure aborts processing and propagates, leaving the flag
// unset. Vectors from batches that committed before the failure stay in
// the index until Delete or Reprocess cleans them up.
func (s *IngestService) Process(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" || doc.OwnerID == "" {
		return fmt.Errorf("document id and owner are required: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	logger.Section("Ingestion")
	logger.Info("Processing document %s (%d bytes)", doc.ID, len(doc.Content))

	// Record the document before indexing so a failed run leaves a
	// visible, unvectorized document rather than orphaned vectors.
	doc.Vectorized = false
	if err := s.docStore.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}

	chunks := s.split.Split(doc.Content)
	if len(chunks) == 0 {
		// Nothing to index; an empty document is ready by definition.
		return s.markVectorized(ctx, doc)
	}

	batches := s.plan.Plan(chunks)
	logger.Info("Planned %d chunks into %d batches", len(chunks), len(batches))

	committer := executor.CommitterFunc(func(ctx context.Context, batch domain.Batch) error {
		return s.commitBatch(ctx, doc, batch)
	})

	if err := s.exec.ExecuteAll(ctx, committer, batches); err != nil {
		return fmt.Errorf("process document %s: %w", doc.ID, err)
	}

	return s.markVectorized(ctx, doc)
}

// Reprocess runs the explicit two-phase reindex: invalidate the
// document's existing vectors, then run the standard pipeline over its
// current content. The index has no partial-update semantics, so
// delete-then-reinsert is the only correct way to refresh a document.
func (s *IngestService) Reprocess(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return fmt.Errorf("document id is required: %w", domain.ErrInvalidInput)
	}

	doc.Vectorized = false
	if err := s.docStore.Save(ctx, doc); err != nil {
		return fmt.Errorf("clear vectorized flag: %w", err)
	}

	if err := s.index.DeleteByDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete existing vectors: %w", err)
	}

	return s.Process(ctx, doc)
}

// Delete removes the document's vectors and its record. Deleting a
// partially indexed document removes whatever was written; deleting an
// unknown document's vectors is not an error.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("document id is required: %w", domain.ErrInvalidInput)
	}

	if err := s.index.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.docStore.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}

// commitBatch embeds one batch and writes it to the index. All-or-nothing
// from the caller's perspective: an error anywhere means none of the
// batch's chunks are considered visible.
func (s *IngestService) commitBatch(ctx context.Context, doc *domain.Document, batch domain.Batch) error {
	embeddings, err := s.embedder.EmbedBatch(ctx, batch.Texts())
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != batch.Len() {
		return fmt.Errorf("%w: provider returned %d embeddings for %d chunks",
			domain.ErrTransientProvider, len(embeddings), batch.Len())
	}

	vectors := make([]domain.IndexedVector, batch.Len())
	for i, chunk := range batch.Chunks {
		metadata := map[string]string{"offset": strconv.Itoa(chunk.SourceOffset)}
		for k, v := range chunk.Metadata {
			metadata[k] = v
		}
		vectors[i] = domain.IndexedVector{
			ID:         vectorID(doc.ID, chunk.SourceOffset),
			Embedding:  embeddings[i],
			Text:       chunk.Text,
			OwnerID:    doc.OwnerID,
			DocumentID: doc.ID,
			Metadata:   metadata,
		}
	}

	return s.index.Upsert(ctx, vectors)
}

// markVectorized records full-pipeline success on the document.
func (s *IngestService) markVectorized(ctx context.Context, doc *domain.Document) error {
	if err := s.docStore.SetVectorized(ctx, doc.ID, true); err != nil {
		return fmt.Errorf("mark vectorized: %w", err)
	}
	doc.Vectorized = true
	logger.Info("Document %s vectorized", doc.ID)
	return nil
}

// vectorID derives a stable vector identifier from the document and the
// chunk's position in it.
func vectorID(documentID string, offset int) string {
	return uuid.NewSHA1(vectorNamespace, []byte(documentID+":"+strconv.Itoa(offset))).String()
}
