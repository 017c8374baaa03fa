package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagemem "github.com/papermind-ai/papermind/internal/adapters/driven/storage/memory"
	vectormem "github.com/papermind-ai/papermind/internal/adapters/driven/vector/memory"
	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/executor"
)

// markerContent builds separator-free text that splits into exactly
// chunkCount chunks of chunkSize runes, with marker planted inside the
// chunk at markerIndex.
func markerContent(chunkCount, chunkSize, markerIndex int, marker string) string {
	buf := []byte(strings.Repeat("a", chunkCount*chunkSize))
	copy(buf[markerIndex*chunkSize+10:], marker)
	return string(buf)
}

// testPipeline wires an ingest service over in-memory stores with a
// recording sleep, so retry and pacing delays are observed, not waited.
func testPipeline(t *testing.T, embedder *keywordEmbedder, settings domain.Settings) (*IngestService, *storagemem.DocumentStore, *vectormem.Store, *VectorIndex, *[]time.Duration) {
	t.Helper()

	docs := storagemem.NewDocumentStore()
	vectors := vectormem.NewStore()
	index := NewVectorIndex(vectors, embedder)

	var delays []time.Duration
	exec := executor.New(
		executor.WithMaxRetries(settings.MaxRetries),
		executor.WithInterBatchDelay(settings.InterBatchDelay),
		executor.WithSleep(func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
	)

	svc, err := NewIngestService(docs, index, embedder, settings, WithExecutor(exec))
	require.NoError(t, err)
	return svc, docs, vectors, index, &delays
}

func TestIngestProcessFullPipeline(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{marker: "xylophone"}

	settings := domain.DefaultSettings()
	settings.ChunkSize = 100
	settings.ChunkOverlap = 0

	svc, docs, vectors, index, delays := testPipeline(t, embedder, settings)

	doc := &domain.Document{
		ID:      "doc-1",
		OwnerID: "alice",
		Title:   "notes.txt",
		Content: markerContent(25, 100, 22, "xylophone"),
	}
	require.NoError(t, docs.Save(ctx, doc))
	require.NoError(t, svc.Process(ctx, doc))

	// 25 chunks pack greedily into batches of 10, 10 and 5, with the
	// pacing delay between independent batches only.
	assert.Equal(t, []int{10, 10, 5}, embedder.batchSizes)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, *delays)
	assert.Equal(t, 25, vectors.Len())

	assert.True(t, doc.Vectorized)
	stored, err := docs.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.True(t, stored.Vectorized)

	// The planted phrase must come back as the best passage.
	passages, err := index.Query(ctx, "where is the xylophone", "alice", 3, "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, passages)
	assert.Contains(t, passages[0].Text, "xylophone")
}

func TestIngestProcessIsIdempotent(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{}

	settings := domain.DefaultSettings()
	settings.ChunkSize = 100
	settings.ChunkOverlap = 0

	svc, docs, vectors, _, _ := testPipeline(t, embedder, settings)

	doc := &domain.Document{ID: "doc-1", OwnerID: "alice", Content: markerContent(25, 100, 0, "")}
	require.NoError(t, docs.Save(ctx, doc))

	require.NoError(t, svc.Process(ctx, doc))
	require.NoError(t, svc.Process(ctx, doc))

	// Vector IDs derive from document and offset, so a second pass
	// overwrites rather than duplicates.
	assert.Equal(t, 25, vectors.Len())
}

func TestIngestProcessEmptyDocument(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{}

	svc, docs, vectors, _, _ := testPipeline(t, embedder, domain.DefaultSettings())

	doc := &domain.Document{ID: "doc-empty", OwnerID: "alice", Content: ""}
	require.NoError(t, docs.Save(ctx, doc))
	require.NoError(t, svc.Process(ctx, doc))

	assert.True(t, doc.Vectorized)
	assert.Zero(t, embedder.calls)
	assert.Zero(t, vectors.Len())
}

func TestIngestProcessValidatesDocument(t *testing.T) {
	svc, _, _, _, _ := testPipeline(t, &keywordEmbedder{}, domain.DefaultSettings())

	assert.ErrorIs(t, svc.Process(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Process(context.Background(), &domain.Document{ID: "x"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Process(context.Background(), &domain.Document{OwnerID: "alice"}), domain.ErrInvalidInput)
}

func TestIngestBatchFailureLeavesDocumentUnvectorized(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{
		batchErr: func(call int) error {
			if call >= 2 {
				return fmt.Errorf("payload rejected: %w", domain.ErrInvalidInput)
			}
			return nil
		},
	}

	settings := domain.DefaultSettings()
	settings.ChunkSize = 100
	settings.ChunkOverlap = 0

	svc, docs, vectors, _, _ := testPipeline(t, embedder, settings)

	doc := &domain.Document{ID: "doc-1", OwnerID: "alice", Content: markerContent(25, 100, 0, "")}
	require.NoError(t, docs.Save(ctx, doc))

	err := svc.Process(ctx, doc)
	require.Error(t, err)
	assert.ErrorContains(t, err, "batch 2 of 3")

	// The first batch committed before the failure; the flag stays
	// unset until Delete or Reprocess cleans up.
	assert.False(t, doc.Vectorized)
	stored, getErr := docs.Get(ctx, "doc-1")
	require.NoError(t, getErr)
	assert.False(t, stored.Vectorized)
	assert.Equal(t, 10, vectors.Len())

	require.NoError(t, svc.Delete(ctx, "doc-1"))
	assert.Zero(t, vectors.Len())
	_, getErr = docs.Get(ctx, "doc-1")
	assert.ErrorIs(t, getErr, domain.ErrNotFound)
}

func TestIngestRetriesExhaustTransientFailures(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{
		batchErr: func(int) error {
			return &domain.ProviderError{StatusCode: 503, Message: "upstream overloaded"}
		},
	}

	settings := domain.DefaultSettings()
	settings.ChunkSize = 100
	settings.ChunkOverlap = 0

	svc, docs, vectors, _, delays := testPipeline(t, embedder, settings)

	doc := &domain.Document{ID: "doc-1", OwnerID: "alice", Content: strings.Repeat("a", 100)}
	require.NoError(t, docs.Save(ctx, doc))

	err := svc.Process(ctx, doc)
	assert.ErrorIs(t, err, domain.ErrBatchFailed)

	var batchErr *domain.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, settings.MaxRetries, batchErr.Attempts)

	assert.Equal(t, settings.MaxRetries, embedder.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *delays)
	assert.False(t, doc.Vectorized)
	assert.Zero(t, vectors.Len())
}

func TestIngestReprocessReplacesVectors(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{}

	settings := domain.DefaultSettings()
	settings.ChunkSize = 100
	settings.ChunkOverlap = 0

	svc, docs, vectors, _, _ := testPipeline(t, embedder, settings)

	doc := &domain.Document{ID: "doc-1", OwnerID: "alice", Content: markerContent(25, 100, 0, "")}
	require.NoError(t, docs.Save(ctx, doc))
	require.NoError(t, svc.Process(ctx, doc))
	assert.Equal(t, 25, vectors.Len())

	// The document shrank; reprocessing must drop the stale vectors,
	// not just overlay the new ones.
	doc.Content = strings.Repeat("b", 500)
	require.NoError(t, svc.Reprocess(ctx, doc))

	assert.Equal(t, 5, vectors.Len())
	assert.True(t, doc.Vectorized)
}

func TestNewIngestServiceRejectsInvalidSettings(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.ChunkOverlap = settings.ChunkSize

	_, err := NewIngestService(storagemem.NewDocumentStore(), nil, &keywordEmbedder{}, settings)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}
