package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/logger"
)

// DefaultQueryK is the result count used when a caller passes k <= 0.
const DefaultQueryK = 10

// VectorIndex is the tenant-scoped face of the vector store. It owns
// query-time embedding (with the same model used at write time) and
// enforces the tenancy boundary: every query carries a mandatory owner
// filter, documentID only ever narrows within that owner.
type VectorIndex struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewVectorIndex creates a tenant-scoped index over a vector store.
func NewVectorIndex(store driven.VectorStore, embedder driven.EmbeddingService) *VectorIndex {
	return &VectorIndex{store: store, embedder: embedder}
}

// Upsert writes vectors to the underlying store. Idempotent on vector ID.
func (x *VectorIndex) Upsert(ctx context.Context, vectors []domain.IndexedVector) error {
	if x.store == nil {
		return domain.ErrVectorIndexUnavailable
	}
	for _, v := range vectors {
		if v.OwnerID == "" || v.DocumentID == "" {
			return fmt.Errorf("vector %s missing owner or document tag: %w", v.ID, domain.ErrInvalidInput)
		}
	}
	return x.store.Upsert(ctx, vectors)
}

// Query embeds text and returns up to k passages from the owner's vectors,
// ordered by descending similarity. documentID may be empty to search all
// of the owner's documents. An empty result is not an error.
func (x *VectorIndex) Query(ctx context.Context, text, ownerID string, k int, documentID string) ([]domain.Passage, error) {
	if x.store == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if x.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("owner is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return []domain.Passage{}, nil
	}
	if k <= 0 {
		k = DefaultQueryK
	}

	embedding, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	filter := domain.VectorFilter{OwnerID: ownerID, DocumentID: documentID}
	passages, err := x.store.Search(ctx, embedding, filter, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Query %q (owner=%s, doc=%s): %d passages", text, ownerID, documentID, len(passages))
	return passages, nil
}

// DeleteByDocument removes every vector belonging to the document. Safe
// for documents that were only partially indexed or never indexed at all.
func (x *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	if x.store == nil {
		return domain.ErrVectorIndexUnavailable
	}
	if strings.TrimSpace(documentID) == "" {
		return fmt.Errorf("document id is required: %w", domain.ErrInvalidInput)
	}
	return x.store.DeleteByDocument(ctx, documentID)
}
