package driven

import (
	"context"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

// VectorStore persists embedded chunks and performs filtered approximate
// nearest-neighbour search. The store is a shared multi-tenant resource;
// tenant isolation is enforced purely by the metadata filter, so every
// search carries a domain.VectorFilter with a mandatory owner.
type VectorStore interface {
	// Upsert adds vectors to the store. Idempotent on vector ID: writing
	// the same ID twice replaces the previous entry.
	Upsert(ctx context.Context, vectors []domain.IndexedVector) error

	// Search returns up to k matches for the query embedding, restricted
	// to vectors satisfying the filter, ordered by descending similarity.
	// No matching vectors yields an empty result, not an error.
	Search(ctx context.Context, embedding []float32, filter domain.VectorFilter, k int) ([]domain.Passage, error)

	// DeleteByDocument removes every vector tagged with the document ID.
	// Document IDs are globally unique, so no owner filter is needed.
	// Deleting a partially indexed or unknown document is not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
