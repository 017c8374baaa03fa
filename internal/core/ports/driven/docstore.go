package driven

import (
	"context"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

// DocumentStore persists documents and their vectorized status.
// The pipeline only reads and writes the fields it owns; the relational
// schema around documents (users, chats, exams) lives elsewhere.
type DocumentStore interface {
	// Save stores or updates a document.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// ListByOwner returns all documents belonging to an owner.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)

	// SetVectorized updates the vectorized flag for a document.
	SetVectorized(ctx context.Context, id string, vectorized bool) error

	// Delete removes a document record.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
