// Package memory provides in-memory store implementations for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{documents: make(map[string]domain.Document)}
}

// Save stores or updates a document.
func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = *doc
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListByOwner returns the owner's documents ordered by ID.
func (s *DocumentStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []domain.Document
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// SetVectorized updates the vectorized flag.
func (s *DocumentStore) SetVectorized(_ context.Context, id string, vectorized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Vectorized = vectorized
	s.documents[id] = doc
	return nil
}

// Delete removes a document record. Removing an absent record is not an
// error, so cleanup stays safe after partial ingestion.
func (s *DocumentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// Close is a no-op for memory storage.
func (s *DocumentStore) Close() error {
	return nil
}
