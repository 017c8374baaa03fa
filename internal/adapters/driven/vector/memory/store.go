// Package memory provides an in-memory vector store with exact cosine
// similarity search. It backs tests and single-process deployments; the
// redis adapter is the production implementation.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	mu      sync.RWMutex
	vectors map[string]domain.IndexedVector
}

// NewStore creates an empty in-memory vector store.
func NewStore() *Store {
	return &Store{vectors: make(map[string]domain.IndexedVector)}
}

// Upsert adds vectors, replacing any existing entry with the same ID.
func (s *Store) Upsert(_ context.Context, vectors []domain.IndexedVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		s.vectors[v.ID] = v
	}
	return nil
}

// Search scans all vectors satisfying the filter and returns the k most
// similar by cosine similarity, highest first.
func (s *Store) Search(_ context.Context, embedding []float32, filter domain.VectorFilter, k int) ([]domain.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		text  string
		score float64
	}
	var hits []scored
	for _, v := range s.vectors {
		if !filter.Matches(v) {
			continue
		}
		hits = append(hits, scored{text: v.Text, score: cosine(embedding, v.Embedding)})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}

	passages := make([]domain.Passage, len(hits))
	for i, h := range hits {
		passages[i] = domain.Passage{Text: h.text, Score: h.score}
	}
	return passages, nil
}

// DeleteByDocument removes every vector tagged with the document ID.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.vectors {
		if v.DocumentID == documentID {
			delete(s.vectors, id)
		}
	}
	return nil
}

// Close is a no-op for memory storage.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of stored vectors. Useful in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-length vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
