package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.ContextRetriever = (*Retriever)(nil)

// ContextSeparator joins retrieved passages into a context block.
const ContextSeparator = "\n\n"

// Retriever assembles grounding context for generation calls. It is a
// pure request/response operation: no persisted state, no generation.
type Retriever struct {
	index *VectorIndex
}

// NewRetriever creates a retriever over a tenant-scoped index.
func NewRetriever(index *VectorIndex) *Retriever {
	return &Retriever{index: index}
}

// RetrieveContext fetches the top-k passages for the query within the
// owner's document and joins them, highest score first, with a blank line
// between passages. An empty string means nothing relevant was indexed.
func (r *Retriever) RetrieveContext(ctx context.Context, query, ownerID, documentID string, k int) (string, error) {
	passages, err := r.index.Query(ctx, query, ownerID, k, documentID)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	if len(passages) == 0 {
		return "", nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	logger.Debug("Assembled context from %d passages", len(passages))
	return strings.Join(texts, ContextSeparator), nil
}
