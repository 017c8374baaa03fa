package driving

import (
	"context"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

// ContextRetriever assembles grounding context for a generation call.
type ContextRetriever interface {
	// RetrieveContext fetches the top-k passages most relevant to the
	// query within the owner's document and joins them, highest score
	// first, with a blank-line separator. The caller is responsible for
	// prompting; no generation happens here.
	RetrieveContext(ctx context.Context, query, ownerID, documentID string, k int) (string, error)
}

// Chatter answers natural-language questions grounded in a document.
type Chatter interface {
	// Ask retrieves context for the question and generates an answer
	// constrained to that context.
	Ask(ctx context.Context, question, ownerID, documentID string) (string, error)
}

// ExamGenerator produces exam questions grounded in a document.
type ExamGenerator interface {
	// Generate produces count multiple-choice questions from the
	// document's most representative passages.
	Generate(ctx context.Context, ownerID, documentID string, count int) ([]domain.ExamQuestion, error)
}
