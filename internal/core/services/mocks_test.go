package services

import (
	"context"
	"strings"

	"github.com/papermind-ai/papermind/internal/core/ports/driven"
)

// keywordEmbedder is a deterministic fake embedding service: texts that
// contain the marker embed onto one axis, everything else onto another.
// Similarity search then ranks marker-bearing chunks first, which lets
// tests assert retrieval behaviour without a real model.
type keywordEmbedder struct {
	marker     string
	batchSizes []int
	batchErr   func(call int) error
	calls      int
}

var _ driven.EmbeddingService = (*keywordEmbedder)(nil)

func (e *keywordEmbedder) vector(text string) []float32 {
	if e.marker != "" && strings.Contains(text, e.marker) {
		return []float32{1, 0, 0, 0}
	}
	return []float32{0, 1, 0, 0}
}

func (e *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	return e.vector(text), nil
}

func (e *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.batchErr != nil {
		if err := e.batchErr(e.calls); err != nil {
			return nil, err
		}
	}
	e.batchSizes = append(e.batchSizes, len(texts))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int            { return 4 }
func (e *keywordEmbedder) ModelName() string          { return "keyword-test" }
func (e *keywordEmbedder) Ping(context.Context) error { return nil }
func (e *keywordEmbedder) Close() error               { return nil }

// mockLLM records the last prompt and returns a canned reply.
type mockLLM struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

// stubRetriever returns a fixed context block.
type stubRetriever struct {
	contextBlock string
	err          error
	lastQuery    string
	lastOwner    string
	lastDoc      string
	lastK        int
}

func (r *stubRetriever) RetrieveContext(_ context.Context, query, ownerID, documentID string, k int) (string, error) {
	r.lastQuery = query
	r.lastOwner = ownerID
	r.lastDoc = documentID
	r.lastK = k
	if r.err != nil {
		return "", r.err
	}
	return r.contextBlock, nil
}
