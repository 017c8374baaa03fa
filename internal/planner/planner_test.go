package planner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

func makeChunks(n, size int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Text:         strings.Repeat("x", size),
			SourceOffset: i * size,
		}
	}
	return chunks
}

func TestCharEstimator(t *testing.T) {
	e := CharEstimator{}

	assert.Equal(t, 0, e.EstimateTokens(""))
	assert.Equal(t, 1, e.EstimateTokens("ab"))
	assert.Equal(t, 1, e.EstimateTokens("abcd"))
	assert.Equal(t, 2, e.EstimateTokens("abcde"))
	assert.Equal(t, 250, e.EstimateTokens(strings.Repeat("x", 1000)))

	custom := CharEstimator{CharsPerToken: 2}
	assert.Equal(t, 3, custom.EstimateTokens("abcde"))
}

func TestPlanEmpty(t *testing.T) {
	assert.Nil(t, New().Plan(nil))
	assert.Nil(t, New().Plan([]domain.Chunk{}))
}

func TestPlanRespectsBatchSize(t *testing.T) {
	p := New(WithMaxBatchSize(10))

	batches := p.Plan(makeChunks(25, 100))

	require.Len(t, batches, 3)
	assert.Equal(t, 10, batches[0].Len())
	assert.Equal(t, 10, batches[1].Len())
	assert.Equal(t, 5, batches[2].Len())
}

func TestPlanRespectsTokenBudget(t *testing.T) {
	// 100-char chunks estimate to 25 tokens; a 60-token budget fits two.
	p := New(WithMaxBatchSize(100), WithMaxBatchTokens(60))

	batches := p.Plan(makeChunks(5, 100))

	require.Len(t, batches, 3)
	assert.Equal(t, 2, batches[0].Len())
	assert.Equal(t, 50, batches[0].Tokens)
	assert.Equal(t, 2, batches[1].Len())
	assert.Equal(t, 1, batches[2].Len())
}

func TestPlanConservesChunks(t *testing.T) {
	chunks := make([]domain.Chunk, 37)
	for i := range chunks {
		chunks[i] = domain.Chunk{Text: fmt.Sprintf("chunk-%d %s", i, strings.Repeat("y", i*13%400))}
	}

	batches := New(WithMaxBatchSize(4), WithMaxBatchTokens(120)).Plan(chunks)

	var flattened []domain.Chunk
	for _, b := range batches {
		require.NotZero(t, b.Len(), "no batch may be empty")
		assert.LessOrEqual(t, b.Len(), 4)
		flattened = append(flattened, b.Chunks...)
	}

	// Every chunk appears exactly once, in the original order.
	require.Len(t, flattened, len(chunks))
	for i := range chunks {
		assert.Equal(t, chunks[i].Text, flattened[i].Text)
	}
}

func TestPlanOversizedChunkBecomesSingleton(t *testing.T) {
	p := New(WithMaxBatchSize(10), WithMaxBatchTokens(50))

	chunks := []domain.Chunk{
		{Text: strings.Repeat("a", 100)},  // 25 tokens
		{Text: strings.Repeat("b", 1000)}, // 250 tokens, over budget alone
		{Text: strings.Repeat("c", 100)},  // 25 tokens
	}

	batches := p.Plan(chunks)

	require.Len(t, batches, 3)
	assert.Equal(t, 1, batches[0].Len())
	assert.Equal(t, 1, batches[1].Len())
	assert.Equal(t, 250, batches[1].Tokens)
	assert.Equal(t, 1, batches[2].Len())
}

type fixedEstimator struct{ tokens int }

func (f fixedEstimator) EstimateTokens(string) int { return f.tokens }

func TestPlanWithCustomEstimator(t *testing.T) {
	p := New(WithMaxBatchSize(100), WithMaxBatchTokens(10), WithEstimator(fixedEstimator{tokens: 5}))

	batches := p.Plan(makeChunks(4, 1))

	require.Len(t, batches, 2)
	assert.Equal(t, 2, batches[0].Len())
	assert.Equal(t, 10, batches[0].Tokens)
}
