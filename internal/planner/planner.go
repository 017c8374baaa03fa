// Package planner groups chunks into embedding batches under size and
// token budgets.
package planner

import (
	"github.com/papermind-ai/papermind/internal/core/domain"
)

// DefaultMaxBatchSize is the default maximum number of chunks per batch.
const DefaultMaxBatchSize = 10

// DefaultMaxBatchTokens is the default estimated token budget per batch.
const DefaultMaxBatchTokens = 8000

// Planner packs chunks into batches greedily: chunks accumulate in input
// order until adding the next one would exceed the item count or the token
// budget, at which point the batch closes and the chunk that did not fit
// opens the next one. No chunk is lost, duplicated or reordered.
type Planner struct {
	maxBatchSize   int
	maxBatchTokens int
	estimator      TokenEstimator
}

// Option configures the planner.
type Option func(*Planner)

// WithMaxBatchSize sets the maximum number of chunks per batch.
func WithMaxBatchSize(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxBatchSize = n
		}
	}
}

// WithMaxBatchTokens sets the estimated token budget per batch.
func WithMaxBatchTokens(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxBatchTokens = n
		}
	}
}

// WithEstimator substitutes the token estimator.
func WithEstimator(e TokenEstimator) Option {
	return func(p *Planner) {
		if e != nil {
			p.estimator = e
		}
	}
}

// New creates a planner with the given options.
func New(opts ...Option) *Planner {
	p := &Planner{
		maxBatchSize:   DefaultMaxBatchSize,
		maxBatchTokens: DefaultMaxBatchTokens,
		estimator:      CharEstimator{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan groups chunks into batches respecting both budgets. A single chunk
// whose own estimate exceeds the token budget still becomes its own
// one-item batch rather than being dropped; the provider's rejection, if
// any, surfaces at execution time.
func (p *Planner) Plan(chunks []domain.Chunk) []domain.Batch {
	if len(chunks) == 0 {
		return nil
	}

	var batches []domain.Batch
	current := domain.Batch{}

	for _, chunk := range chunks {
		estimate := p.estimator.EstimateTokens(chunk.Text)

		if current.Len() > 0 &&
			(current.Len() >= p.maxBatchSize || current.Tokens+estimate > p.maxBatchTokens) {
			batches = append(batches, current)
			current = domain.Batch{}
		}

		current.Chunks = append(current.Chunks, chunk)
		current.Tokens += estimate
	}

	if current.Len() > 0 {
		batches = append(batches, current)
	}

	return batches
}
