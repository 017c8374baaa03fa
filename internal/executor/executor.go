// Package executor submits chunk batches to the embedding and indexing
// collaborator with retry on transient failure.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/logger"
)

// DefaultMaxRetries is the default number of attempts per batch.
const DefaultMaxRetries = 3

// DefaultInterBatchDelay is the default pause between independent batches.
const DefaultInterBatchDelay = 500 * time.Millisecond

// Committer embeds and indexes one batch. From the executor's point of
// view the commit is all-or-nothing: on error, none of the batch's chunks
// are considered visible.
type Committer interface {
	// Commit writes the batch to the index.
	Commit(ctx context.Context, batch domain.Batch) error
}

// CommitterFunc adapts a function to the Committer interface.
type CommitterFunc func(ctx context.Context, batch domain.Batch) error

// Commit calls f.
func (f CommitterFunc) Commit(ctx context.Context, batch domain.Batch) error {
	return f(ctx, batch)
}

// SleepFunc suspends the calling goroutine for d, or returns early with
// the context's error. Injectable so tests can observe delays without
// waiting them out.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepWith waits on a timer and the context.
func sleepWith(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Executor runs batches strictly sequentially against a committer,
// retrying transient failures with exponential backoff. Sequential
// submission bounds load on the provider; concurrency lives across
// documents, not within one document's batch stream.
type Executor struct {
	maxRetries      int
	interBatchDelay time.Duration
	sleep           SleepFunc
}

// Option configures the executor.
type Option func(*Executor)

// WithMaxRetries sets the number of attempts per batch.
func WithMaxRetries(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxRetries = n
		}
	}
}

// WithInterBatchDelay sets the pause between independent batches.
func WithInterBatchDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d >= 0 {
			e.interBatchDelay = d
		}
	}
}

// WithSleep substitutes the sleep function.
func WithSleep(sleep SleepFunc) Option {
	return func(e *Executor) {
		if sleep != nil {
			e.sleep = sleep
		}
	}
}

// New creates an executor with the given options.
func New(opts ...Option) *Executor {
	e := &Executor{
		maxRetries:      DefaultMaxRetries,
		interBatchDelay: DefaultInterBatchDelay,
		sleep:           sleepWith,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute submits one batch, retrying transient failures up to the
// configured number of attempts with a 2^attempt second backoff between
// them. Exhausted retries return a *domain.BatchError; non-transient
// errors propagate immediately without retry.
func (e *Executor) Execute(ctx context.Context, committer Committer, batch domain.Batch) error {
	var lastErr error

	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = committer.Commit(ctx, batch)
		if lastErr == nil {
			return nil
		}

		if !domain.IsTransient(lastErr) {
			return lastErr
		}

		if attempt == e.maxRetries {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		logger.Warn("Batch attempt %d/%d failed, retrying in %s: %v", attempt, e.maxRetries, backoff, lastErr)
		if err := e.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	return &domain.BatchError{Attempts: e.maxRetries, Err: lastErr}
}

// ExecuteAll submits batches strictly sequentially, pausing for the
// inter-batch delay between independently submitted batches (not between
// retries of the same batch). The first failure aborts the remainder:
// batches that already committed stay visible until the caller cleans up.
func (e *Executor) ExecuteAll(ctx context.Context, committer Committer, batches []domain.Batch) error {
	for i, batch := range batches {
		if i > 0 && e.interBatchDelay > 0 {
			if err := e.sleep(ctx, e.interBatchDelay); err != nil {
				return err
			}
		}

		logger.Debug("Submitting batch %d/%d (%d chunks, ~%d tokens)", i+1, len(batches), batch.Len(), batch.Tokens)
		if err := e.Execute(ctx, committer, batch); err != nil {
			return fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}
	}
	return nil
}
