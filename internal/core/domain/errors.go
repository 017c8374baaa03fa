package domain

import (
	"context"
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration indicates bad pipeline parameters, such as a
	// chunk overlap that is not smaller than the chunk size.
	// Fatal: never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrTransientProvider indicates an embedding or index call failed for
	// a retryable reason (timeout, rate limit, server error).
	ErrTransientProvider = errors.New("transient provider error")

	// ErrBatchFailed indicates a batch could not be committed after all
	// retries were exhausted. The owning document must not be marked
	// vectorized.
	ErrBatchFailed = errors.New("batch failed")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and semantic retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrLLMUnavailable indicates the generation service is not configured.
	// Chat answering and exam generation are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// BatchError reports permanent failure of a single batch after retries.
// It matches ErrBatchFailed via errors.Is.
type BatchError struct {
	// Attempts is how many times the batch was submitted.
	Attempts int

	// Err is the error from the final attempt.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrBatchFailed) match a *BatchError.
func (e *BatchError) Is(target error) bool {
	return target == ErrBatchFailed
}

// ProviderError is an error response from an embedding or generation
// provider. Status codes 408, 429 and 5xx are transient.
type ProviderError struct {
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int

	// Message is the provider's error message, if any.
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the transient sentinel for retryable statuses
// and ErrRateLimited for 429 responses.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == 429
	case ErrTransientProvider:
		return e.Transient()
	}
	return false
}

// Transient reports whether the error is worth retrying.
func (e *ProviderError) Transient() bool {
	return e.StatusCode == 408 || e.StatusCode == 429 || e.StatusCode >= 500
}

// IsTransient reports whether an error should be retried by the batch
// executor. Configuration errors, invalid input and context cancellation
// are permanent; everything else is assumed transient, because the
// collaborators behind the pipeline are remote services.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidConfiguration) || errors.Is(err, ErrInvalidInput) {
		return false
	}
	// Cancellation of the enclosing operation is not retryable. A per-call
	// timeout is: those surface as ProviderError or transport errors, and
	// the executor checks the caller's context separately.
	if errors.Is(err, context.Canceled) {
		return false
	}
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return provErr.Transient()
	}
	return true
}
