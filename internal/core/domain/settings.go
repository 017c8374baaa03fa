package domain

import "time"

// Settings holds the caller-supplied pipeline configuration.
// Defaults match the reference deployment; all values can be overridden
// from the settings file.
type Settings struct {
	// ChunkSize is the chunk window size in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks in characters.
	// Must be smaller than ChunkSize.
	ChunkOverlap int `toml:"chunk_overlap"`

	// MaxBatchSize is the maximum number of chunks per embedding batch.
	MaxBatchSize int `toml:"max_batch_size"`

	// MaxBatchTokens is the estimated token budget per embedding batch.
	MaxBatchTokens int `toml:"max_batch_tokens"`

	// MaxRetries is how many times a failed batch is retried before the
	// batch fails permanently.
	MaxRetries int `toml:"max_retries"`

	// InterBatchDelay is the pause between independently submitted batches,
	// smoothing load on the embedding provider.
	InterBatchDelay time.Duration `toml:"inter_batch_delay"`

	// ChatTopK is the number of passages retrieved to ground a chat answer.
	ChatTopK int `toml:"chat_top_k"`

	// ExamTopK is the number of passages retrieved to ground exam
	// generation. Wider than chat to cover more of the document.
	ExamTopK int `toml:"exam_top_k"`
}

// DefaultSettings returns the reference configuration.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:       1000,
		ChunkOverlap:    200,
		MaxBatchSize:    10,
		MaxBatchTokens:  8000,
		MaxRetries:      3,
		InterBatchDelay: 500 * time.Millisecond,
		ChatTopK:        6,
		ExamTopK:        30,
	}
}

// Validate checks the settings for configuration errors.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return ErrInvalidConfiguration
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return ErrInvalidConfiguration
	}
	if s.MaxBatchSize <= 0 || s.MaxBatchTokens <= 0 {
		return ErrInvalidConfiguration
	}
	if s.MaxRetries < 0 {
		return ErrInvalidConfiguration
	}
	if s.InterBatchDelay < 0 {
		return ErrInvalidConfiguration
	}
	if s.ChatTopK <= 0 || s.ExamTopK <= 0 {
		return ErrInvalidConfiguration
	}
	return nil
}
