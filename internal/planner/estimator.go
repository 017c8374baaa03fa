package planner

import "unicode/utf8"

// TokenEstimator approximates the token count of a text. The estimate only
// exists to keep batches within the embedding provider's request limits:
// overestimating is safe, underestimating is a latent failure mode that
// surfaces as a provider rejection. A real tokenizer can be substituted
// without changing the planner's algorithm.
type TokenEstimator interface {
	// EstimateTokens returns the approximate token count for text.
	EstimateTokens(text string) int
}

// DefaultCharsPerToken is the character-to-token ratio used by the default
// estimator. Four characters per token is the usual rule of thumb for
// English text with the common embedding tokenizers.
const DefaultCharsPerToken = 4

// CharEstimator estimates tokens from character counts.
type CharEstimator struct {
	// CharsPerToken is the assumed ratio; zero means DefaultCharsPerToken.
	CharsPerToken int
}

// EstimateTokens returns a ceiling estimate so short texts never round
// down to zero tokens.
func (e CharEstimator) EstimateTokens(text string) int {
	ratio := e.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + ratio - 1) / ratio
}
