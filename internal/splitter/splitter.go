// Package splitter provides boundary-aware text chunking for embedding.
package splitter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

// DefaultChunkSize is the default window size in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default overlap between consecutive chunks.
const DefaultOverlap = 200

// minBoundaryFraction is how far into the window a natural boundary must
// sit to be used. Earlier boundaries would produce degenerate chunks.
const minBoundaryFraction = 2

// Splitter produces overlapping chunks over document text. Window ends
// prefer paragraph breaks, then line breaks, then word boundaries, and
// fall back to a hard character cut when no natural boundary exists.
//
// Splitting is deterministic: the same text and configuration always
// yield the same chunk sequence, which is what makes reprocessing
// idempotent.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a splitter. The overlap must be smaller than the chunk size;
// violating that precondition returns domain.ErrInvalidConfiguration.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size %d: %w", chunkSize, domain.ErrInvalidConfiguration)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d for chunk size %d: %w", overlap, chunkSize, domain.ErrInvalidConfiguration)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split chunks text into overlapping windows. Empty or whitespace-only
// text produces no chunks.
func (s *Splitter) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	contentLen := len(text)
	estimated := contentLen/(s.chunkSize-s.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < contentLen {
		end := start + s.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = s.cutPoint(text, start, end)
		}

		chunks = append(chunks, domain.Chunk{
			Text:         text[start:end],
			SourceOffset: start,
		})

		if end == contentLen {
			break
		}

		next := end - s.overlap
		if next <= start {
			// Overlap larger than the window we just emitted; forced
			// forward progress keeps the sequence finite.
			next = start + 1
		}
		for next < contentLen && !utf8.RuneStart(text[next]) {
			next++
		}
		start = next
	}

	return chunks
}

// cutPoint finds the best window end in text[start:hardEnd], preferring
// paragraph, then line, then word boundaries. The boundary must lie in
// the later part of the window; otherwise the hard cut wins.
func (s *Splitter) cutPoint(text string, start, hardEnd int) int {
	window := text[start:hardEnd]
	earliest := len(window) / minBoundaryFraction

	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > earliest {
			// Cut after the separator so the break itself is not carried
			// into the next chunk's overlap region twice.
			return start + idx + len(sep)
		}
	}

	// A hard cut lands at a byte offset and can bisect a multibyte
	// rune; back up to the rune start so chunk edges stay valid UTF-8.
	cut := hardEnd
	for cut > start && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == start {
		return hardEnd
	}
	return cut
}
