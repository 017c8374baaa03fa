package domain

import "time"

// Document represents an uploaded document owned by a single tenant.
// Content is the extracted plain text; extraction itself happens upstream.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// OwnerID identifies the tenant that owns this document.
	OwnerID string

	// Title is the human-readable title (usually the file name).
	Title string

	// Content is the full extracted text, before chunking.
	Content string

	// Vectorized is true only after every chunk batch of this document
	// has been committed to the vector index.
	Vectorized bool

	// CreatedAt is when the document was first stored.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk is a bounded slice of document text prepared for embedding.
// Chunks are immutable once created.
type Chunk struct {
	// Text is the chunk content.
	Text string

	// SourceOffset is the byte offset of the chunk within the original
	// document text. Used for traceability, not for retrieval ordering.
	SourceOffset int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]string
}

// Batch is an ordered, non-empty group of chunks submitted together to the
// embedding provider. A batch is the unit of failure and retry: either all
// of its chunks become visible in the index, or none do.
type Batch struct {
	// Chunks are the member chunks in document order.
	Chunks []Chunk

	// Tokens is the estimated token sum at planning time.
	Tokens int
}

// Len returns the number of chunks in the batch.
func (b Batch) Len() int {
	return len(b.Chunks)
}

// Texts returns the chunk texts in order, ready for an embedding call.
func (b Batch) Texts() []string {
	texts := make([]string, len(b.Chunks))
	for i, c := range b.Chunks {
		texts[i] = c.Text
	}
	return texts
}

// IndexedVector is an embedded chunk as stored in the vector index.
// Its lifetime is tied to the owning document.
type IndexedVector struct {
	// ID is the stable vector identifier. Upserts are idempotent on ID.
	ID string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Text is the original chunk text.
	Text string

	// OwnerID is the owning tenant. Mandatory filter term at query time.
	OwnerID string

	// DocumentID is the owning document. Globally unique across tenants.
	DocumentID string

	// Metadata contains additional key-value pairs.
	Metadata map[string]string
}
