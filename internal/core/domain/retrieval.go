package domain

// Passage is a single similarity-search hit: a chunk text with its score.
// Passages are consumed transiently by generation callers, never persisted.
type Passage struct {
	// Text is the matched chunk text.
	Text string

	// Score is the similarity score, higher is more relevant.
	Score float64
}

// VectorFilter restricts a similarity search to a tenant and, optionally,
// to a single document. OwnerID is always required: a query must never
// return vectors belonging to a different owner.
type VectorFilter struct {
	// OwnerID is the mandatory tenancy boundary.
	OwnerID string

	// DocumentID optionally narrows the search to one document.
	// Empty means all of the owner's documents.
	DocumentID string
}

// Matches reports whether a vector satisfies the filter.
func (f VectorFilter) Matches(v IndexedVector) bool {
	if v.OwnerID != f.OwnerID {
		return false
	}
	if f.DocumentID != "" && v.DocumentID != f.DocumentID {
		return false
	}
	return true
}

// ExamQuestion is a generated multiple-choice question grounded in
// retrieved document passages.
type ExamQuestion struct {
	// Question is the question text.
	Question string `json:"question"`

	// Options are the candidate answers.
	Options []string `json:"options"`

	// Answer is the correct option text.
	Answer string `json:"answer"`
}
