package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/logger"
)

// Ensure ExamService implements the interface.
var _ driving.ExamGenerator = (*ExamService)(nil)

// examQuery seeds retrieval when generating an exam: we want the
// document's most representative passages, not an answer to a question.
const examQuery = "key concepts, definitions and important facts"

const examPrompt = `Write %d multiple-choice exam questions based only on the material below. Each question must have exactly 4 options and one correct answer taken verbatim from the options.

Respond with a JSON array and nothing else, in this shape:
[{"question": "...", "options": ["...", "...", "...", "..."], "answer": "..."}]

Material:
%s`

// ExamService generates exam questions grounded in a document.
type ExamService struct {
	retriever driving.ContextRetriever
	llm       driven.LLMService
	topK      int
}

// NewExamService creates an exam service. topK is wider than chat's so
// the questions cover more of the document.
func NewExamService(retriever driving.ContextRetriever, llm driven.LLMService, topK int) *ExamService {
	if topK <= 0 {
		topK = domain.DefaultSettings().ExamTopK
	}
	return &ExamService{retriever: retriever, llm: llm, topK: topK}
}

// Generate produces count questions from the document's most
// representative passages.
func (s *ExamService) Generate(ctx context.Context, ownerID, documentID string, count int) ([]domain.ExamQuestion, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if count <= 0 {
		return nil, fmt.Errorf("question count must be positive: %w", domain.ErrInvalidInput)
	}

	contextBlock, err := s.retriever.RetrieveContext(ctx, examQuery, ownerID, documentID, s.topK)
	if err != nil {
		return nil, err
	}
	if contextBlock == "" {
		return nil, fmt.Errorf("document %s has no indexed content: %w", documentID, domain.ErrNotFound)
	}

	raw, err := s.llm.Generate(ctx, fmt.Sprintf(examPrompt, count, contextBlock), driven.GenerateOptions{
		MaxTokens:   2048,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("generate exam: %w", err)
	}

	questions, err := parseExamQuestions(raw)
	if err != nil {
		return nil, err
	}

	logger.Info("Generated %d exam questions for document %s", len(questions), documentID)
	return questions, nil
}

// parseExamQuestions decodes the model's JSON reply, tolerating markdown
// code fences around the array.
func parseExamQuestions(raw string) ([]domain.ExamQuestion, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var questions []domain.ExamQuestion
	if err := json.Unmarshal([]byte(trimmed), &questions); err != nil {
		return nil, fmt.Errorf("parse exam questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions: %w", domain.ErrInvalidInput)
	}
	return questions, nil
}
