package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/papermind-ai/papermind/internal/core/domain"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/core/ports/driving"
	"github.com/papermind-ai/papermind/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.Chatter = (*ChatService)(nil)

// NoAnswerReply is returned when retrieval finds nothing relevant.
const NoAnswerReply = "I could not find anything in this document relevant to that question."

const answerPrompt = `Answer the question using only the context below. If the context does not contain the answer, say so plainly instead of guessing.

Context:
%s

Question: %s

Answer:`

// ChatService answers questions grounded in a single document's content.
type ChatService struct {
	retriever driving.ContextRetriever
	llm       driven.LLMService
	topK      int
}

// NewChatService creates a chat service. topK controls how many passages
// ground each answer.
func NewChatService(retriever driving.ContextRetriever, llm driven.LLMService, topK int) *ChatService {
	if topK <= 0 {
		topK = domain.DefaultSettings().ChatTopK
	}
	return &ChatService{retriever: retriever, llm: llm, topK: topK}
}

// Ask retrieves the passages most relevant to the question and generates
// an answer constrained to them.
func (s *ChatService) Ask(ctx context.Context, question, ownerID, documentID string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question is required: %w", domain.ErrInvalidInput)
	}

	contextBlock, err := s.retriever.RetrieveContext(ctx, question, ownerID, documentID, s.topK)
	if err != nil {
		return "", err
	}
	if contextBlock == "" {
		return NoAnswerReply, nil
	}

	logger.Debug("Answering with %d bytes of context", len(contextBlock))
	answer, err := s.llm.Generate(ctx, fmt.Sprintf(answerPrompt, contextBlock, question), driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(answer), nil
}
