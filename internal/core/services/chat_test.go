package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

func TestChatAskGroundsAnswerInContext(t *testing.T) {
	retriever := &stubRetriever{contextBlock: "Photosynthesis converts light into chemical energy."}
	llm := &mockLLM{reply: "  It converts light into chemical energy.  "}
	svc := NewChatService(retriever, llm, 4)

	answer, err := svc.Ask(context.Background(), "What does photosynthesis do?", "alice", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "It converts light into chemical energy.", answer)

	assert.Equal(t, "What does photosynthesis do?", retriever.lastQuery)
	assert.Equal(t, "alice", retriever.lastOwner)
	assert.Equal(t, "doc-1", retriever.lastDoc)
	assert.Equal(t, 4, retriever.lastK)

	assert.Contains(t, llm.lastPrompt, retriever.contextBlock)
	assert.Contains(t, llm.lastPrompt, "What does photosynthesis do?")
}

func TestChatAskDefaultsTopK(t *testing.T) {
	retriever := &stubRetriever{contextBlock: "some context"}
	svc := NewChatService(retriever, &mockLLM{reply: "ok"}, 0)

	_, err := svc.Ask(context.Background(), "question?", "alice", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().ChatTopK, retriever.lastK)
}

func TestChatAskWithoutRelevantContext(t *testing.T) {
	llm := &mockLLM{reply: "should never be used"}
	svc := NewChatService(&stubRetriever{contextBlock: ""}, llm, 4)

	answer, err := svc.Ask(context.Background(), "Is this covered?", "alice", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, NoAnswerReply, answer)
	assert.Zero(t, llm.calls)
}

func TestChatAskValidation(t *testing.T) {
	svc := NewChatService(&stubRetriever{}, &mockLLM{}, 4)

	_, err := svc.Ask(context.Background(), "   ", "alice", "doc-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc = NewChatService(&stubRetriever{}, nil, 4)
	_, err = svc.Ask(context.Background(), "question?", "alice", "doc-1")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestChatAskPropagatesErrors(t *testing.T) {
	retrieveErr := errors.New("index offline")
	svc := NewChatService(&stubRetriever{err: retrieveErr}, &mockLLM{}, 4)
	_, err := svc.Ask(context.Background(), "question?", "alice", "doc-1")
	assert.ErrorIs(t, err, retrieveErr)

	generateErr := errors.New("model offline")
	svc = NewChatService(&stubRetriever{contextBlock: "context"}, &mockLLM{err: generateErr}, 4)
	_, err = svc.Ask(context.Background(), "question?", "alice", "doc-1")
	assert.ErrorIs(t, err, generateErr)
}
