package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAskFlags() {
	askDocumentID = ""
	askCmd.Flags().Lookup("document").Changed = false
}

func TestAskCommand(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
	assert.NotEmpty(t, askCmd.Short)
}

func TestAsk(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	defer resetAskFlags()

	out, err := executeCommand("ask", "what is entropy?", "--document", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "a grounded answer")
	assert.Equal(t, "what is entropy?", stubs.chatter.lastQuestion)
	assert.Equal(t, "local", stubs.chatter.lastOwner)
	assert.Equal(t, "doc-1", stubs.chatter.lastDoc)
}

func TestAskRequiresDocumentFlag(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetAskFlags()

	_, err := executeCommand("ask", "what is entropy?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document")
}

func TestAskRequiresQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetAskFlags()

	_, err := executeCommand("ask", "--document", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetAskFlags()
	chatService = nil

	_, err := executeCommand("ask", "anything", "--document", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestAskServiceError(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	defer resetAskFlags()
	stubs.chatter.err = errors.New("model unavailable")

	_, err := executeCommand("ask", "anything", "--document", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to answer")
}
