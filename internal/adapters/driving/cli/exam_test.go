package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papermind-ai/papermind/internal/core/domain"
)

func resetExamFlags() {
	examCount = 5
	examJSON = false
	examCmd.Flags().Lookup("count").Changed = false
	examCmd.Flags().Lookup("json").Changed = false
}

func TestExamCommand(t *testing.T) {
	assert.Equal(t, "exam [doc-id]", examCmd.Use)
	assert.NotEmpty(t, examCmd.Short)
}

func TestExam(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	defer resetExamFlags()

	out, err := executeCommand("exam", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "1. What is tested?")
	assert.Contains(t, out, "a) first")
	assert.Contains(t, out, "b) second")
	assert.Contains(t, out, "2. What comes next?")
	assert.Contains(t, out, "Answers:")
	assert.Contains(t, out, "1. second")
	assert.Contains(t, out, "2. three")

	assert.Equal(t, "local", stubs.exams.lastOwner)
	assert.Equal(t, "doc-1", stubs.exams.lastDoc)
	assert.Equal(t, 5, stubs.exams.lastCount)
}

func TestExamCountFlag(t *testing.T) {
	stubs, cleanup := setupTestServices()
	defer cleanup()
	defer resetExamFlags()

	_, err := executeCommand("exam", "doc-1", "--count", "3")
	require.NoError(t, err)
	assert.Equal(t, 3, stubs.exams.lastCount)
}

func TestExamJSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetExamFlags()

	out, err := executeCommand("exam", "doc-1", "--json")
	require.NoError(t, err)

	var questions []domain.ExamQuestion
	require.NoError(t, json.Unmarshal([]byte(out), &questions))
	require.Len(t, questions, 2)
	assert.Equal(t, "What is tested?", questions[0].Question)
	assert.Equal(t, "second", questions[0].Answer)
}

func TestExamRequiresArg(t *testing.T) {
	_, err := executeCommand("exam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestExamNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetExamFlags()
	examService = nil

	_, err := executeCommand("exam", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
