package cli

import (
	"bytes"
	"context"

	storagemem "github.com/papermind-ai/papermind/internal/adapters/driven/storage/memory"
	"github.com/papermind-ai/papermind/internal/core/domain"
)

// stubIngestor records pipeline calls.
type stubIngestor struct {
	processed   []string
	reprocessed []string
	deleted     []string
	err         error
}

func (s *stubIngestor) Process(_ context.Context, doc *domain.Document) error {
	s.processed = append(s.processed, doc.ID)
	return s.err
}

func (s *stubIngestor) Reprocess(_ context.Context, doc *domain.Document) error {
	s.reprocessed = append(s.reprocessed, doc.ID)
	return s.err
}

func (s *stubIngestor) Delete(_ context.Context, documentID string) error {
	s.deleted = append(s.deleted, documentID)
	return s.err
}

// stubChatter returns a canned answer and records the last question.
type stubChatter struct {
	answer       string
	err          error
	lastQuestion string
	lastOwner    string
	lastDoc      string
}

func (s *stubChatter) Ask(_ context.Context, question, ownerID, documentID string) (string, error) {
	s.lastQuestion = question
	s.lastOwner = ownerID
	s.lastDoc = documentID
	return s.answer, s.err
}

// stubExamGenerator returns canned questions and records the last request.
type stubExamGenerator struct {
	questions []domain.ExamQuestion
	err       error
	lastOwner string
	lastDoc   string
	lastCount int
}

func (s *stubExamGenerator) Generate(_ context.Context, ownerID, documentID string, count int) ([]domain.ExamQuestion, error) {
	s.lastOwner = ownerID
	s.lastDoc = documentID
	s.lastCount = count
	return s.questions, s.err
}

// stubSettingsStore keeps settings in memory.
type stubSettingsStore struct {
	settings domain.Settings
	saved    bool
}

func (s *stubSettingsStore) Load() (domain.Settings, error) {
	return s.settings, nil
}

func (s *stubSettingsStore) Save(settings domain.Settings) error {
	s.settings = settings
	s.saved = true
	return nil
}

// testStubs holds the wired stubs so tests can inspect recorded calls.
type testStubs struct {
	ingestor *stubIngestor
	chatter  *stubChatter
	exams    *stubExamGenerator
	settings *stubSettingsStore
}

// setupTestServices wires stub services and seeds one indexed document.
// The returned cleanup restores the previous wiring.
func setupTestServices() (*testStubs, func()) {
	prev := Services{
		Ingestor:      ingestService,
		Chatter:       chatService,
		ExamGenerator: examService,
		DocumentStore: documentStore,
		SettingsStore: settingsStore,
	}

	docs := storagemem.NewDocumentStore()
	_ = docs.Save(context.Background(), &domain.Document{
		ID:         "doc-1",
		OwnerID:    "local",
		Title:      "Test Document 1",
		Content:    "some content",
		Vectorized: true,
	})

	stubs := &testStubs{
		ingestor: &stubIngestor{},
		chatter:  &stubChatter{answer: "a grounded answer"},
		exams: &stubExamGenerator{questions: []domain.ExamQuestion{
			{Question: "What is tested?", Options: []string{"first", "second", "third", "fourth"}, Answer: "second"},
			{Question: "What comes next?", Options: []string{"one", "two", "three", "four"}, Answer: "three"},
		}},
		settings: &stubSettingsStore{settings: domain.DefaultSettings()},
	}

	SetServices(Services{
		Ingestor:      stubs.ingestor,
		Chatter:       stubs.chatter,
		ExamGenerator: stubs.exams,
		DocumentStore: docs,
		SettingsStore: stubs.settings,
	})

	return stubs, func() {
		SetServices(prev)
	}
}

// executeCommand runs the root command with the given args and captures
// its combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
