// Papermind ingests documents into a vector index and answers
// questions or generates practice exams grounded in their content.
package main

import (
	"context"
	"fmt"
	"os"

	settingsfile "github.com/papermind-ai/papermind/internal/adapters/driven/config/file"
	embedollama "github.com/papermind-ai/papermind/internal/adapters/driven/embedding/ollama"
	embedopenai "github.com/papermind-ai/papermind/internal/adapters/driven/embedding/openai"
	llmollama "github.com/papermind-ai/papermind/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/papermind-ai/papermind/internal/adapters/driven/llm/openai"
	"github.com/papermind-ai/papermind/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/papermind-ai/papermind/internal/adapters/driven/vector/memory"
	vectorredis "github.com/papermind-ai/papermind/internal/adapters/driven/vector/redis"
	"github.com/papermind-ai/papermind/internal/adapters/driving/cli"
	"github.com/papermind-ai/papermind/internal/core/ports/driven"
	"github.com/papermind-ai/papermind/internal/core/services"
	"github.com/papermind-ai/papermind/internal/logger"
)

// Set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settingsStore, err := settingsfile.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	settings, err := settingsStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer store.Close()

	embedder, llm, err := buildProviders()
	if err != nil {
		return err
	}

	vectors, err := buildVectorStore(embedder.Dimensions())
	if err != nil {
		return err
	}

	index := services.NewVectorIndex(vectors, embedder)
	retriever := services.NewRetriever(index)

	ingestor, err := services.NewIngestService(store.DocumentStore(), index, embedder, settings)
	if err != nil {
		return fmt.Errorf("failed to build ingest pipeline: %w", err)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Ingestor:      ingestor,
		Chatter:       services.NewChatService(retriever, llm, settings.ChatTopK),
		ExamGenerator: services.NewExamService(retriever, llm, settings.ExamTopK),
		DocumentStore: store.DocumentStore(),
		SettingsStore: settingsStore,
	})

	return cli.Execute()
}

// buildProviders picks embedding and LLM backends from the environment.
// With OPENAI_API_KEY set the OpenAI API is used; otherwise a local
// Ollama instance at OLLAMA_HOST (or its default) serves both.
func buildProviders() (driven.EmbeddingService, driven.LLMService, error) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		embedder, err := embedopenai.NewEmbeddingService(embedopenai.Config{APIKey: apiKey})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure OpenAI embeddings: %w", err)
		}
		llm, err := llmopenai.NewLLMService(llmopenai.Config{APIKey: apiKey})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure OpenAI LLM: %w", err)
		}
		logger.Debug("using OpenAI providers (%s, %s)", embedder.ModelName(), llm.ModelName())
		return embedder, llm, nil
	}

	baseURL := os.Getenv("OLLAMA_HOST")
	embedder := embedollama.NewEmbeddingService(embedollama.Config{BaseURL: baseURL})
	llm := llmollama.NewLLMService(llmollama.Config{BaseURL: baseURL})
	logger.Debug("using Ollama providers (%s, %s)", embedder.ModelName(), llm.ModelName())
	return embedder, llm, nil
}

// buildVectorStore uses Redis when PAPERMIND_REDIS_ADDR is set and an
// in-memory index otherwise. The in-memory index does not survive
// restarts; document reprocess rebuilds it from stored content.
func buildVectorStore(dimensions int) (driven.VectorStore, error) {
	addr := os.Getenv("PAPERMIND_REDIS_ADDR")
	if addr == "" {
		return vectormem.NewStore(), nil
	}

	store, err := vectorredis.NewStore(context.Background(), vectorredis.Config{
		Addr:       addr,
		Password:   os.Getenv("PAPERMIND_REDIS_PASSWORD"),
		Dimensions: dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return store, nil
}
