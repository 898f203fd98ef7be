// Command qastore is a question-answer knowledge base with semantic retrieval.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/qastore-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/qastore-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/qastore-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/qastore-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/qastore-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qastore-cli/internal/core/services"
	"github.com/custodia-labs/qastore-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// AI services degrade gracefully: without an embedding service the
	// knowledge base rejects indexing and queries with a clear error, and
	// without an LLM rewording expansion and text ingestion are disabled.
	// Either way the CLI still runs so 'settings wizard' can fix things.
	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("%v", err)
	}
	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("%v", err)
	}

	if llm != nil {
		promptStore, perr := file.NewPromptStore("")
		if perr != nil {
			logger.Warn("prompt store unavailable, using built-in prompts: %v", perr)
		} else if aware, ok := llm.(driven.PromptStoreAware); ok {
			aware.SetPromptStore(promptStore)
		}
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	kb := services.NewKnowledgeBase(store.VectorIndex(), embedder, llm, settings.KB.RelevanceFloor)
	tree := services.NewTree(store.TreeStore(), kb)
	ingest := services.NewIngest(llm, kb)

	cli.SetServices(&cli.Services{
		Knowledge: kb,
		Tree:      tree,
		Ingest:    ingest,
		Settings:  settingsService,
		GitHubToken: driven.StaticTokenProvider{
			Token: configStore.GetString("github.token"),
		},
		DefaultRewordings: settings.KB.DefaultRewordings,
	})

	defer closeAI(embedder, llm)

	return cli.Execute()
}

func closeAI(embedder driven.EmbeddingService, llm driven.LLMService) {
	if embedder != nil {
		embedder.Close()
	}
	if llm != nil {
		llm.Close()
	}
}
