// Command leaserag indexes commercial leases and answers questions about them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/leaserag/internal/adapters/driven/ai"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/classifier/keyword"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/leaserag/internal/adapters/driving/cli"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/services"
	"github.com/custodia-labs/leaserag/internal/normalisers"
	"github.com/custodia-labs/leaserag/internal/normalisers/docx"
	"github.com/custodia-labs/leaserag/internal/normalisers/html"
	"github.com/custodia-labs/leaserag/internal/normalisers/markdown"
	"github.com/custodia-labs/leaserag/internal/normalisers/pdf"
	"github.com/custodia-labs/leaserag/internal/normalisers/plaintext"
	"github.com/custodia-labs/leaserag/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the services and executes the CLI. Cobra reports command
// errors itself, so only setup failures are printed here.
func run() int {
	if err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeAll()

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// closers release resources opened by setup, in reverse order.
var closers []func()

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

func setup() error {
	// API keys may come from a .env file in the working directory.
	_ = godotenv.Load()

	home, err := file.HomeDir()
	if err != nil {
		return err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	prompts, err := file.NewPromptStore(filepath.Join(home, "prompts"))
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	closers = append(closers, func() { _ = store.Close() })

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		pdf.New(),
		docx.New(),
	)
	ppRegistry := postprocessors.NewDefaultRegistry()
	clausePipeline, err := postprocessors.BuildPipeline(ppRegistry, domain.ClausePipelineConfig(settings.Indexing))
	if err != nil {
		closeAll()
		return err
	}
	documentPipeline, err := postprocessors.BuildPipeline(ppRegistry, domain.DocumentPipelineConfig(settings.Indexing))
	if err != nil {
		closeAll()
		return err
	}

	// Property, lease and settings commands work without any AI provider,
	// so a failed initialisation only disables indexing and answers.
	var (
		embedder   driven.EmbeddingService
		llm        driven.LLMService
		classifier = services.NewClassifier(keyword.New(), ratelimit.Noop{})
	)
	aiResult, err := ai.Initialise(settings, prompts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		closers = append(closers, aiResult.Close)
		for _, w := range aiResult.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		embedder = aiResult.EmbeddingService
		llm = aiResult.LLMService
		classifier = services.NewClassifier(aiResult.Classifier, aiResult.Limiter)
	}

	leases := store.LeaseStore()
	clauses := store.ClauseStore()
	documents := store.DocumentStore()

	search := services.NewClauseSearchEngine(clauses, embedder)
	indexer := services.NewIndexingOrchestrator(leases, clauses, registry, clausePipeline, classifier, embedder)
	documentService := services.NewDocumentService(documents, leases, registry, documentPipeline, embedder, llm, prompts)

	leaseService := services.NewLeaseService(leases, leases, clauses, documents)
	leaseService.SetIndexer(indexer)
	leaseService.SetDocumentService(documentService)

	query := services.NewQueryOrchestrator(leases, leases, search, llm, prompts,
		services.WithRetrievalSettings(settings.Retrieval))

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Lease:    leaseService,
		Indexing: indexer,
		Search:   search,
		Query:    query,
		Document: documentService,
		Settings: settingsService,
	})

	return nil
}
