package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/adapters/driven/ai"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/classifier/keyword"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/services"
	"github.com/custodia-labs/leaserag/internal/normalisers"
	"github.com/custodia-labs/leaserag/internal/normalisers/markdown"
	"github.com/custodia-labs/leaserag/internal/normalisers/plaintext"
	"github.com/custodia-labs/leaserag/internal/postprocessors"
)

// stubLLM answers every prompt with a fixed sentence.
type stubLLM struct{}

var _ driven.LLMService = stubLLM{}

const stubAnswer = "The tenant is responsible for roof repairs."

func (stubLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	return stubAnswer, nil
}

func (stubLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return stubAnswer, nil
}

func (stubLLM) ModelName() string { return "stub" }

func (stubLLM) Ping(context.Context) error { return nil }

func (stubLLM) Close() error { return nil }

// testEnv exposes the stores behind the services set by setupTestServices.
var testEnv struct {
	leases   *memory.LeaseStore
	clauses  *memory.ClauseStore
	embedder *hashing.EmbeddingService
	lease    *services.LeaseService
}

// setupTestServices wires every command to in-memory services and returns
// a function restoring the previous services.
func setupTestServices() func() {
	old := Services{
		Lease:    leaseService,
		Indexing: indexingService,
		Search:   searchService,
		Query:    queryService,
		Document: documentService,
		Settings: settingsService,
	}

	promptDir, err := os.MkdirTemp("", "leaserag-prompts-")
	if err != nil {
		panic(err)
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		panic(err)
	}

	settings := domain.DefaultAppSettings()
	leases := memory.NewLeaseStore()
	clauses := memory.NewClauseStore(leases)
	docs := memory.NewDocumentStore()
	embedder := hashing.NewEmbeddingService(settings.Embedding.Dimensions)
	registry := normalisers.NewRegistry(plaintext.New(), markdown.New())

	ppRegistry := postprocessors.NewDefaultRegistry()
	clausePipeline, err := postprocessors.BuildPipeline(ppRegistry, domain.ClausePipelineConfig(settings.Indexing))
	if err != nil {
		panic(err)
	}
	docPipeline, err := postprocessors.BuildPipeline(ppRegistry, domain.DocumentPipelineConfig(settings.Indexing))
	if err != nil {
		panic(err)
	}

	classifier := services.NewClassifier(keyword.New(), ratelimit.Noop{})
	search := services.NewClauseSearchEngine(clauses, embedder)
	indexer := services.NewIndexingOrchestrator(leases, clauses, registry, clausePipeline, classifier, embedder)
	documentSvc := services.NewDocumentService(docs, leases, registry, docPipeline, embedder, stubLLM{}, prompts)
	leaseSvc := services.NewLeaseService(leases, leases, clauses, docs)
	leaseSvc.SetIndexer(indexer)
	leaseSvc.SetDocumentService(documentSvc)

	SetServices(Services{
		Lease:    leaseSvc,
		Indexing: indexer,
		Search:   search,
		Query:    services.NewQueryOrchestrator(leases, leases, search, stubLLM{}, prompts),
		Document: documentSvc,
		Settings: services.NewSettingsService(memory.NewConfigStore(), ai.NewConfigValidator()),
	})

	testEnv.leases = leases
	testEnv.clauses = clauses
	testEnv.embedder = embedder
	testEnv.lease = leaseSvc

	return func() {
		SetServices(old)
		_ = os.RemoveAll(promptDir)
	}
}

// seedLease creates a property, a lease and one embedded clause per text.
func seedLease(texts ...string) *domain.LeaseDetail {
	ctx := context.Background()
	p, err := testEnv.lease.CreateProperty(ctx, "Harbour Point", "1 Quay Street")
	if err != nil {
		panic(err)
	}
	lease := &domain.Lease{PropertyID: p.ID, TenantName: "Acme Ltd", MonthlyRent: 12500}
	if err := testEnv.lease.CreateLease(ctx, lease); err != nil {
		panic(err)
	}

	clauses := make([]domain.Clause, len(texts))
	for i, text := range texts {
		vec, err := testEnv.embedder.Embed(ctx, text)
		if err != nil {
			panic(err)
		}
		topic := domain.TopicOther
		if inferred := domain.InferTopics(text); len(inferred) > 0 {
			topic = inferred[0]
		}
		clauses[i] = domain.Clause{
			ID:               lease.ID + "-c" + string(rune('0'+i)),
			LeaseID:          lease.ID,
			Text:             text,
			Topic:            topic,
			ResponsibleParty: domain.PartyTenant,
			SectionLabel:     "Section 7.1",
			Confidence:       0.9,
			Position:         i,
			Embedding:        vec,
			CreatedAt:        time.Now(),
		}
	}
	if err := testEnv.clauses.SaveClauses(ctx, clauses); err != nil {
		panic(err)
	}

	detail, err := testEnv.lease.GetLease(ctx, lease.ID)
	if err != nil {
		panic(err)
	}
	return detail
}

// resetFlags restores flag variables shared across test executions.
func resetFlags() {
	searchLimit = domain.DefaultTopK
	searchJSON = false
	searchLease, searchProperty, searchTenant, searchTopics, searchParty = "", "", "", "", ""
	searchMinSimilarity = domain.DefaultMinSimilarity
	askLease, askProperty, askTenant, askTopic = "", "", "", ""
	askJSON = false
	leaseProperty, leaseTenant, leaseStart, leaseEnd, leaseNotes = "", "", "", "", ""
	leaseRent = 0
	propertyAddress = ""
	indexText = ""
	indexStore = true
	importQuiet = false
	chatLease = ""
	for _, c := range []*cobra.Command{leaseAddCmd, leaseUpdateCmd, leaseListCmd} {
		for _, name := range []string{"property", "tenant", "start", "end", "rent", "notes"} {
			if f := c.Flags().Lookup(name); f != nil {
				f.Changed = false
			}
		}
	}
}
