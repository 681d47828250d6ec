package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/normalisers"
	"github.com/custodia-labs/leaserag/internal/normalisers/plaintext"
	"github.com/custodia-labs/leaserag/internal/postprocessors"
)

// stubVocabulary gives the stub embedder one axis per word stem.
var stubVocabulary = []string{
	"roof", "hvac", "rent", "insurance", "repair", "parking", "tax",
	"deposit", "utilit", "signage", "plumbing", "assign", "terminat",
}

// stubEmbedder maps text onto word-stem counts plus a small bias axis, so
// texts sharing vocabulary are similar and unrelated texts are not.
type stubEmbedder struct {
	mu         sync.Mutex
	batchErr   error
	failOn     string
	dims       int
	shortOn    string
	batchCalls int
	embedCalls int
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func (e *stubEmbedder) vector(text string) []float32 {
	vec := make([]float32, len(stubVocabulary)+1)
	vec[len(stubVocabulary)] = 0.05
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		for i, stem := range stubVocabulary {
			if strings.HasPrefix(w, stem) {
				vec[i]++
			}
		}
	}
	if e.shortOn != "" && strings.Contains(text, e.shortOn) {
		return vec[:3]
	}
	return vec
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.embedCalls++
	e.mu.Unlock()
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedding rejected")
	}
	return e.vector(text), nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.batchCalls++
	e.mu.Unlock()
	if e.batchErr != nil {
		return nil, e.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if e.failOn != "" && strings.Contains(t, e.failOn) {
			return nil, errors.New("batch rejected")
		}
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int {
	if e.dims > 0 {
		return e.dims
	}
	return len(stubVocabulary) + 1
}

func (e *stubEmbedder) ModelName() string            { return "stub" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// stubLLM records prompts and returns a canned reply.
type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

var _ driven.LLMService = (*stubLLM)(nil)

func (l *stubLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	l.prompts = append(l.prompts, prompt)
	return l.reply, l.err
}

func (l *stubLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	return l.reply, l.err
}

func (l *stubLLM) ModelName() string            { return "stub-llm" }
func (l *stubLLM) Ping(_ context.Context) error { return nil }
func (l *stubLLM) Close() error                 { return nil }

func (l *stubLLM) lastPrompt() string {
	if len(l.prompts) == 0 {
		return ""
	}
	return l.prompts[len(l.prompts)-1]
}

// stubPrompts serves minimal templates that expose every field.
type stubPrompts struct{}

var stubTemplates = map[string]string{
	driven.PromptAnswerQuestion: "Q: {{.Question}}\n{{if .Portfolio}}PORTFOLIO\n{{end}}" +
		"{{if .AsksResponsibility}}PARTY\n{{end}}{{.Metadata}}\n{{.Context}}",
	driven.PromptAnswerDocument: "DOC {{.Title}}: {{.Question}}\n{{.Context}}",
}

func (stubPrompts) Load(name string) (string, error) {
	if t, ok := stubTemplates[name]; ok {
		return t, nil
	}
	return "", errors.New("unknown prompt")
}

func (stubPrompts) Reload() {}

// stubClassification labels text by the first matching keyword.
type stubClassification struct {
	failOn string
	calls  int
}

var _ driven.ClassificationService = (*stubClassification)(nil)

func (c *stubClassification) Classify(_ context.Context, text, sectionHint string) (*driven.RawClassification, error) {
	c.calls++
	if c.failOn != "" && strings.Contains(text, c.failOn) {
		return nil, errors.New("model timeout")
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "roof"):
		return &driven.RawClassification{Topic: "roof", ResponsibleParty: "lessor", Confidence: 0.9}, nil
	case strings.Contains(lower, "hvac"):
		return &driven.RawClassification{Topic: "HVAC", ResponsibleParty: "TENANT", Confidence: 0.8}, nil
	case strings.Contains(lower, "rent"):
		return &driven.RawClassification{Topic: "RENT", ResponsibleParty: "TENANT", Confidence: 1.4}, nil
	}
	return &driven.RawClassification{Topic: "gibberish", ResponsibleParty: "someone", Confidence: 0.3}, nil
}

func (c *stubClassification) Name() string { return "stub" }

// countingLimiter counts waits and never blocks.
type countingLimiter struct {
	waits int
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.waits++
	return ctx.Err()
}

// fixture wires the memory stores with the stub providers.
type fixture struct {
	leases   *memory.LeaseStore
	clauses  *memory.ClauseStore
	docs     *memory.DocumentStore
	embedder *stubEmbedder
	llm      *stubLLM
	classify *stubClassification
	limiter  *countingLimiter
}

func newFixture() *fixture {
	leases := memory.NewLeaseStore()
	return &fixture{
		leases:   leases,
		clauses:  memory.NewClauseStore(leases),
		docs:     memory.NewDocumentStore(),
		embedder: &stubEmbedder{},
		llm:      &stubLLM{reply: "The landlord repairs the roof.\nResponsible Party: LANDLORD"},
		classify: &stubClassification{},
		limiter:  &countingLimiter{},
	}
}

func (f *fixture) registry() *normalisers.Registry {
	return normalisers.NewRegistry(plaintext.New())
}

func (f *fixture) indexer(t *testing.T) *IndexingOrchestrator {
	t.Helper()
	pipeline, err := postprocessors.BuildPipeline(postprocessors.NewDefaultRegistry(),
		domain.ClausePipelineConfig(domain.DefaultAppSettings().Indexing))
	require.NoError(t, err)
	return NewIndexingOrchestrator(f.leases, f.clauses, f.registry(), pipeline,
		NewClassifier(f.classify, f.limiter), f.embedder)
}

func (f *fixture) documents(t *testing.T) *DocumentService {
	t.Helper()
	pipeline, err := postprocessors.BuildPipeline(postprocessors.NewDefaultRegistry(),
		domain.DocumentPipelineConfig(domain.IndexingSettings{DocumentChunkSize: 200, DocumentChunkOverlap: 20}))
	require.NoError(t, err)
	return NewDocumentService(f.docs, f.leases, f.registry(), pipeline, f.embedder, f.llm, stubPrompts{})
}

func (f *fixture) query() *QueryOrchestrator {
	return NewQueryOrchestrator(f.leases, f.leases, NewClauseSearchEngine(f.clauses, f.embedder), f.llm, stubPrompts{})
}

// addLease stores a property and a lease and returns the lease id.
func (f *fixture) addLease(t *testing.T, propertyID, propertyName, leaseID, tenant string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.leases.GetProperty(ctx, propertyID); err != nil {
		require.NoError(t, f.leases.SaveProperty(ctx, &domain.Property{ID: propertyID, Name: propertyName}))
	}
	require.NoError(t, f.leases.SaveLease(ctx, &domain.Lease{
		ID:         leaseID,
		PropertyID: propertyID,
		TenantName: tenant,
		CreatedAt:  time.Now(),
	}))
	return leaseID
}

// addClause stores a clause embedded with the stub embedder.
func (f *fixture) addClause(t *testing.T, leaseID, id, text string, topic domain.Topic, party domain.ResponsibleParty) {
	t.Helper()
	require.NoError(t, f.clauses.SaveClause(context.Background(), &domain.Clause{
		ID:               id,
		LeaseID:          leaseID,
		Text:             text,
		Topic:            topic,
		ResponsibleParty: party,
		SectionLabel:     "Section " + id,
		Confidence:       1,
		Embedding:        f.embedder.vector(text),
		CreatedAt:        time.Now(),
	}))
}
