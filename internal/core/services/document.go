package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Retrieval parameters for whole-document questions.
const (
	documentTopK          = 5
	documentMinSimilarity = 0.2
)

// DocumentService manages uploaded lease documents and answers questions
// from their generic, unclassified chunks.
type DocumentService struct {
	docs     driven.DocumentStore
	leases   driven.LeaseStore
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	llm      driven.LLMService
	prompts  driven.PromptStore
}

// NewDocumentService creates a new document service. embedder and llm may
// be nil; Upload then fails with ErrEmbeddingUnavailable and Ask with
// ErrLLMUnavailable.
func NewDocumentService(
	docs driven.DocumentStore,
	leases driven.LeaseStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
) *DocumentService {
	return &DocumentService{
		docs:     docs,
		leases:   leases,
		registry: registry,
		pipeline: pipeline,
		embedder: embedder,
		llm:      llm,
		prompts:  prompts,
	}
}

// Upload normalises, chunks and embeds a document, then stores it.
func (s *DocumentService) Upload(ctx context.Context, leaseID string, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("upload: %w: nil document", domain.ErrInvalidInput)
	}
	if s.leases != nil {
		if _, err := s.leases.GetLease(ctx, leaseID); err != nil {
			return nil, fmt.Errorf("get lease %s: %w", leaseID, err)
		}
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	done := logger.Timer("upload " + raw.FileName)
	defer done()

	// 1. NORMALISE
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.FileName, err)
	}
	doc := result.Document
	doc.LeaseID = leaseID
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	// 2. CHUNK
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", raw.FileName, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunk %s: %w", raw.FileName, domain.ErrNoText)
	}

	// 3. EMBED
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", raw.FileName, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed %s: got %d vectors for %d chunks", raw.FileName, len(vectors), len(chunks))
	}

	// 4. STORE
	stored := make([]domain.DocumentChunk, len(chunks))
	for i, c := range chunks {
		stored[i] = domain.DocumentChunk{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Content:    c.Text,
			Position:   i,
			PageNumber: c.PageNumber,
			Embedding:  vectors[i],
		}
	}
	if err := s.docs.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	if err := s.docs.SaveChunks(ctx, stored); err != nil {
		return nil, fmt.Errorf("save chunks %s: %w", doc.ID, err)
	}

	logger.Info("stored document %s (%d chunks)", doc.ID, len(stored))
	return &doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docs.GetDocument(ctx, documentID)
}

// List returns the documents of a lease.
func (s *DocumentService) List(ctx context.Context, leaseID string) ([]domain.Document, error) {
	return s.docs.ListDocuments(ctx, leaseID)
}

// GetChunks returns the stored chunks of a document.
func (s *DocumentService) GetChunks(ctx context.Context, documentID string) ([]domain.DocumentChunk, error) {
	if _, err := s.docs.GetDocument(ctx, documentID); err != nil {
		return nil, err
	}
	return s.docs.GetChunks(ctx, documentID)
}

// Delete removes a document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	return s.docs.DeleteDocument(ctx, documentID)
}

// documentPromptData is the data for the answer_document template.
type documentPromptData struct {
	Question string
	Context  string
	Title    string
}

// Ask answers a question from the document's own chunks.
func (s *DocumentService) Ask(ctx context.Context, documentID, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("ask document: %w: empty question", domain.ErrInvalidInput)
	}
	doc, err := s.docs.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", documentID, err)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	chunks, err := s.docs.GetChunks(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("get chunks %s: %w", documentID, err)
	}
	query, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	ranked := rankBySimilarity(query, chunks, func(c domain.DocumentChunk) []float32 {
		return c.Embedding
	}, documentMinSimilarity, documentTopK)

	answer := &domain.Answer{
		Scope:            domain.ScopeLease,
		ResponsibleParty: domain.PartyUnknown,
		PartySource:      domain.PartySourceNone,
		TopicSource:      domain.TopicSourceNone,
	}
	if len(ranked) == 0 {
		answer.Mode = domain.QueryModeNoClauses
		answer.Message = fmt.Sprintf("No passages in %q matched this question.", doc.Title)
		answer.Citations = []domain.Citation{}
		return answer, nil
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	var b strings.Builder
	for i, r := range ranked {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, strings.TrimSpace(r.item.Content))
	}
	prompt, err := renderPrompt(s.prompts, driven.PromptAnswerDocument, documentPromptData{
		Question: question,
		Context:  strings.TrimSpace(b.String()),
		Title:    doc.Title,
	})
	if err != nil {
		return nil, err
	}
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnswerGeneration, err)
	}

	answer.Mode = domain.QueryModeDocumentRAG
	answer.Text = strings.TrimSpace(text)
	if party, ok := ExplicitResponsibleParty(answer.Text); ok {
		answer.ResponsibleParty = party
		answer.PartySource = domain.PartySourceExplicit
	}
	answer.Citations = make([]domain.Citation, len(ranked))
	for i, r := range ranked {
		answer.Citations[i] = domain.Citation{
			ClauseID:         r.item.ID,
			LeaseID:          doc.LeaseID,
			SectionLabel:     doc.Title,
			Snippet:          snippet(r.item.Content, domain.CitationSnippetChars),
			PageNumber:       r.item.PageNumber,
			ResponsibleParty: domain.PartyUnknown,
			Similarity:       r.score,
		}
	}
	return answer, nil
}
