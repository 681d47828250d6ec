package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// Ensure IndexingOrchestrator implements the interface.
var _ driving.IndexingService = (*IndexingOrchestrator)(nil)

// IndexingOrchestrator rebuilds the clause set of a lease from its documents.
// A run is all-or-nothing with respect to the store: clauses are replaced
// only after every chunk has been classified and embedded.
type IndexingOrchestrator struct {
	leases     driven.LeaseStore
	clauses    driven.ClauseStore
	registry   driven.NormaliserRegistry
	pipeline   driven.PostProcessorPipeline
	classifier *Classifier
	embedder   driven.EmbeddingService

	mu     sync.Mutex
	status map[string]*domain.IndexStatus
}

// NewIndexingOrchestrator creates a new indexing orchestrator.
// pipeline must produce clause-sized chunks (the segmenter).
func NewIndexingOrchestrator(
	leases driven.LeaseStore,
	clauses driven.ClauseStore,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	classifier *Classifier,
	embedder driven.EmbeddingService,
) *IndexingOrchestrator {
	return &IndexingOrchestrator{
		leases:     leases,
		clauses:    clauses,
		registry:   registry,
		pipeline:   pipeline,
		classifier: classifier,
		embedder:   embedder,
		status:     make(map[string]*domain.IndexStatus),
	}
}

// IndexLease extracts text from each document and re-indexes the lease.
func (o *IndexingOrchestrator) IndexLease(ctx context.Context, leaseID string, docs ...domain.RawDocument) (*domain.IndexSummary, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("index lease %s: %w: no documents", leaseID, domain.ErrInvalidInput)
	}
	if o.registry == nil {
		return nil, fmt.Errorf("index lease %s: no normaliser registry configured", leaseID)
	}

	return o.run(ctx, leaseID, func() ([]domain.Document, error) {
		out := make([]domain.Document, 0, len(docs))
		for i := range docs {
			result, err := o.registry.Normalise(ctx, &docs[i])
			if err != nil {
				return nil, fmt.Errorf("extract %s: %w", docs[i].FileName, err)
			}
			out = append(out, result.Document)
		}
		return out, nil
	})
}

// IndexLeaseText re-indexes a lease from already-extracted text.
func (o *IndexingOrchestrator) IndexLeaseText(ctx context.Context, leaseID, text string) (*domain.IndexSummary, error) {
	return o.run(ctx, leaseID, func() ([]domain.Document, error) {
		if strings.TrimSpace(text) == "" {
			return nil, domain.ErrNoText
		}
		return []domain.Document{{LeaseID: leaseID, Content: text}}, nil
	})
}

// Status returns the indexing state of a lease in this process.
func (o *IndexingOrchestrator) Status(_ context.Context, leaseID string) (*domain.IndexStatus, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.status[leaseID]
	if !ok {
		return &domain.IndexStatus{LeaseID: leaseID}, nil
	}
	cp := *st
	return &cp, nil
}

func (o *IndexingOrchestrator) run(
	ctx context.Context,
	leaseID string,
	extract func() ([]domain.Document, error),
) (*domain.IndexSummary, error) {
	if err := o.begin(leaseID); err != nil {
		return nil, err
	}

	// On failure summary is nil unless the run got far enough to record
	// per-chunk failures.
	summary, err := o.index(ctx, leaseID, extract)
	o.finish(leaseID, summary, err)
	return summary, err
}

// index runs the steps of one indexing pass.
//
//nolint:gocyclo // Pipeline orchestration with sequential steps
func (o *IndexingOrchestrator) index(
	ctx context.Context,
	leaseID string,
	extract func() ([]domain.Document, error),
) (*domain.IndexSummary, error) {
	start := time.Now()
	logger.Section("Index lease " + leaseID)

	// 1. VERIFY LEASE
	if _, err := o.leases.GetLease(ctx, leaseID); err != nil {
		return nil, fmt.Errorf("get lease %s: %w", leaseID, err)
	}
	if o.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	// 2. EXTRACT
	docs, err := extract()
	if err != nil {
		return nil, err
	}

	// 3. SEGMENT
	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := o.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("segment: %w", err)
		}
		for _, c := range docChunks {
			c.Position = len(chunks)
			chunks = append(chunks, c)
		}
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("segment lease %s: %w: no clause-sized text found", leaseID, domain.ErrNoText)
	}
	logger.Debug("segmented %d chunks", len(chunks))

	summary := &domain.IndexSummary{
		LeaseID: leaseID,
		Chunks:  len(chunks),
		Topics:  make(map[domain.Topic]int),
		Parties: make(map[domain.ResponsibleParty]int),
	}

	// 4. CLASSIFY
	stop := logger.Timer("classify")
	outcomes, err := o.classifier.ClassifyBatch(ctx, chunks)
	stop()
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	for i, out := range outcomes {
		if out.Err != nil {
			summary.Failures = append(summary.Failures, domain.ChunkFailure{
				Position: chunks[i].Position,
				Stage:    domain.StageClassify,
				Error:    out.Err.Error(),
			})
		}
	}

	// 5. EMBED
	stop = logger.Timer("embed")
	vectors, embedFailures, err := o.embed(ctx, chunks)
	stop()
	if err != nil {
		return nil, err
	}
	summary.Failures = append(summary.Failures, embedFailures...)

	// 6. BUILD CLAUSES
	now := time.Now()
	clauses := make([]domain.Clause, 0, len(chunks))
	for i, chunk := range chunks {
		if vectors[i] == nil {
			continue
		}
		cls := outcomes[i].Classification
		label := cls.SectionLabel
		if label == "" {
			label = chunk.SectionLabel
		}
		clauses = append(clauses, domain.Clause{
			ID:               uuid.New().String(),
			LeaseID:          leaseID,
			Text:             chunk.Text,
			Topic:            cls.Topic,
			ResponsibleParty: cls.ResponsibleParty,
			SectionLabel:     label,
			PageNumber:       chunk.PageNumber,
			Confidence:       cls.Confidence,
			Position:         chunk.Position,
			Embedding:        vectors[i],
			CreatedAt:        now,
		})
		summary.Topics[cls.Topic]++
		summary.Parties[cls.ResponsibleParty]++
	}
	if len(clauses) == 0 {
		// Existing clauses stay in place. The summary still lists every failure.
		summary.Duration = time.Since(start)
		return summary, fmt.Errorf("embed lease %s: %w: all %d chunks failed",
			leaseID, domain.ErrEmbeddingUnavailable, len(chunks))
	}

	// 7. REPLACE
	deleted, err := o.replace(ctx, leaseID, clauses)
	if err != nil {
		return nil, err
	}

	summary.ClausesCreated = len(clauses)
	summary.ClausesDeleted = deleted
	summary.Duration = time.Since(start)
	logger.Info("indexed lease %s: %d clauses (%d replaced, %d failures) in %s",
		leaseID, summary.ClausesCreated, deleted, len(summary.Failures), summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// embed returns one vector per chunk, nil where embedding failed. A failed
// batch call falls back to embedding chunks one at a time.
func (o *IndexingOrchestrator) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, []domain.ChunkFailure, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := o.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vectors) != len(texts) {
		err = fmt.Errorf("batch returned %d vectors for %d texts", len(vectors), len(texts))
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		logger.Warn("batch embedding failed, embedding chunks one at a time: %v", err)
		vectors = make([][]float32, len(texts))
		for i, text := range texts {
			vec, err := o.embedder.Embed(ctx, text)
			if err != nil {
				if ctx.Err() != nil {
					return nil, nil, ctx.Err()
				}
				vectors[i] = nil
				continue
			}
			vectors[i] = vec
		}
	}

	want := o.embedder.Dimensions()
	var failures []domain.ChunkFailure
	for i, vec := range vectors {
		var reason error
		switch {
		case vec == nil:
			reason = errors.New("embedding failed")
		case want > 0 && len(vec) != want:
			reason = fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), want)
		case want <= 0 && len(vec) != len(firstNonNil(vectors)):
			reason = fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vec), len(firstNonNil(vectors)))
		}
		if reason != nil {
			vectors[i] = nil
			failures = append(failures, domain.ChunkFailure{
				Position: chunks[i].Position,
				Stage:    domain.StageEmbed,
				Error:    reason.Error(),
			})
			logger.Warn("chunk %d: %v", chunks[i].Position, reason)
		}
	}
	return vectors, failures, nil
}

func firstNonNil(vectors [][]float32) []float32 {
	for _, v := range vectors {
		if v != nil {
			return v
		}
	}
	return nil
}

// replace swaps the lease's clauses, atomically when the store supports it.
func (o *IndexingOrchestrator) replace(ctx context.Context, leaseID string, clauses []domain.Clause) (int, error) {
	if r, ok := o.clauses.(driven.ClauseReplacer); ok {
		deleted, err := r.ReplaceLeaseClauses(ctx, leaseID, clauses)
		if err != nil {
			return 0, fmt.Errorf("replace clauses: %w", err)
		}
		return deleted, nil
	}

	deleted, err := o.clauses.DeleteClausesByLease(ctx, leaseID)
	if err != nil {
		return 0, fmt.Errorf("delete clauses: %w", err)
	}
	if err := o.clauses.SaveClauses(ctx, clauses); err != nil {
		return 0, fmt.Errorf("save clauses: %w", err)
	}
	return deleted, nil
}

// begin marks a lease as indexing, or fails if it already is.
func (o *IndexingOrchestrator) begin(leaseID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	st, ok := o.status[leaseID]
	if ok && st.Running {
		return fmt.Errorf("index lease %s: %w", leaseID, domain.ErrIndexInProgress)
	}
	if !ok {
		st = &domain.IndexStatus{LeaseID: leaseID}
		o.status[leaseID] = st
	}
	st.Running = true
	return nil
}

// finish records the outcome of a run.
func (o *IndexingOrchestrator) finish(leaseID string, summary *domain.IndexSummary, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := o.status[leaseID]
	st.Running = false
	st.LastRun = time.Now()
	if err != nil {
		st.LastError = err.Error()
		return
	}
	st.LastError = ""
	st.LastSummary = summary
}
