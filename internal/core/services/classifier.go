package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/logger"
)

const (
	// maxClassifyRunes bounds the text sent to the classification service.
	maxClassifyRunes = 2500

	// maxSectionLabelRunes bounds a section label taken from model output.
	maxSectionLabelRunes = 120
)

// backoffLimiter is implemented by limiters that can pause all calls after
// the service reports throttling.
type backoffLimiter interface {
	Backoff(d time.Duration)
}

// ClassifyOutcome is the result for one chunk of a batch.
// Err is set when the default classification was substituted.
type ClassifyOutcome struct {
	Classification domain.Classification
	Err            error
}

// Classifier validates the output of a ClassificationService against the
// topic and party vocabularies. It never fails a chunk: any external error
// yields domain.DefaultClassification.
type Classifier struct {
	service driven.ClassificationService
	limiter driven.RateLimiter
}

// NewClassifier creates a classifier. limiter may be nil for no pacing.
func NewClassifier(service driven.ClassificationService, limiter driven.RateLimiter) *Classifier {
	return &Classifier{service: service, limiter: limiter}
}

// Name returns the underlying service name.
func (c *Classifier) Name() string {
	if c.service == nil {
		return "none"
	}
	return c.service.Name()
}

// Classify labels one chunk of text.
func (c *Classifier) Classify(ctx context.Context, text, sectionHint string) domain.Classification {
	cls, err := c.classify(ctx, text, sectionHint)
	if err != nil {
		logger.Warn("classification fell back to default: %v", err)
	}
	return cls
}

// ClassifyBatch labels chunks strictly in order, waiting on the rate limiter
// before every call. A limiter that starts with a free token spends it on
// the first wait, so the first and second calls are still one interval apart. It returns one outcome per chunk. The only error is
// cancellation of ctx.
func (c *Classifier) ClassifyBatch(ctx context.Context, chunks []domain.Chunk) ([]ClassifyOutcome, error) {
	outcomes := make([]ClassifyOutcome, len(chunks))
	for i, chunk := range chunks {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("classify chunk %d: %w", chunk.Position, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cls, err := c.classify(ctx, chunk.Text, chunk.SectionLabel)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("chunk %d: classification fell back to default: %v", chunk.Position, err)
			if b, ok := c.limiter.(backoffLimiter); ok && errors.Is(err, domain.ErrRateLimited) {
				b.Backoff(0)
			}
		}
		outcomes[i] = ClassifyOutcome{Classification: cls, Err: err}
	}
	return outcomes, nil
}

func (c *Classifier) classify(ctx context.Context, text, sectionHint string) (domain.Classification, error) {
	def := domain.DefaultClassification()
	def.SectionLabel = strings.TrimSpace(sectionHint)

	if c.service == nil {
		return def, errors.New("no classification service configured")
	}
	if strings.TrimSpace(text) == "" {
		return def, domain.ErrInvalidInput
	}

	raw, err := c.service.Classify(ctx, truncateRunes(text, maxClassifyRunes), sectionHint)
	if err != nil {
		return def, fmt.Errorf("%s: %w", c.service.Name(), err)
	}
	if raw == nil {
		return def, fmt.Errorf("%s: empty classification", c.service.Name())
	}

	label := strings.TrimSpace(sectionHint)
	if label == "" {
		label = truncateRunes(strings.TrimSpace(raw.SectionLabel), maxSectionLabelRunes)
	}

	return domain.Classification{
		Topic:            domain.ParseTopic(raw.Topic),
		ResponsibleParty: domain.ParseResponsibleParty(raw.ResponsibleParty),
		SectionLabel:     label,
		Confidence:       clampConfidence(raw.Confidence),
	}, nil
}

// clampConfidence maps any float into [0, 1]. NaN becomes 0.
func clampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
