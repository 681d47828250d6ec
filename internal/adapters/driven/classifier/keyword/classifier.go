// Package keyword is an offline classifier. Topics come from the shared
// topic keyword table and the responsible party from obligation phrases
// such as "Tenant shall" or "at Landlord's expense".
package keyword

import (
	"context"
	"regexp"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure Classifier implements the interface.
var _ driven.ClassificationService = (*Classifier)(nil)

const (
	baseConfidence    = 0.5
	perHitConfidence  = 0.1
	maxConfidence     = 0.9
	noMatchConfidence = 0.2
)

const obligation = `\s+(shall|will|must|agrees?\s+to|is\s+(solely\s+)?responsible|shall\s+be\s+responsible|covenants\s+to)\b`

var (
	landlordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(landlord|lessor|owner)` + obligation),
		regexp.MustCompile(`(?i)\bat\s+(landlord|lessor|owner)['’]s\s+(sole\s+)?(cost|expense)`),
		regexp.MustCompile(`(?i)\b(landlord|lessor|owner)\s+shall\s+bear`),
	}
	tenantPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(tenant|lessee)` + obligation),
		regexp.MustCompile(`(?i)\bat\s+(tenant|lessee)['’]s\s+(sole\s+)?(cost|expense)`),
		regexp.MustCompile(`(?i)\b(tenant|lessee)\s+shall\s+bear`),
	}
)

// Classifier labels clauses without any external service.
type Classifier struct{}

// New creates a keyword classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify never fails unless ctx is done.
func (c *Classifier) Classify(ctx context.Context, text, _ string) (*driven.RawClassification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topic, topicHits := domain.BestTopic(text)
	landlord := countMatches(landlordPatterns, text)
	tenant := countMatches(tenantPatterns, text)

	party := domain.PartyUnknown
	switch {
	case landlord > 0 && tenant > 0:
		party = domain.PartyShared
	case landlord > 0:
		party = domain.PartyLandlord
	case tenant > 0:
		party = domain.PartyTenant
	}

	hits := topicHits + landlord + tenant
	confidence := noMatchConfidence
	if topic != domain.TopicOther || party != domain.PartyUnknown {
		confidence = min(baseConfidence+perHitConfidence*float64(hits), maxConfidence)
	}

	return &driven.RawClassification{
		Topic:            topic.String(),
		ResponsibleParty: party.String(),
		Confidence:       confidence,
	}, nil
}

// Name identifies the classifier.
func (c *Classifier) Name() string {
	return "keyword"
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range patterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}
