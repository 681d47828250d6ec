package driven

import "context"

// ClassificationService is the external capability that labels clause text.
// Its output is untrusted: callers validate every field against the
// domain vocabularies before use.
type ClassificationService interface {
	// Classify labels text. sectionHint may be empty.
	Classify(ctx context.Context, text, sectionHint string) (*RawClassification, error)

	// Name identifies the implementation for logs and summaries.
	Name() string
}

// RawClassification is the unvalidated result of a classification call.
type RawClassification struct {
	Topic            string
	ResponsibleParty string
	SectionLabel     string
	Confidence       float64
}

// RateLimiter paces calls to an external service.
type RateLimiter interface {
	// Wait blocks until the next call is allowed or ctx is done.
	Wait(ctx context.Context) error
}
