package domain

import (
	"fmt"
	"time"
)

// Clause is a classified, embedded unit of lease text.
// A clause row is written as one unit; there is no partial update.
type Clause struct {
	// ID is the unique identifier for the clause.
	ID string

	// LeaseID links to the owning Lease.
	LeaseID string

	// Text is the clause text as segmented.
	Text string

	// Topic is always a member of the topic vocabulary.
	Topic Topic

	// ResponsibleParty is always a member of the party vocabulary.
	ResponsibleParty ResponsibleParty

	// SectionLabel is the heading the clause was found under, if any.
	SectionLabel string

	// PageNumber is the 1-based page, or nil when the source had no pages.
	PageNumber *int

	// Confidence is the classifier confidence in [0,1].
	Confidence float64

	// Position is the ordinal of the chunk within the indexed document.
	Position int

	// Embedding is the vector representation of Text.
	Embedding []float32

	// CreatedAt is when the clause was indexed.
	CreatedAt time.Time
}

// Validate checks that the clause has its identifiers and that both labels
// belong to their vocabularies.
func (c *Clause) Validate() error {
	if c.ID == "" || c.LeaseID == "" {
		return ErrInvalidInput
	}
	if !c.Topic.IsValid() {
		return fmt.Errorf("%w: topic %q", ErrInvalidInput, c.Topic)
	}
	if !c.ResponsibleParty.IsValid() {
		return fmt.Errorf("%w: responsible party %q", ErrInvalidInput, c.ResponsibleParty)
	}
	return nil
}

// ClauseView is a clause joined with its lease and property, as returned
// by filtered reads for citation display.
type ClauseView struct {
	Clause       Clause
	PropertyID   string
	PropertyName string
	TenantName   string
}

// ClauseFilter restricts a clause read. Empty fields do not filter.
type ClauseFilter struct {
	// LeaseID restricts to one lease.
	LeaseID string

	// PropertyID restricts to leases of one property.
	PropertyID string

	// TenantName restricts to leases whose tenant matches case-insensitively.
	TenantName string

	// Topics restricts to clauses whose topic is in the set.
	Topics []Topic

	// ResponsibleParty restricts to one party when non-empty.
	ResponsibleParty ResponsibleParty
}

// HasTopicFilter returns true if a topic set restriction is applied.
func (f ClauseFilter) HasTopicFilter() bool {
	return len(f.Topics) > 0
}

// WithoutTopics returns a copy of the filter with the topic set cleared.
func (f ClauseFilter) WithoutTopics() ClauseFilter {
	f.Topics = nil
	return f
}

// Classification is the validated output of the clause classifier.
type Classification struct {
	Topic            Topic
	ResponsibleParty ResponsibleParty
	SectionLabel     string
	Confidence       float64
}

// DefaultClassification is returned when classification fails.
func DefaultClassification() Classification {
	return Classification{
		Topic:            TopicOther,
		ResponsibleParty: PartyUnknown,
		Confidence:       0,
	}
}
