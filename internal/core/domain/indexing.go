package domain

import "time"

// ChunkFailure records a non-fatal failure for one chunk of an indexing run.
type ChunkFailure struct {
	// Position is the chunk ordinal.
	Position int

	// Stage is "classify" or "embed".
	Stage string

	// Error is the failure message.
	Error string
}

// Indexing stages reported in ChunkFailure.
const (
	StageClassify = "classify"
	StageEmbed    = "embed"
)

// IndexSummary is the structured result of an indexing run.
type IndexSummary struct {
	LeaseID string

	// Chunks is the number of chunks the segmenter produced.
	Chunks int

	// ClausesCreated is the number of clauses written.
	ClausesCreated int

	// ClausesDeleted is the number of prior clauses replaced.
	ClausesDeleted int

	Failures []ChunkFailure

	// Topics is the topic distribution of the written clauses.
	Topics map[Topic]int

	// Parties is the responsible-party distribution of the written clauses.
	Parties map[ResponsibleParty]int

	Duration time.Duration
}

// IndexStatus is the in-process state of a lease's indexing.
type IndexStatus struct {
	LeaseID     string
	Running     bool
	LastSummary *IndexSummary
	LastError   string
	LastRun     time.Time
}
