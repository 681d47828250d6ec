package mcp

import (
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers lease questions.
	Query driving.QueryService

	// Search ranks clauses by similarity.
	Search driving.ClauseSearchService

	// Lease lists leases and backs the lease:// resource.
	Lease driving.LeaseService

	// Document lists the documents attached to a lease.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Lease and Document are optional
	return nil
}
