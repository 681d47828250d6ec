// Package tui provides an interactive terminal chat over indexed leases.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers questions.
	Query driving.QueryService

	// Lease lists the leases a conversation can be scoped to.
	Lease driving.LeaseService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(query driving.QueryService, lease driving.LeaseService) *Ports {
	return &Ports{
		Query: query,
		Lease: lease,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Lease == nil {
		return ErrMissingLeaseService
	}
	return nil
}
