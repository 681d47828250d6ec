package driving

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// LeaseService manages the property and lease registry.
type LeaseService interface {
	// CreateProperty registers a new property.
	CreateProperty(ctx context.Context, name, address string) (*domain.Property, error)

	// GetProperty retrieves a property by ID.
	GetProperty(ctx context.Context, id string) (*domain.Property, error)

	// ListProperties returns all properties.
	ListProperties(ctx context.Context) ([]domain.Property, error)

	// DeleteProperty removes a property that has no leases.
	DeleteProperty(ctx context.Context, id string) error

	// CreateLease registers a new lease. The ID is assigned when empty.
	CreateLease(ctx context.Context, lease *domain.Lease) error

	// UpdateLease changes the business fields of an existing lease.
	UpdateLease(ctx context.Context, lease *domain.Lease) error

	// GetLease returns a lease joined with its property and clause count.
	GetLease(ctx context.Context, id string) (*domain.LeaseDetail, error)

	// ListLeases returns leases, optionally for one property.
	ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseDetail, error)

	// DeleteLease removes the lease together with its clauses and documents.
	DeleteLease(ctx context.Context, id string) error

	// Import creates properties and leases from a manifest and indexes any
	// attached documents. progress may be nil.
	Import(ctx context.Context, manifest *domain.ImportManifest, progress ImportProgressFunc) (*domain.ImportReport, error)
}

// ImportProgressFunc is called after each manifest lease is processed.
type ImportProgressFunc func(done, total int, label string)
