package driven

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// PropertyStore persists properties.
type PropertyStore interface {
	// SaveProperty creates or updates a property.
	SaveProperty(ctx context.Context, property *domain.Property) error

	// GetProperty retrieves a property by ID.
	GetProperty(ctx context.Context, id string) (*domain.Property, error)

	// FindPropertyByName returns the property whose name matches
	// case-insensitively, or ErrNotFound.
	FindPropertyByName(ctx context.Context, name string) (*domain.Property, error)

	// ListProperties returns all properties ordered by name.
	ListProperties(ctx context.Context) ([]domain.Property, error)

	// DeleteProperty removes a property. Fails while leases reference it.
	DeleteProperty(ctx context.Context, id string) error
}

// LeaseStore persists leases.
type LeaseStore interface {
	// SaveLease creates or updates a lease.
	SaveLease(ctx context.Context, lease *domain.Lease) error

	// GetLease retrieves a lease by ID.
	GetLease(ctx context.Context, id string) (*domain.Lease, error)

	// ListLeases returns leases, optionally restricted to one property.
	ListLeases(ctx context.Context, propertyID string) ([]domain.Lease, error)

	// DeleteLease removes a lease row. Callers remove clauses and documents first.
	DeleteLease(ctx context.Context, id string) error
}
