package driven

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// ClauseStore persists clauses. A clause row is written as one unit:
// text, classification and embedding together.
type ClauseStore interface {
	// SaveClause creates or replaces one clause.
	SaveClause(ctx context.Context, clause *domain.Clause) error

	// SaveClauses creates many clauses in one batch.
	SaveClauses(ctx context.Context, clauses []domain.Clause) error

	// DeleteClausesByLease removes every clause of a lease and returns how
	// many were removed.
	DeleteClausesByLease(ctx context.Context, leaseID string) (int, error)

	// FindClauses returns clauses matching the filter joined with their lease
	// and property, in a stable fetch order.
	FindClauses(ctx context.Context, filter domain.ClauseFilter) ([]domain.ClauseView, error)

	// CountClauses returns the number of clauses for a lease.
	CountClauses(ctx context.Context, leaseID string) (int, error)
}

// ClauseReplacer is implemented by stores that can swap a lease's clauses
// atomically. Readers never observe a partially replaced set.
type ClauseReplacer interface {
	// ReplaceLeaseClauses deletes all clauses of the lease and writes the
	// given ones in a single unit, returning the deleted count.
	ReplaceLeaseClauses(ctx context.Context, leaseID string, clauses []domain.Clause) (int, error)
}
