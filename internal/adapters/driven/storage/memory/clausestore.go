package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure ClauseStore implements the interfaces.
var (
	_ driven.ClauseStore    = (*ClauseStore)(nil)
	_ driven.ClauseReplacer = (*ClauseStore)(nil)
)

// ClauseStore is an in-memory implementation of driven.ClauseStore.
// It reads lease and property rows from a LeaseStore to build projections.
type ClauseStore struct {
	mu      sync.RWMutex
	leases  *LeaseStore
	clauses map[string]domain.Clause
}

// NewClauseStore creates a clause store joined against the given leases.
func NewClauseStore(leases *LeaseStore) *ClauseStore {
	return &ClauseStore{
		leases:  leases,
		clauses: make(map[string]domain.Clause),
	}
}

// SaveClause creates or replaces one clause.
func (s *ClauseStore) SaveClause(_ context.Context, clause *domain.Clause) error {
	if clause == nil {
		return domain.ErrInvalidInput
	}
	if err := clause.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clauses[clause.ID] = copyClause(*clause)
	return nil
}

// SaveClauses creates many clauses. Nothing is written if any is invalid.
func (s *ClauseStore) SaveClauses(_ context.Context, clauses []domain.Clause) error {
	for i := range clauses {
		if err := clauses[i].Validate(); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range clauses {
		s.clauses[clauses[i].ID] = copyClause(clauses[i])
	}
	return nil
}

// DeleteClausesByLease removes every clause of a lease.
func (s *ClauseStore) DeleteClausesByLease(_ context.Context, leaseID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(leaseID), nil
}

// ReplaceLeaseClauses swaps a lease's clauses under one lock.
func (s *ClauseStore) ReplaceLeaseClauses(_ context.Context, leaseID string, clauses []domain.Clause) (int, error) {
	for i := range clauses {
		if err := clauses[i].Validate(); err != nil {
			return 0, err
		}
		if clauses[i].LeaseID != leaseID {
			return 0, domain.ErrInvalidInput
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := s.deleteLocked(leaseID)
	for i := range clauses {
		s.clauses[clauses[i].ID] = copyClause(clauses[i])
	}
	return deleted, nil
}

func (s *ClauseStore) deleteLocked(leaseID string) int {
	n := 0
	for id, c := range s.clauses {
		if c.LeaseID == leaseID {
			delete(s.clauses, id)
			n++
		}
	}
	return n
}

// FindClauses returns matching clauses ordered by creation time, position and ID.
func (s *ClauseStore) FindClauses(_ context.Context, filter domain.ClauseFilter) ([]domain.ClauseView, error) {
	topics := make(map[domain.Topic]bool, len(filter.Topics))
	for _, t := range filter.Topics {
		topics[t] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.ClauseView
	for _, c := range s.clauses {
		if filter.LeaseID != "" && c.LeaseID != filter.LeaseID {
			continue
		}
		if len(topics) > 0 && !topics[c.Topic] {
			continue
		}
		if filter.ResponsibleParty != "" && c.ResponsibleParty != filter.ResponsibleParty {
			continue
		}
		lease, property, ok := s.leases.join(c.LeaseID)
		if !ok {
			continue
		}
		if filter.PropertyID != "" && lease.PropertyID != filter.PropertyID {
			continue
		}
		if filter.TenantName != "" && !strings.EqualFold(lease.TenantName, strings.TrimSpace(filter.TenantName)) {
			continue
		}
		result = append(result, domain.ClauseView{
			Clause:       copyClause(c),
			PropertyID:   property.ID,
			PropertyName: property.Name,
			TenantName:   lease.TenantName,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Clause, result[j].Clause
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.ID < b.ID
	})
	return result, nil
}

// CountClauses returns the number of clauses for a lease.
func (s *ClauseStore) CountClauses(_ context.Context, leaseID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.clauses {
		if c.LeaseID == leaseID {
			n++
		}
	}
	return n, nil
}

// copyClause detaches the embedding slice from the caller's memory.
func copyClause(c domain.Clause) domain.Clause {
	if c.Embedding != nil {
		c.Embedding = append([]float32(nil), c.Embedding...)
	}
	return c
}
