package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure LeaseStore implements the interfaces.
var (
	_ driven.PropertyStore = (*LeaseStore)(nil)
	_ driven.LeaseStore    = (*LeaseStore)(nil)
)

// LeaseStore is an in-memory registry of properties and leases.
type LeaseStore struct {
	mu         sync.RWMutex
	properties map[string]domain.Property
	leases     map[string]domain.Lease
}

// NewLeaseStore creates a new in-memory lease store.
func NewLeaseStore() *LeaseStore {
	return &LeaseStore{
		properties: make(map[string]domain.Property),
		leases:     make(map[string]domain.Lease),
	}
}

// SaveProperty creates or updates a property.
func (s *LeaseStore) SaveProperty(_ context.Context, property *domain.Property) error {
	if property == nil || property.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[property.ID] = *property
	return nil
}

// GetProperty retrieves a property by ID.
func (s *LeaseStore) GetProperty(_ context.Context, id string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// FindPropertyByName returns the property whose name matches case-insensitively.
func (s *LeaseStore) FindPropertyByName(_ context.Context, name string) (*domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.TrimSpace(name)
	for _, p := range s.properties {
		if strings.EqualFold(p.Name, want) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListProperties returns all properties ordered by name.
func (s *LeaseStore) ListProperties(_ context.Context) ([]domain.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := strings.ToLower(result[i].Name), strings.ToLower(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteProperty removes a property that no lease references.
func (s *LeaseStore) DeleteProperty(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[id]; !ok {
		return domain.ErrNotFound
	}
	for _, l := range s.leases {
		if l.PropertyID == id {
			return fmt.Errorf("delete property %s: %w: property still has leases", id, domain.ErrInvalidInput)
		}
	}
	delete(s.properties, id)
	return nil
}

// SaveLease creates or updates a lease. The property must exist.
func (s *LeaseStore) SaveLease(_ context.Context, lease *domain.Lease) error {
	if lease == nil || lease.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.properties[lease.PropertyID]; !ok {
		return fmt.Errorf("save lease %s: property %s: %w", lease.ID, lease.PropertyID, domain.ErrNotFound)
	}
	s.leases[lease.ID] = *lease
	return nil
}

// GetLease retrieves a lease by ID.
func (s *LeaseStore) GetLease(_ context.Context, id string) (*domain.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

// ListLeases returns leases ordered by creation time, optionally for one property.
func (s *LeaseStore) ListLeases(_ context.Context, propertyID string) ([]domain.Lease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Lease
	for _, l := range s.leases {
		if propertyID == "" || l.PropertyID == propertyID {
			result = append(result, l)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteLease removes a lease row.
func (s *LeaseStore) DeleteLease(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leases[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.leases, id)
	return nil
}

// join returns the lease and property for a clause projection.
func (s *LeaseStore) join(leaseID string) (domain.Lease, domain.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leases[leaseID]
	if !ok {
		return domain.Lease{}, domain.Property{}, false
	}
	return l, s.properties[l.PropertyID], true
}
