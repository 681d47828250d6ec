package tui

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

type mockQueryService struct {
	answer *domain.Answer
	err    error
}

func (m *mockQueryService) Ask(_ context.Context, _ domain.QueryRequest) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Mode: domain.QueryModeClauseRAG, Text: "The tenant."}, nil
}

type mockLeaseService struct {
	leases []domain.LeaseDetail
}

func (m *mockLeaseService) CreateProperty(_ context.Context, name, address string) (*domain.Property, error) {
	return &domain.Property{ID: "p1", Name: name, Address: address}, nil
}

func (m *mockLeaseService) GetProperty(_ context.Context, _ string) (*domain.Property, error) {
	return nil, domain.ErrNotFound
}

func (m *mockLeaseService) ListProperties(_ context.Context) ([]domain.Property, error) {
	return nil, nil
}

func (m *mockLeaseService) DeleteProperty(_ context.Context, _ string) error { return nil }

func (m *mockLeaseService) CreateLease(_ context.Context, _ *domain.Lease) error { return nil }

func (m *mockLeaseService) UpdateLease(_ context.Context, _ *domain.Lease) error { return nil }

func (m *mockLeaseService) GetLease(_ context.Context, id string) (*domain.LeaseDetail, error) {
	for i := range m.leases {
		if m.leases[i].Lease.ID == id {
			return &m.leases[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLeaseService) ListLeases(_ context.Context, _ string) ([]domain.LeaseDetail, error) {
	return m.leases, nil
}

func (m *mockLeaseService) DeleteLease(_ context.Context, _ string) error { return nil }

func (m *mockLeaseService) Import(
	_ context.Context, _ *domain.ImportManifest, _ driving.ImportProgressFunc,
) (*domain.ImportReport, error) {
	return &domain.ImportReport{}, nil
}

var (
	_ driving.QueryService = (*mockQueryService)(nil)
	_ driving.LeaseService = (*mockLeaseService)(nil)
)

func newTestPorts() *Ports {
	return NewPorts(&mockQueryService{}, &mockLeaseService{
		leases: []domain.LeaseDetail{{
			Lease:       domain.Lease{ID: "l1", PropertyID: "p1", TenantName: "Acme Ltd"},
			Property:    domain.Property{ID: "p1", Name: "Harbour Point"},
			ClauseCount: 12,
		}},
	})
}
