package mcp

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer  *domain.Answer
	err     error
	lastReq domain.QueryRequest
}

func (m *mockQueryService) Ask(_ context.Context, req domain.QueryRequest) (*domain.Answer, error) {
	m.lastReq = req
	return m.answer, m.err
}

// mockSearchService is a mock implementation of driving.ClauseSearchService.
type mockSearchService struct {
	hits    []domain.ClauseHit
	err     error
	lastReq domain.ClauseSearchRequest
}

func (m *mockSearchService) Search(_ context.Context, req domain.ClauseSearchRequest) ([]domain.ClauseHit, error) {
	m.lastReq = req
	return m.hits, m.err
}

// mockLeaseService is a mock implementation of driving.LeaseService.
type mockLeaseService struct {
	details        []domain.LeaseDetail
	detail         *domain.LeaseDetail
	err            error
	lastPropertyID string
}

func (m *mockLeaseService) CreateProperty(_ context.Context, _, _ string) (*domain.Property, error) {
	return nil, m.err
}

func (m *mockLeaseService) GetProperty(_ context.Context, _ string) (*domain.Property, error) {
	return nil, m.err
}

func (m *mockLeaseService) ListProperties(_ context.Context) ([]domain.Property, error) {
	return nil, m.err
}

func (m *mockLeaseService) DeleteProperty(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLeaseService) CreateLease(_ context.Context, _ *domain.Lease) error {
	return m.err
}

func (m *mockLeaseService) UpdateLease(_ context.Context, _ *domain.Lease) error {
	return m.err
}

func (m *mockLeaseService) GetLease(_ context.Context, _ string) (*domain.LeaseDetail, error) {
	return m.detail, m.err
}

func (m *mockLeaseService) ListLeases(_ context.Context, propertyID string) ([]domain.LeaseDetail, error) {
	m.lastPropertyID = propertyID
	return m.details, m.err
}

func (m *mockLeaseService) DeleteLease(_ context.Context, _ string) error {
	return m.err
}

func (m *mockLeaseService) Import(
	_ context.Context,
	_ *domain.ImportManifest,
	_ driving.ImportProgressFunc,
) (*domain.ImportReport, error) {
	return nil, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) Upload(_ context.Context, _ string, _ *domain.RawDocument) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) GetChunks(_ context.Context, _ string) ([]domain.DocumentChunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Ask(_ context.Context, _, _ string) (*domain.Answer, error) {
	return nil, m.err
}

// Compile-time interface checks.
var (
	_ driving.QueryService        = (*mockQueryService)(nil)
	_ driving.ClauseSearchService = (*mockSearchService)(nil)
	_ driving.LeaseService        = (*mockLeaseService)(nil)
	_ driving.DocumentService     = (*mockDocumentService)(nil)
)

func newTestServer(ports *Ports) *Server {
	if ports.Query == nil {
		ports.Query = &mockQueryService{}
	}
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	server, err := NewServer(ports)
	if err != nil {
		panic(err)
	}
	return server
}
