package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestExtractLeaseID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid lease URI", uri: "lease://leases/lease-123", expected: "lease-123"},
		{name: "invalid prefix", uri: "file://leases/lease-123", expected: ""},
		{name: "nested path", uri: "lease://leases/lease-123/clauses", expected: ""},
		{name: "list URI", uri: "lease://leases", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractLeaseID(tt.uri))
		})
	}
}

func TestExtractDocumentID(t *testing.T) {
	assert.Equal(t, "doc-456", extractDocumentID("lease://documents/doc-456"))
	assert.Empty(t, extractDocumentID("lease://leases/doc-456"))
	assert.Empty(t, extractDocumentID(""))
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleLeasesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns leases as JSON", func(t *testing.T) {
		leases := &mockLeaseService{details: []domain.LeaseDetail{{
			Lease:    domain.Lease{ID: "lease-1", TenantName: "Acme Ltd"},
			Property: domain.Property{ID: "prop-1", Name: "Harbour Point"},
		}}}
		server := newTestServer(&Ports{Lease: leases})

		result, err := server.handleLeasesResource(ctx, makeReadResourceRequest("lease://leases"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []LeaseOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Harbour Point", got[0].PropertyName)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(&Ports{Lease: &mockLeaseService{err: errors.New("database error")}})

		_, err := server.handleLeasesResource(ctx, makeReadResourceRequest("lease://leases"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing leases")
	})
}

func TestServer_handleLeaseResource(t *testing.T) {
	ctx := context.Background()
	detail := &domain.LeaseDetail{
		Lease:       domain.Lease{ID: "lease-1", TenantName: "Acme Ltd", Notes: "Anchor tenant"},
		Property:    domain.Property{ID: "prop-1", Name: "Harbour Point", Address: "1 Quay Street"},
		ClauseCount: 7,
	}

	t.Run("includes documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{{
			ID: "doc-1", FileName: "lease.pdf", Title: "lease", MIMEType: "application/pdf",
		}}}
		server := newTestServer(&Ports{Lease: &mockLeaseService{detail: detail}, Document: docs})

		result, err := server.handleLeaseResource(ctx, makeReadResourceRequest("lease://leases/lease-1"))

		require.NoError(t, err)
		var got leaseResource
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, "lease-1", got.ID)
		assert.Equal(t, "1 Quay Street", got.PropertyAddress)
		assert.Equal(t, "Anchor tenant", got.Notes)
		assert.Equal(t, 7, got.ClauseCount)
		require.Len(t, got.Documents, 1)
		assert.Equal(t, "lease://documents/doc-1", got.Documents[0].URI)
	})

	t.Run("without document port lists no documents", func(t *testing.T) {
		server := newTestServer(&Ports{Lease: &mockLeaseService{detail: detail}})

		result, err := server.handleLeaseResource(ctx, makeReadResourceRequest("lease://leases/lease-1"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"documents": []`)
	})

	t.Run("unknown lease is resource not found", func(t *testing.T) {
		leases := &mockLeaseService{err: domain.ErrNotFound}
		server := newTestServer(&Ports{Lease: leases})

		_, err := server.handleLeaseResource(ctx, makeReadResourceRequest("lease://leases/missing"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid URI returns error", func(t *testing.T) {
		server := newTestServer(&Ports{Lease: &mockLeaseService{detail: detail}})

		_, err := server.handleLeaseResource(ctx, makeReadResourceRequest("lease://invalid"))

		require.Error(t, err)
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document text", func(t *testing.T) {
		docs := &mockDocumentService{document: &domain.Document{ID: "doc-1", Content: "ARTICLE 1. TERM"}}
		server := newTestServer(&Ports{Lease: &mockLeaseService{}, Document: docs})

		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("lease://documents/doc-1"))

		require.NoError(t, err)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "ARTICLE 1. TERM", result.Contents[0].Text)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("io error")}
		server := newTestServer(&Ports{Lease: &mockLeaseService{}, Document: docs})

		_, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("lease://documents/doc-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document")
	})
}
