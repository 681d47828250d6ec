package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for leaserag resources.
	uriScheme = "lease://"

	dateLayout = "2006-01-02"
)

// registerResources registers all resource handlers with the MCP server.
// Resources are read-only views and need the lease port.
func (s *Server) registerResources() {
	if s.ports.Lease == nil {
		return
	}

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "leases",
		Name:        "leases",
		Description: "All leases with property, tenant and clause count",
		MIMEType:    "application/json",
	}, s.handleLeasesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "leases/{leaseId}",
		Name:        "lease",
		Description: "One lease with its property and uploaded documents",
		MIMEType:    "application/json",
	}, s.handleLeaseResource)

	if s.ports.Document != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "documents/{documentId}",
			Name:        "document-content",
			Description: "Normalised text of an uploaded lease document",
			MIMEType:    "text/plain",
		}, s.handleDocumentContentResource)
	}
}

// handleLeasesResource returns every lease.
func (s *Server) handleLeasesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	details, err := s.ports.Lease.ListLeases(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing leases: %w", err)
	}

	leases := make([]LeaseOutput, len(details))
	for i := range details {
		leases[i] = leaseOutput(&details[i])
	}
	return jsonResult(req.Params.URI, leases)
}

type documentInfo struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	Title    string `json:"title"`
	MIMEType string `json:"mime_type"`
	URI      string `json:"uri"`
}

type leaseResource struct {
	LeaseOutput
	PropertyAddress string         `json:"property_address,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Documents       []documentInfo `json:"documents"`
}

// handleLeaseResource returns one lease with its documents.
func (s *Server) handleLeaseResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	leaseID := extractLeaseID(req.Params.URI)
	if leaseID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	detail, err := s.ports.Lease.GetLease(ctx, leaseID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting lease: %w", err)
	}

	res := leaseResource{
		LeaseOutput:     leaseOutput(detail),
		PropertyAddress: detail.Property.Address,
		Notes:           detail.Lease.Notes,
		Documents:       []documentInfo{},
	}

	if s.ports.Document != nil {
		docs, err := s.ports.Document.List(ctx, leaseID)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		for i := range docs {
			res.Documents = append(res.Documents, documentInfo{
				ID:       docs[i].ID,
				FileName: docs[i].FileName,
				Title:    docs[i].Title,
				MIMEType: docs[i].MIMEType,
				URI:      uriScheme + "documents/" + docs[i].ID,
			})
		}
	}

	return jsonResult(req.Params.URI, res)
}

// handleDocumentContentResource returns the text of one document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLeaseID extracts the lease ID from a URI like lease://leases/{leaseId}.
func extractLeaseID(uri string) string {
	return extractSegment(uri, uriScheme+"leases/")
}

// extractDocumentID extracts the document ID from a URI like lease://documents/{documentId}.
func extractDocumentID(uri string) string {
	return extractSegment(uri, uriScheme+"documents/")
}

func extractSegment(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
