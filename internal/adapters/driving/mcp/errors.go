// Package mcp provides an MCP (Model Context Protocol) server adapter for leaserag.
// It lets AI assistants ask questions about indexed leases and search their clauses.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingSearchService is returned when the clause search service is not provided.
var ErrMissingSearchService = errors.New("mcp: clause search service is required")
