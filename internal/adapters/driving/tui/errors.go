package tui

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("tui: query service is required")

// ErrMissingLeaseService is returned when the lease service is not provided.
var ErrMissingLeaseService = errors.New("tui: lease service is required")
