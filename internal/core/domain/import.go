package domain

import "time"

// ImportManifest describes properties and leases to create in bulk.
type ImportManifest struct {
	Properties []ImportProperty
	Leases     []ImportLease
}

// ImportProperty is a property entry in a manifest.
type ImportProperty struct {
	// ID, when set, must match an existing property or is used for the new one.
	ID      string
	Name    string
	Address string
}

// ImportLease is a lease entry in a manifest.
type ImportLease struct {
	TenantName string

	// PropertyID takes precedence over PropertyName.
	PropertyID string

	// PropertyName is matched case-insensitively against existing and
	// manifest properties; an unmatched name creates a property.
	PropertyName string

	StartDate   time.Time
	EndDate     time.Time
	MonthlyRent float64
	Notes       string

	// Documents are indexed as the lease's clause source once it exists.
	Documents []RawDocument
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	PropertiesCreated int
	PropertiesMatched int
	LeasesCreated     int
	Summaries         []IndexSummary
	Errors            []string
}
