package domain

import "time"

// Property is a building or site that owns zero or more leases.
type Property struct {
	// ID is the unique identifier for the property.
	ID string

	// Name is the display name, unique case-insensitively by convention.
	Name string

	// Address is the free-form street address.
	Address string

	// CreatedAt is when the property was registered.
	CreatedAt time.Time

	// UpdatedAt is when the property was last modified.
	UpdatedAt time.Time
}

// Lease is a tenancy agreement for one property.
// The ID is immutable once created; business fields are mutable.
type Lease struct {
	// ID is the unique identifier for the lease.
	ID string

	// PropertyID links to the owning Property.
	PropertyID string

	// TenantName identifies the tenant.
	TenantName string

	// StartDate is the commencement date (zero if unknown).
	StartDate time.Time

	// EndDate is the expiration date (zero if unknown).
	EndDate time.Time

	// MonthlyRent is the base rent per month in the lease currency.
	MonthlyRent float64

	// Notes holds free-form remarks.
	Notes string

	// CreatedAt is when the lease was registered.
	CreatedAt time.Time

	// UpdatedAt is when the lease was last modified.
	UpdatedAt time.Time
}

// Validate checks required lease fields.
func (l *Lease) Validate() error {
	if l.PropertyID == "" || l.TenantName == "" {
		return ErrInvalidInput
	}
	if !l.StartDate.IsZero() && !l.EndDate.IsZero() && l.EndDate.Before(l.StartDate) {
		return ErrInvalidInput
	}
	if l.MonthlyRent < 0 {
		return ErrInvalidInput
	}
	return nil
}

// LeaseDetail is a lease joined with its property for display.
type LeaseDetail struct {
	Lease    Lease
	Property Property

	// ClauseCount is the number of indexed clauses.
	ClauseCount int
}
