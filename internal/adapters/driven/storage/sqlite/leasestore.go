package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// Ensure LeaseStore implements the interfaces.
var (
	_ driven.PropertyStore = (*LeaseStore)(nil)
	_ driven.LeaseStore    = (*LeaseStore)(nil)
)

// LeaseStore persists properties and leases.
type LeaseStore struct {
	db *sql.DB
}

const propertyColumns = `id, name, address, created_at, updated_at`

// SaveProperty creates or updates a property.
func (s *LeaseStore) SaveProperty(ctx context.Context, property *domain.Property) error {
	if property == nil || property.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if property.CreatedAt.IsZero() {
		property.CreatedAt = now
	}
	if property.UpdatedAt.IsZero() {
		property.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			updated_at = excluded.updated_at
	`, property.ID, property.Name, property.Address, property.CreatedAt.UTC(), property.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving property: %w", err)
	}
	return nil
}

// GetProperty retrieves a property by ID.
func (s *LeaseStore) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	return scanProperty(row)
}

// FindPropertyByName returns the property whose name matches case-insensitively.
func (s *LeaseStore) FindPropertyByName(ctx context.Context, name string) (*domain.Property, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE name = ? COLLATE NOCASE
		ORDER BY created_at, id LIMIT 1
	`, strings.TrimSpace(name))
	return scanProperty(row)
}

// ListProperties returns all properties ordered by name.
func (s *LeaseStore) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties
		ORDER BY name COLLATE NOCASE, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	result := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating properties: %w", err)
	}
	return result, nil
}

// DeleteProperty removes a property that no lease references.
func (s *LeaseStore) DeleteProperty(ctx context.Context, id string) error {
	var leases int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leases WHERE property_id = ?`, id).Scan(&leases); err != nil {
		return fmt.Errorf("counting leases: %w", err)
	}
	if leases > 0 {
		return fmt.Errorf("delete property %s: %w: property still has leases", id, domain.ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	return requireAffected(res)
}

const leaseColumns = `id, property_id, tenant_name, start_date, end_date, monthly_rent, notes, created_at, updated_at`

// SaveLease creates or updates a lease. The property must exist.
func (s *LeaseStore) SaveLease(ctx context.Context, lease *domain.Lease) error {
	if lease == nil || lease.ID == "" {
		return domain.ErrInvalidInput
	}
	if _, err := s.GetProperty(ctx, lease.PropertyID); err != nil {
		return fmt.Errorf("save lease %s: property %s: %w", lease.ID, lease.PropertyID, err)
	}

	now := time.Now().UTC()
	if lease.CreatedAt.IsZero() {
		lease.CreatedAt = now
	}
	if lease.UpdatedAt.IsZero() {
		lease.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leases (`+leaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			property_id = excluded.property_id,
			tenant_name = excluded.tenant_name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			monthly_rent = excluded.monthly_rent,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, lease.ID, lease.PropertyID, lease.TenantName, nullTime(lease.StartDate), nullTime(lease.EndDate),
		lease.MonthlyRent, lease.Notes, lease.CreatedAt.UTC(), lease.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving lease: %w", err)
	}
	return nil
}

// GetLease retrieves a lease by ID.
func (s *LeaseStore) GetLease(ctx context.Context, id string) (*domain.Lease, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+leaseColumns+` FROM leases WHERE id = ?`, id)
	return scanLease(row)
}

// ListLeases returns leases ordered by creation time, optionally for one property.
func (s *LeaseStore) ListLeases(ctx context.Context, propertyID string) ([]domain.Lease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+leaseColumns+` FROM leases
		WHERE ? = '' OR property_id = ?
		ORDER BY created_at, id
	`, propertyID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying leases: %w", err)
	}
	defer rows.Close()

	var result []domain.Lease //nolint:prealloc // size unknown from query
	for rows.Next() {
		l, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leases: %w", err)
	}
	return result, nil
}

// DeleteLease removes a lease. Its clauses and documents go with it.
func (s *LeaseStore) DeleteLease(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting lease: %w", err)
	}
	return requireAffected(res)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(row scanner) (*domain.Property, error) {
	var p domain.Property
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func scanLease(row scanner) (*domain.Lease, error) {
	var l domain.Lease
	var start, end sql.NullTime
	if err := row.Scan(&l.ID, &l.PropertyID, &l.TenantName, &start, &end,
		&l.MonthlyRent, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	if start.Valid {
		l.StartDate = start.Time
	}
	if end.Valid {
		l.EndDate = end.Time
	}
	return &l, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
