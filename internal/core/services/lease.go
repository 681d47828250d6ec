package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// Ensure LeaseService implements the interface.
var _ driving.LeaseService = (*LeaseService)(nil)

// LeaseService manages properties and leases.
type LeaseService struct {
	properties driven.PropertyStore
	leases     driven.LeaseStore
	clauses    driven.ClauseStore
	documents  driven.DocumentStore
	indexer    driving.IndexingService
	docService driving.DocumentService
}

// NewLeaseService creates a new lease service. documents may be nil.
func NewLeaseService(
	properties driven.PropertyStore,
	leases driven.LeaseStore,
	clauses driven.ClauseStore,
	documents driven.DocumentStore,
) *LeaseService {
	return &LeaseService{
		properties: properties,
		leases:     leases,
		clauses:    clauses,
		documents:  documents,
	}
}

// SetIndexer sets the service used to index documents during Import.
func (s *LeaseService) SetIndexer(indexer driving.IndexingService) {
	s.indexer = indexer
}

// SetDocumentService sets the service that stores imported documents for
// whole-document Q&A.
func (s *LeaseService) SetDocumentService(docs driving.DocumentService) {
	s.docService = docs
}

// CreateProperty registers a new property. Names are unique case-insensitively.
func (s *LeaseService) CreateProperty(ctx context.Context, name, address string) (*domain.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create property: %w: name is required", domain.ErrInvalidInput)
	}
	if _, err := s.properties.FindPropertyByName(ctx, name); err == nil {
		return nil, fmt.Errorf("create property %q: %w", name, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find property %q: %w", name, err)
	}
	return s.newProperty(ctx, "", name, address)
}

func (s *LeaseService) newProperty(ctx context.Context, id, name, address string) (*domain.Property, error) {
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	p := &domain.Property{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Address:   strings.TrimSpace(address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.properties.SaveProperty(ctx, p); err != nil {
		return nil, fmt.Errorf("save property: %w", err)
	}
	return p, nil
}

// GetProperty retrieves a property by ID.
func (s *LeaseService) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	return s.properties.GetProperty(ctx, id)
}

// ListProperties returns all properties.
func (s *LeaseService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.properties.ListProperties(ctx)
}

// DeleteProperty removes a property that has no leases.
func (s *LeaseService) DeleteProperty(ctx context.Context, id string) error {
	leases, err := s.leases.ListLeases(ctx, id)
	if err != nil {
		return fmt.Errorf("list leases: %w", err)
	}
	if len(leases) > 0 {
		return fmt.Errorf("delete property %s: %w: %d leases reference it", id, domain.ErrInvalidInput, len(leases))
	}
	if err := s.properties.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}

// CreateLease validates and stores a new lease.
func (s *LeaseService) CreateLease(ctx context.Context, lease *domain.Lease) error {
	if lease == nil {
		return domain.ErrInvalidInput
	}
	lease.TenantName = strings.TrimSpace(lease.TenantName)
	if err := lease.Validate(); err != nil {
		return fmt.Errorf("create lease: %w", err)
	}
	if _, err := s.properties.GetProperty(ctx, lease.PropertyID); err != nil {
		return fmt.Errorf("create lease: property %s: %w", lease.PropertyID, err)
	}
	if lease.ID == "" {
		lease.ID = uuid.New().String()
	} else if _, err := s.leases.GetLease(ctx, lease.ID); err == nil {
		return fmt.Errorf("create lease %s: %w", lease.ID, domain.ErrAlreadyExists)
	}
	now := time.Now()
	lease.CreatedAt = now
	lease.UpdatedAt = now
	if err := s.leases.SaveLease(ctx, lease); err != nil {
		return fmt.Errorf("save lease: %w", err)
	}
	return nil
}

// UpdateLease changes the business fields of an existing lease. The ID and
// creation time are kept.
func (s *LeaseService) UpdateLease(ctx context.Context, lease *domain.Lease) error {
	if lease == nil {
		return domain.ErrInvalidInput
	}
	existing, err := s.leases.GetLease(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("get lease %s: %w", lease.ID, err)
	}
	lease.TenantName = strings.TrimSpace(lease.TenantName)
	if err := lease.Validate(); err != nil {
		return fmt.Errorf("update lease: %w", err)
	}
	if lease.PropertyID != existing.PropertyID {
		if _, err := s.properties.GetProperty(ctx, lease.PropertyID); err != nil {
			return fmt.Errorf("update lease: property %s: %w", lease.PropertyID, err)
		}
	}
	lease.CreatedAt = existing.CreatedAt
	lease.UpdatedAt = time.Now()
	if err := s.leases.SaveLease(ctx, lease); err != nil {
		return fmt.Errorf("save lease: %w", err)
	}
	return nil
}

// GetLease returns a lease joined with its property and clause count.
func (s *LeaseService) GetLease(ctx context.Context, id string) (*domain.LeaseDetail, error) {
	lease, err := s.leases.GetLease(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lease %s: %w", id, err)
	}
	return s.detail(ctx, *lease)
}

// ListLeases returns leases with details, optionally for one property.
func (s *LeaseService) ListLeases(ctx context.Context, propertyID string) ([]domain.LeaseDetail, error) {
	leases, err := s.leases.ListLeases(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	result := make([]domain.LeaseDetail, 0, len(leases))
	for _, l := range leases {
		d, err := s.detail(ctx, l)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, nil
}

func (s *LeaseService) detail(ctx context.Context, lease domain.Lease) (*domain.LeaseDetail, error) {
	d := &domain.LeaseDetail{Lease: lease}
	if p, err := s.properties.GetProperty(ctx, lease.PropertyID); err == nil {
		d.Property = *p
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get property %s: %w", lease.PropertyID, err)
	}
	n, err := s.clauses.CountClauses(ctx, lease.ID)
	if err != nil {
		return nil, fmt.Errorf("count clauses: %w", err)
	}
	d.ClauseCount = n
	return d, nil
}

// DeleteLease removes the lease's clauses, documents and then the lease.
func (s *LeaseService) DeleteLease(ctx context.Context, id string) error {
	if _, err := s.leases.GetLease(ctx, id); err != nil {
		return fmt.Errorf("get lease %s: %w", id, err)
	}
	n, err := s.clauses.DeleteClausesByLease(ctx, id)
	if err != nil {
		return fmt.Errorf("delete clauses: %w", err)
	}
	logger.Debug("deleted %d clauses of lease %s", n, id)

	if s.documents != nil {
		docs, err := s.documents.ListDocuments(ctx, id)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		for _, d := range docs {
			if err := s.documents.DeleteDocument(ctx, d.ID); err != nil {
				return fmt.Errorf("delete document %s: %w", d.ID, err)
			}
		}
	}

	if err := s.leases.DeleteLease(ctx, id); err != nil {
		return fmt.Errorf("delete lease %s: %w", id, err)
	}
	return nil
}

// propertyResolver matches manifest references to properties.
type propertyResolver struct {
	svc    *LeaseService
	byName map[string]string
	report *domain.ImportReport
}

// resolve returns the property id for an explicit id or a name, creating
// the property when the name is unknown.
func (r *propertyResolver) resolve(ctx context.Context, id, name, address string) (string, error) {
	if id != "" {
		if _, err := r.svc.properties.GetProperty(ctx, id); err == nil {
			return id, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		if strings.TrimSpace(name) == "" {
			return "", fmt.Errorf("property %s: %w", id, domain.ErrNotFound)
		}
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", fmt.Errorf("%w: lease has neither property id nor property name", domain.ErrInvalidInput)
	}
	if pid, ok := r.byName[key]; ok {
		return pid, nil
	}

	existing, err := r.svc.properties.FindPropertyByName(ctx, name)
	switch {
	case err == nil:
		r.byName[key] = existing.ID
		r.report.PropertiesMatched++
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return "", err
	}

	p, err := r.svc.newProperty(ctx, id, name, address)
	if err != nil {
		return "", err
	}
	r.byName[key] = p.ID
	r.report.PropertiesCreated++
	return p.ID, nil
}

// Import creates the manifest's properties and leases, then indexes any
// attached documents. Per-entry failures are collected in the report; only
// context cancellation aborts the import.
func (s *LeaseService) Import(
	ctx context.Context,
	manifest *domain.ImportManifest,
	progress driving.ImportProgressFunc,
) (*domain.ImportReport, error) {
	if manifest == nil {
		return nil, domain.ErrInvalidInput
	}
	report := &domain.ImportReport{}
	resolver := &propertyResolver{svc: s, byName: make(map[string]string), report: report}

	for _, p := range manifest.Properties {
		if _, err := resolver.resolve(ctx, p.ID, p.Name, p.Address); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("property %q: %v", p.Name, err))
		}
	}

	total := len(manifest.Leases)
	for i, entry := range manifest.Leases {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		label := entry.TenantName
		if err := s.importLease(ctx, resolver, entry, report); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("lease %q: %v", label, err))
			logger.Warn("import lease %q: %v", label, err)
		}
		if progress != nil {
			progress(i+1, total, label)
		}
	}
	return report, nil
}

func (s *LeaseService) importLease(
	ctx context.Context,
	resolver *propertyResolver,
	entry domain.ImportLease,
	report *domain.ImportReport,
) error {
	propertyID, err := resolver.resolve(ctx, entry.PropertyID, entry.PropertyName, "")
	if err != nil {
		return err
	}

	lease := &domain.Lease{
		PropertyID:  propertyID,
		TenantName:  entry.TenantName,
		StartDate:   entry.StartDate,
		EndDate:     entry.EndDate,
		MonthlyRent: entry.MonthlyRent,
		Notes:       entry.Notes,
	}
	if err := s.CreateLease(ctx, lease); err != nil {
		return err
	}
	report.LeasesCreated++

	if len(entry.Documents) == 0 {
		return nil
	}
	if s.indexer == nil {
		return errors.New("documents listed but no indexer configured")
	}
	summary, err := s.indexer.IndexLease(ctx, lease.ID, entry.Documents...)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	report.Summaries = append(report.Summaries, *summary)

	if s.docService != nil {
		for i := range entry.Documents {
			if _, err := s.docService.Upload(ctx, lease.ID, &entry.Documents[i]); err != nil {
				return fmt.Errorf("store document %s: %w", entry.Documents[i].FileName, err)
			}
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.Format("2006-01-02")
}
