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

// Ensure clauseStore implements the interfaces.
var (
	_ driven.ClauseStore    = (*clauseStore)(nil)
	_ driven.ClauseReplacer = (*clauseStore)(nil)
)

// clauseStore persists classified, embedded clauses.
type clauseStore struct {
	db *sql.DB
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

const insertClause = `
	INSERT INTO clauses (id, lease_id, text, topic, responsible_party, section_label,
		page_number, confidence, position, embedding, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		lease_id = excluded.lease_id,
		text = excluded.text,
		topic = excluded.topic,
		responsible_party = excluded.responsible_party,
		section_label = excluded.section_label,
		page_number = excluded.page_number,
		confidence = excluded.confidence,
		position = excluded.position,
		embedding = excluded.embedding
`

// SaveClause creates or replaces one clause as a single row write.
func (s *clauseStore) SaveClause(ctx context.Context, clause *domain.Clause) error {
	if clause == nil {
		return domain.ErrInvalidInput
	}
	if err := clause.Validate(); err != nil {
		return err
	}
	stmt, err := s.db.PrepareContext(ctx, insertClause)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()
	return execClause(ctx, stmt, clause)
}

// SaveClauses creates many clauses in one transaction.
func (s *clauseStore) SaveClauses(ctx context.Context, clauses []domain.Clause) error {
	for i := range clauses {
		if err := clauses[i].Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertClauses(ctx, tx, clauses); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteClausesByLease removes every clause of a lease.
func (s *clauseStore) DeleteClausesByLease(ctx context.Context, leaseID string) (int, error) {
	return deleteLeaseClauses(ctx, s.db, leaseID)
}

// ReplaceLeaseClauses deletes and recreates a lease's clauses in one
// transaction, so readers see either the old or the new set.
func (s *clauseStore) ReplaceLeaseClauses(ctx context.Context, leaseID string, clauses []domain.Clause) (int, error) {
	for i := range clauses {
		if err := clauses[i].Validate(); err != nil {
			return 0, err
		}
		if clauses[i].LeaseID != leaseID {
			return 0, domain.ErrInvalidInput
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	deleted, err := deleteLeaseClauses(ctx, tx, leaseID)
	if err != nil {
		return 0, err
	}
	if err := insertClauses(ctx, tx, clauses); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return deleted, nil
}

// FindClauses returns matching clauses joined with their lease and
// property, ordered by creation time, position and ID.
func (s *clauseStore) FindClauses(ctx context.Context, filter domain.ClauseFilter) ([]domain.ClauseView, error) {
	var where []string
	var args []any

	if filter.LeaseID != "" {
		where = append(where, "c.lease_id = ?")
		args = append(args, filter.LeaseID)
	}
	if filter.PropertyID != "" {
		where = append(where, "l.property_id = ?")
		args = append(args, filter.PropertyID)
	}
	if tenant := strings.TrimSpace(filter.TenantName); tenant != "" {
		where = append(where, "l.tenant_name = ? COLLATE NOCASE")
		args = append(args, tenant)
	}
	if len(filter.Topics) > 0 {
		marks := make([]string, len(filter.Topics))
		for i, t := range filter.Topics {
			marks[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "c.topic IN ("+strings.Join(marks, ", ")+")")
	}
	if filter.ResponsibleParty != "" {
		where = append(where, "c.responsible_party = ?")
		args = append(args, string(filter.ResponsibleParty))
	}

	query := `
		SELECT c.id, c.lease_id, c.text, c.topic, c.responsible_party, c.section_label,
			c.page_number, c.confidence, c.position, c.embedding, c.created_at,
			p.id, p.name, l.tenant_name
		FROM clauses c
		JOIN leases l ON l.id = c.lease_id
		JOIN properties p ON p.id = l.property_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY c.created_at, c.position, c.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying clauses: %w", err)
	}
	defer rows.Close()

	var result []domain.ClauseView //nolint:prealloc // size unknown from query
	for rows.Next() {
		var v domain.ClauseView
		var topic, party string
		var page sql.NullInt64
		var blob []byte
		c := &v.Clause
		if err := rows.Scan(&c.ID, &c.LeaseID, &c.Text, &topic, &party, &c.SectionLabel,
			&page, &c.Confidence, &c.Position, &blob, &c.CreatedAt,
			&v.PropertyID, &v.PropertyName, &v.TenantName); err != nil {
			return nil, fmt.Errorf("scanning clause: %w", err)
		}
		// Labels are checked on write; anything else read back collapses.
		c.Topic = domain.ParseTopic(topic)
		c.ResponsibleParty = domain.ParseResponsibleParty(party)
		c.PageNumber = intPtr(page)
		c.Embedding = bytesToFloat32Slice(blob)
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating clauses: %w", err)
	}
	return result, nil
}

// CountClauses returns the number of clauses for a lease.
func (s *clauseStore) CountClauses(ctx context.Context, leaseID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clauses WHERE lease_id = ?`, leaseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting clauses: %w", err)
	}
	return n, nil
}

func deleteLeaseClauses(ctx context.Context, db execer, leaseID string) (int, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM clauses WHERE lease_id = ?`, leaseID)
	if err != nil {
		return 0, fmt.Errorf("deleting clauses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func insertClauses(ctx context.Context, db execer, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}
	stmt, err := db.PrepareContext(ctx, insertClause)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range clauses {
		if err := execClause(ctx, stmt, &clauses[i]); err != nil {
			return err
		}
	}
	return nil
}

func execClause(ctx context.Context, stmt *sql.Stmt, c *domain.Clause) error {
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := stmt.ExecContext(ctx, c.ID, c.LeaseID, c.Text, string(c.Topic), string(c.ResponsibleParty),
		c.SectionLabel, nullInt(c.PageNumber), c.Confidence, c.Position,
		float32SliceToBytes(c.Embedding), createdAt.UTC()); err != nil {
		return fmt.Errorf("saving clause %s: %w", c.ID, err)
	}
	return nil
}
