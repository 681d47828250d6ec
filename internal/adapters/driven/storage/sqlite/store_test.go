package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

// seedLease creates a property and a lease under it.
func seedLease(t *testing.T, store *Store, propertyID, propertyName, leaseID, tenant string) {
	t.Helper()
	ctx := context.Background()
	leases := store.LeaseStore()
	if _, err := leases.GetProperty(ctx, propertyID); err != nil {
		require.NoError(t, leases.SaveProperty(ctx, &domain.Property{ID: propertyID, Name: propertyName}))
	}
	require.NoError(t, leases.SaveLease(ctx, &domain.Lease{ID: leaseID, PropertyID: propertyID, TenantName: tenant}))
}

func clause(id, leaseID string, pos int, topic domain.Topic, party domain.ResponsibleParty) domain.Clause {
	return domain.Clause{
		ID:               id,
		LeaseID:          leaseID,
		Text:             "clause " + id,
		Topic:            topic,
		ResponsibleParty: party,
		SectionLabel:     "Section " + id,
		Confidence:       0.75,
		Position:         pos,
		Embedding:        []float32{0.5, -1.25, 3},
		CreatedAt:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewStore_MigratesOnce(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var versions int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 1, versions)
	assert.Contains(t, second.Path(), DatabaseFile)
}

func TestFloat32Roundtrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestLeaseStore_Properties(t *testing.T) {
	store := setupTestStore(t)
	leases := store.LeaseStore()
	ctx := context.Background()

	require.NoError(t, leases.SaveProperty(ctx, &domain.Property{ID: "p2", Name: "elm court", Address: "9 Elm Rd"}))
	require.NoError(t, leases.SaveProperty(ctx, &domain.Property{ID: "p1", Name: "Harbor Plaza"}))

	found, err := leases.FindPropertyByName(ctx, "  HARBOR plaza ")
	require.NoError(t, err)
	assert.Equal(t, "p1", found.ID)

	_, err = leases.FindPropertyByName(ctx, "Oak Tower")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := leases.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "elm court", all[0].Name)
	assert.Equal(t, "9 Elm Rd", all[0].Address)

	require.NoError(t, leases.SaveProperty(ctx, &domain.Property{ID: "p1", Name: "Harbor Plaza East"}))
	got, err := leases.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Plaza East", got.Name)

	_, err = leases.GetProperty(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, leases.DeleteProperty(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, leases.SaveProperty(ctx, &domain.Property{}), domain.ErrInvalidInput)
}

func TestLeaseStore_Leases(t *testing.T) {
	store := setupTestStore(t)
	leases := store.LeaseStore()
	ctx := context.Background()
	require.NoError(t, leases.SaveProperty(ctx, &domain.Property{ID: "p1", Name: "Harbor Plaza"}))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lease := &domain.Lease{
		ID:          "l1",
		PropertyID:  "p1",
		TenantName:  "Acme Retail",
		StartDate:   start,
		MonthlyRent: 5000,
		Notes:       "NNN",
	}
	require.NoError(t, leases.SaveLease(ctx, lease))

	got, err := leases.GetLease(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", got.TenantName)
	assert.True(t, got.StartDate.Equal(start))
	assert.True(t, got.EndDate.IsZero())
	assert.Equal(t, 5000.0, got.MonthlyRent)
	assert.False(t, got.CreatedAt.IsZero())

	err = leases.SaveLease(ctx, &domain.Lease{ID: "l2", PropertyID: "nope", TenantName: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = leases.DeleteProperty(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	scoped, err := leases.ListLeases(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
	none, err := leases.ListLeases(ctx, "p9")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, leases.DeleteLease(ctx, "l1"))
	assert.ErrorIs(t, leases.DeleteLease(ctx, "l1"), domain.ErrNotFound)
	require.NoError(t, leases.DeleteProperty(ctx, "p1"))
}

func TestClauseStore_SaveAndFind(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme Retail")
	seedLease(t, store, "p2", "Elm Court", "l2", "Bolt Cafe")
	clauses := store.ClauseStore()
	ctx := context.Background()

	page := 3
	c1 := clause("c1", "l1", 0, domain.TopicRoof, domain.PartyLandlord)
	c1.PageNumber = &page
	require.NoError(t, clauses.SaveClauses(ctx, []domain.Clause{
		c1,
		clause("c2", "l1", 1, domain.TopicHVAC, domain.PartyTenant),
		clause("c3", "l2", 0, domain.TopicRoof, domain.PartyTenant),
	}))

	tests := []struct {
		name    string
		filter  domain.ClauseFilter
		wantIDs []string
	}{
		{name: "all", wantIDs: []string{"c1", "c3", "c2"}},
		{name: "lease", filter: domain.ClauseFilter{LeaseID: "l1"}, wantIDs: []string{"c1", "c2"}},
		{name: "property", filter: domain.ClauseFilter{PropertyID: "p2"}, wantIDs: []string{"c3"}},
		{name: "tenant any case", filter: domain.ClauseFilter{TenantName: " acme retail "}, wantIDs: []string{"c1", "c2"}},
		{name: "topics", filter: domain.ClauseFilter{Topics: []domain.Topic{domain.TopicRoof}}, wantIDs: []string{"c1", "c3"}},
		{
			name:    "topic and party",
			filter:  domain.ClauseFilter{Topics: []domain.Topic{domain.TopicRoof, domain.TopicHVAC}, ResponsibleParty: domain.PartyTenant},
			wantIDs: []string{"c3", "c2"},
		},
		{name: "no match", filter: domain.ClauseFilter{LeaseID: "l9"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := clauses.FindClauses(ctx, tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, v := range views {
				ids = append(ids, v.Clause.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}

	views, err := clauses.FindClauses(ctx, domain.ClauseFilter{LeaseID: "l1"})
	require.NoError(t, err)
	first := views[0]
	assert.Equal(t, "Harbor Plaza", first.PropertyName)
	assert.Equal(t, "p1", first.PropertyID)
	assert.Equal(t, "Acme Retail", first.TenantName)
	assert.Equal(t, []float32{0.5, -1.25, 3}, first.Clause.Embedding)
	require.NotNil(t, first.Clause.PageNumber)
	assert.Equal(t, 3, *first.Clause.PageNumber)
	assert.Nil(t, views[1].Clause.PageNumber)
	assert.Equal(t, domain.TopicRoof, first.Clause.Topic)
	assert.Equal(t, domain.PartyLandlord, first.Clause.ResponsibleParty)

	n, err := clauses.CountClauses(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestClauseStore_SaveClauseValidates(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	clauses := store.ClauseStore()
	ctx := context.Background()

	assert.ErrorIs(t, clauses.SaveClause(ctx, &domain.Clause{ID: "x"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, clauses.SaveClauses(ctx, []domain.Clause{{LeaseID: "l1"}}), domain.ErrInvalidInput)

	c := clause("c1", "l1", 0, domain.TopicRent, domain.PartyTenant)
	require.NoError(t, clauses.SaveClause(ctx, &c))
	c.Text = "updated"
	require.NoError(t, clauses.SaveClause(ctx, &c))

	views, err := clauses.FindClauses(ctx, domain.ClauseFilter{LeaseID: "l1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "updated", views[0].Clause.Text)

	orphan := clause("c2", "missing-lease", 0, domain.TopicRent, domain.PartyTenant)
	assert.Error(t, clauses.SaveClause(ctx, &orphan))
}

func TestClauseStore_RejectsLabelsOutsideVocabulary(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	clauses := store.ClauseStore()
	ctx := context.Background()
	require.NoError(t, clauses.SaveClauses(ctx, []domain.Clause{clause("c1", "l1", 0, domain.TopicRent, domain.PartyTenant)}))

	badTopic := clause("c2", "l1", 1, "hvac stuff", domain.PartyTenant)
	badParty := clause("c3", "l1", 2, domain.TopicHVAC, "the tenant")
	good := clause("c4", "l1", 3, domain.TopicHVAC, domain.PartyTenant)
	replacer := clauses.(driven.ClauseReplacer)

	tests := []struct {
		name  string
		write func() error
	}{
		{"save topic", func() error { return clauses.SaveClause(ctx, &badTopic) }},
		{"save party", func() error { return clauses.SaveClause(ctx, &badParty) }},
		{"save many", func() error { return clauses.SaveClauses(ctx, []domain.Clause{good, badTopic}) }},
		{"replace", func() error {
			_, err := replacer.ReplaceLeaseClauses(ctx, "l1", []domain.Clause{good, badParty})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.write(), domain.ErrInvalidInput)

			views, err := clauses.FindClauses(ctx, domain.ClauseFilter{LeaseID: "l1"})
			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, "c1", views[0].Clause.ID)
		})
	}
}

func TestClauseStore_ReadCollapsesUnknownLabels(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `INSERT INTO clauses (id, lease_id, text, topic, responsible_party, created_at)
		VALUES ('raw', 'l1', 'text', 'hvac stuff', 'the tenant', ?)`, time.Now().UTC())
	require.NoError(t, err)

	views, err := store.ClauseStore().FindClauses(ctx, domain.ClauseFilter{LeaseID: "l1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.TopicOther, views[0].Clause.Topic)
	assert.Equal(t, domain.PartyUnknown, views[0].Clause.ResponsibleParty)
}

func TestClauseStore_ReplaceLeaseClauses(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	seedLease(t, store, "p1", "Harbor Plaza", "l2", "Bolt")
	clauses := store.ClauseStore()
	ctx := context.Background()

	require.NoError(t, clauses.SaveClauses(ctx, []domain.Clause{
		clause("old1", "l1", 0, domain.TopicRent, domain.PartyTenant),
		clause("old2", "l1", 1, domain.TopicRoof, domain.PartyLandlord),
		clause("other", "l2", 0, domain.TopicRoof, domain.PartyLandlord),
	}))

	replacer, ok := clauses.(driven.ClauseReplacer)
	require.True(t, ok)

	deleted, err := replacer.ReplaceLeaseClauses(ctx, "l1", []domain.Clause{
		clause("new1", "l1", 0, domain.TopicHVAC, domain.PartyTenant),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	views, err := clauses.FindClauses(ctx, domain.ClauseFilter{LeaseID: "l1"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "new1", views[0].Clause.ID)

	// A clause for the wrong lease aborts the swap before anything changes.
	_, err = replacer.ReplaceLeaseClauses(ctx, "l1", []domain.Clause{clause("bad", "l2", 0, domain.TopicRent, domain.PartyTenant)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	n, err := clauses.CountClauses(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = clauses.DeleteClausesByLease(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLeaseDeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	ctx := context.Background()

	require.NoError(t, store.ClauseStore().SaveClauses(ctx, []domain.Clause{clause("c1", "l1", 0, domain.TopicRent, domain.PartyTenant)}))
	docs := store.DocumentStore()
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{ID: "d1", LeaseID: "l1", Title: "lease"}))
	require.NoError(t, docs.SaveChunks(ctx, []domain.DocumentChunk{{ID: "k1", DocumentID: "d1", Content: "x"}}))

	require.NoError(t, store.LeaseStore().DeleteLease(ctx, "l1"))

	n, err := store.ClauseStore().CountClauses(ctx, "l1")
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = docs.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	chunks, err := docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestDocumentStore(t *testing.T) {
	store := setupTestStore(t)
	seedLease(t, store, "p1", "Harbor Plaza", "l1", "Acme")
	docs := store.DocumentStore()
	ctx := context.Background()

	doc := &domain.Document{
		ID:       "d1",
		LeaseID:  "l1",
		FileName: "lease.pdf",
		Title:    "lease",
		MIMEType: "application/pdf",
		Content:  "ARTICLE 1 RENT",
		Metadata: map[string]any{"pages": float64(12)},
	}
	require.NoError(t, docs.SaveDocument(ctx, doc))
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{ID: "d2", Title: "loose"}))

	got, err := docs.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.MIMEType)
	assert.Equal(t, float64(12), got.Metadata["pages"])
	assert.False(t, got.CreatedAt.IsZero())

	loose, err := docs.GetDocument(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, loose.LeaseID)
	assert.Nil(t, loose.Metadata)

	page := 2
	require.NoError(t, docs.SaveChunks(ctx, []domain.DocumentChunk{
		{ID: "k2", DocumentID: "d1", Content: "second", Position: 1, PageNumber: &page, Embedding: []float32{1, 2}},
		{ID: "k1", DocumentID: "d1", Content: "first", Position: 0},
	}))
	chunks, err := docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, []float32{1, 2}, chunks[1].Embedding)
	assert.Equal(t, 2, *chunks[1].PageNumber)

	// Saving again replaces the previous chunk set.
	require.NoError(t, docs.SaveChunks(ctx, []domain.DocumentChunk{{ID: "k3", DocumentID: "d1", Content: "only"}}))
	chunks, err = docs.GetChunks(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	forLease, err := docs.ListDocuments(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, forLease, 1)
	all, err := docs.ListDocuments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, docs.DeleteDocument(ctx, "d1"))
	assert.ErrorIs(t, docs.DeleteDocument(ctx, "d1"), domain.ErrNotFound)
	_, err = docs.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
