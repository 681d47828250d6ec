package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

func TestLeaseCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range leaseCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"add", "list", "show", "update", "remove"}, names)
}

func TestLeaseAdd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	_, err := execute(t, "property", "add", "Harbour Point")
	require.NoError(t, err)

	out, err := execute(t, "lease", "add",
		"--property", "harbour point",
		"--tenant", "Acme Ltd",
		"--start", "2024-01-01",
		"--end", "2029-12-31",
		"--rent", "12500",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Lease added: Harbour Point - Acme Ltd")

	leases, err := leaseService.ListLeases(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, leases, 1)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), leases[0].Lease.StartDate)
	assert.InDelta(t, 12500, leases[0].Lease.MonthlyRent, 1e-9)
}

func TestLeaseAdd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing tenant", []string{"lease", "add", "--property", "x"}, "--property and --tenant are required"},
		{"unknown property", []string{"lease", "add", "--property", "Nowhere", "--tenant", "A"}, "failed to find property"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags()
			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLeaseAdd_BadDate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	_, err := execute(t, "property", "add", "Harbour Point")
	require.NoError(t, err)

	_, err = execute(t, "lease", "add", "--property", "Harbour Point", "--tenant", "A", "--start", "01/02/2024")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLeaseListAndShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	detail := seedLease("Tenant shall keep the roof in good repair at its own cost and expense.")

	out, err := execute(t, "lease", "list")
	require.NoError(t, err)
	assert.Contains(t, out, detail.Lease.ID)
	assert.Contains(t, out, "Harbour Point - Acme Ltd")
	assert.Contains(t, out, "Term: open to open")
	assert.Contains(t, out, "Clauses: 1")

	out, err = execute(t, "lease", "show", detail.Lease.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Tenant:    Acme Ltd")
	assert.Contains(t, out, "Address:   1 Quay Street")
	assert.Contains(t, out, "12500.00 / month")
}

func TestLeaseUpdate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	detail := seedLease()

	out, err := execute(t, "lease", "update", detail.Lease.ID, "--rent", "9000", "--notes", "renegotiated")
	require.NoError(t, err)
	assert.Contains(t, out, "updated")

	got, err := leaseService.GetLease(context.Background(), detail.Lease.ID)
	require.NoError(t, err)
	assert.InDelta(t, 9000, got.Lease.MonthlyRent, 1e-9)
	assert.Equal(t, "renegotiated", got.Lease.Notes)
	assert.Equal(t, "Acme Ltd", got.Lease.TenantName, "unchanged fields are kept")
}

func TestLeaseRemove(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer resetFlags()

	detail := seedLease("Tenant shall keep the roof in good repair at its own cost and expense.")

	out, err := execute(t, "lease", "remove", detail.Lease.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	_, err = leaseService.GetLease(context.Background(), detail.Lease.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := testEnv.clauses.CountClauses(context.Background(), detail.Lease.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestParseDateFlag(t *testing.T) {
	d, err := parseDateFlag("start", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = parseDateFlag("start", "2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d)

	_, err = parseDateFlag("end", "2025/03/04")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "--end")
}
