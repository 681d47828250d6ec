package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const dateLayout = "2006-01-02"

var (
	leaseProperty string
	leaseTenant   string
	leaseStart    string
	leaseEnd      string
	leaseRent     float64
	leaseNotes    string
)

var leaseCmd = &cobra.Command{
	Use:   "lease",
	Short: "Manage leases",
	Long:  `Add, list, show, update, or remove leases.`,
}

var leaseAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a lease to a property",
	Long: `Add a lease to a property. The property may be given by id or name.

Example:
  leaserag lease add --property "Harbour Point" --tenant "Acme Ltd" \
    --start 2024-01-01 --end 2029-12-31 --rent 12500`,
	Args: cobra.NoArgs,
	RunE: runLeaseAdd,
}

var leaseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leases",
	Args:  cobra.NoArgs,
	RunE:  runLeaseList,
}

var leaseShowCmd = &cobra.Command{
	Use:   "show [lease-id]",
	Short: "Show lease details",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaseShow,
}

var leaseUpdateCmd = &cobra.Command{
	Use:   "update [lease-id]",
	Short: "Update lease fields",
	Long:  `Update the fields given as flags. Fields without a flag keep their value.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaseUpdate,
}

var leaseRemoveCmd = &cobra.Command{
	Use:   "remove [lease-id]",
	Short: "Remove a lease with its clauses and documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaseRemove,
}

func init() {
	for _, c := range []*cobra.Command{leaseAddCmd, leaseUpdateCmd} {
		c.Flags().StringVarP(&leaseProperty, "property", "p", "", "property id or name")
		c.Flags().StringVarP(&leaseTenant, "tenant", "t", "", "tenant name")
		c.Flags().StringVar(&leaseStart, "start", "", "start date (YYYY-MM-DD)")
		c.Flags().StringVar(&leaseEnd, "end", "", "end date (YYYY-MM-DD)")
		c.Flags().Float64Var(&leaseRent, "rent", 0, "monthly rent")
		c.Flags().StringVar(&leaseNotes, "notes", "", "free-form notes")
	}
	leaseListCmd.Flags().StringVarP(&leaseProperty, "property", "p", "", "only leases of this property (id or name)")

	leaseCmd.AddCommand(leaseAddCmd)
	leaseCmd.AddCommand(leaseListCmd)
	leaseCmd.AddCommand(leaseShowCmd)
	leaseCmd.AddCommand(leaseUpdateCmd)
	leaseCmd.AddCommand(leaseRemoveCmd)
	rootCmd.AddCommand(leaseCmd)
}

func runLeaseAdd(cmd *cobra.Command, _ []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}
	if leaseProperty == "" || leaseTenant == "" {
		return errors.New("--property and --tenant are required")
	}

	ctx := context.Background()
	property, err := resolveProperty(ctx, leaseProperty)
	if err != nil {
		return fmt.Errorf("failed to find property: %w", err)
	}

	lease := &domain.Lease{
		PropertyID:  property.ID,
		TenantName:  leaseTenant,
		MonthlyRent: leaseRent,
		Notes:       leaseNotes,
	}
	if lease.StartDate, err = parseDateFlag("start", leaseStart); err != nil {
		return err
	}
	if lease.EndDate, err = parseDateFlag("end", leaseEnd); err != nil {
		return err
	}

	if err := leaseService.CreateLease(ctx, lease); err != nil {
		return fmt.Errorf("failed to add lease: %w", err)
	}

	cmd.Printf("Lease added: %s - %s (%s)\n", property.Name, lease.TenantName, lease.ID)
	cmd.Printf("Index its documents with 'leaserag index %s <files...>'.\n", lease.ID)
	return nil
}

func runLeaseList(cmd *cobra.Command, _ []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	ctx := context.Background()
	propertyID := ""
	if leaseProperty != "" {
		property, err := resolveProperty(ctx, leaseProperty)
		if err != nil {
			return fmt.Errorf("failed to find property: %w", err)
		}
		propertyID = property.ID
	}

	leases, err := leaseService.ListLeases(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("failed to list leases: %w", err)
	}

	if len(leases) == 0 {
		cmd.Println("No leases found.")
		return nil
	}

	cmd.Println("Leases:")
	cmd.Println()
	for i := range leases {
		d := &leases[i]
		cmd.Printf("  %s\n", d.Lease.ID)
		cmd.Printf("    %s - %s\n", d.Property.Name, d.Lease.TenantName)
		cmd.Printf("    Term: %s to %s\n", formatDate(d.Lease.StartDate), formatDate(d.Lease.EndDate))
		cmd.Printf("    Clauses: %d\n", d.ClauseCount)
		cmd.Println()
	}
	cmd.Printf("Total: %d leases\n", len(leases))
	return nil
}

func runLeaseShow(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	ctx := context.Background()
	d, err := leaseService.GetLease(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get lease: %w", err)
	}

	cmd.Printf("Lease: %s\n\n", d.Lease.ID)
	cmd.Printf("  Tenant:    %s\n", d.Lease.TenantName)
	cmd.Printf("  Property:  %s (%s)\n", d.Property.Name, d.Property.ID)
	if d.Property.Address != "" {
		cmd.Printf("  Address:   %s\n", d.Property.Address)
	}
	cmd.Printf("  Term:      %s to %s\n", formatDate(d.Lease.StartDate), formatDate(d.Lease.EndDate))
	cmd.Printf("  Rent:      %.2f / month\n", d.Lease.MonthlyRent)
	cmd.Printf("  Clauses:   %d\n", d.ClauseCount)
	if d.Lease.Notes != "" {
		cmd.Printf("  Notes:     %s\n", d.Lease.Notes)
	}

	if documentService != nil {
		docs, err := documentService.List(ctx, d.Lease.ID)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		if len(docs) > 0 {
			cmd.Println("\n  Documents:")
			for i := range docs {
				cmd.Printf("    %s  %s\n", docs[i].ID, docs[i].FileName)
			}
		}
	}

	if indexingService != nil {
		status, err := indexingService.Status(ctx, d.Lease.ID)
		if err == nil && status.LastSummary != nil {
			cmd.Printf("\n  Last indexed: %s\n", status.LastRun.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func runLeaseUpdate(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	ctx := context.Background()
	d, err := leaseService.GetLease(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get lease: %w", err)
	}
	lease := d.Lease
	flags := cmd.Flags()

	if flags.Changed("property") {
		property, err := resolveProperty(ctx, leaseProperty)
		if err != nil {
			return fmt.Errorf("failed to find property: %w", err)
		}
		lease.PropertyID = property.ID
	}
	if flags.Changed("tenant") {
		lease.TenantName = leaseTenant
	}
	if flags.Changed("start") {
		if lease.StartDate, err = parseDateFlag("start", leaseStart); err != nil {
			return err
		}
	}
	if flags.Changed("end") {
		if lease.EndDate, err = parseDateFlag("end", leaseEnd); err != nil {
			return err
		}
	}
	if flags.Changed("rent") {
		lease.MonthlyRent = leaseRent
	}
	if flags.Changed("notes") {
		lease.Notes = leaseNotes
	}

	if err := leaseService.UpdateLease(ctx, &lease); err != nil {
		return fmt.Errorf("failed to update lease: %w", err)
	}

	cmd.Printf("Lease %s updated.\n", lease.ID)
	return nil
}

func runLeaseRemove(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	if err := leaseService.DeleteLease(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove lease: %w", err)
	}

	cmd.Printf("Lease %s removed.\n", args[0])
	return nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, domain.ErrInvalidInput)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "open"
	}
	return t.Format(dateLayout)
}
