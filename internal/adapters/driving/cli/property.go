package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

var propertyAddress string

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage properties",
	Long:  `Add, list, or remove the properties that leases belong to.`,
}

var propertyAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyAdd,
}

var propertyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties",
	Args:  cobra.NoArgs,
	RunE:  runPropertyList,
}

var propertyRemoveCmd = &cobra.Command{
	Use:   "remove [property-id]",
	Short: "Remove a property without leases",
	Args:  cobra.ExactArgs(1),
	RunE:  runPropertyRemove,
}

func init() {
	propertyAddCmd.Flags().StringVarP(&propertyAddress, "address", "a", "", "street address")

	propertyCmd.AddCommand(propertyAddCmd)
	propertyCmd.AddCommand(propertyListCmd)
	propertyCmd.AddCommand(propertyRemoveCmd)
	rootCmd.AddCommand(propertyCmd)
}

func runPropertyAdd(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	p, err := leaseService.CreateProperty(context.Background(), args[0], propertyAddress)
	if err != nil {
		return fmt.Errorf("failed to add property: %w", err)
	}

	cmd.Printf("Property added: %s (%s)\n", p.Name, p.ID)
	return nil
}

func runPropertyList(cmd *cobra.Command, _ []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	properties, err := leaseService.ListProperties(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}

	if len(properties) == 0 {
		cmd.Println("No properties yet. Add one with 'leaserag property add <name>'.")
		return nil
	}

	cmd.Println("Properties:")
	cmd.Println()
	for i := range properties {
		cmd.Printf("  %s\n", properties[i].ID)
		cmd.Printf("    Name: %s\n", properties[i].Name)
		if properties[i].Address != "" {
			cmd.Printf("    Address: %s\n", properties[i].Address)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d properties\n", len(properties))
	return nil
}

func runPropertyRemove(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	if err := leaseService.DeleteProperty(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove property: %w", err)
	}

	cmd.Printf("Property %s removed.\n", args[0])
	return nil
}

// resolveProperty accepts a property id or a case-insensitive name.
func resolveProperty(ctx context.Context, ref string) (*domain.Property, error) {
	if p, err := leaseService.GetProperty(ctx, ref); err == nil {
		return p, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	properties, err := leaseService.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	for i := range properties {
		if strings.EqualFold(properties[i].Name, strings.TrimSpace(ref)) {
			return &properties[i], nil
		}
	}
	return nil, fmt.Errorf("property %q: %w", ref, domain.ErrNotFound)
}
