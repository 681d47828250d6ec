package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/adapters/driven/manifest"
)

var importQuiet bool

var importCmd = &cobra.Command{
	Use:   "import [manifest.yaml]",
	Short: "Bulk-import properties and leases from a manifest",
	Long: `Create properties and leases from a YAML manifest and index the
documents each lease lists. Document paths are globs relative to the
manifest and support ** for nested directories.

Example manifest:
  properties:
    - name: Harbour Point
      address: 1 Quay Street
  leases:
    - tenant: Acme Ltd
      property: Harbour Point
      start_date: 2024-01-01
      end_date: 2029-12-31
      monthly_rent: 12500
      documents:
        - leases/acme/**/*.pdf

A lease that fails is reported and the import continues.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "hide the progress bar")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if leaseService == nil {
		return errors.New("lease service not configured")
	}

	m, err := manifest.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}
	if len(m.Leases) == 0 && len(m.Properties) == 0 {
		cmd.Println("Manifest is empty, nothing to import.")
		return nil
	}

	var bar *progressbar.ProgressBar
	if !importQuiet && len(m.Leases) > 0 {
		bar = progressbar.NewOptions(len(m.Leases),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("[cyan]Importing[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(cmd.ErrOrStderr())
			}),
		)
	}

	report, err := leaseService.Import(context.Background(), m, func(done, _ int, label string) {
		if bar == nil {
			return
		}
		bar.Describe("[cyan]Importing[reset] " + label)
		_ = bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	clauses := 0
	for i := range report.Summaries {
		clauses += report.Summaries[i].ClausesCreated
	}

	cmd.Println("Import complete:")
	cmd.Printf("  Properties: %d created, %d matched\n", report.PropertiesCreated, report.PropertiesMatched)
	cmd.Printf("  Leases:     %d created\n", report.LeasesCreated)
	cmd.Printf("  Clauses:    %d indexed\n", clauses)

	if len(report.Errors) > 0 {
		cmd.Printf("\n%d error(s):\n", len(report.Errors))
		for _, e := range report.Errors {
			cmd.Printf("  - %s\n", e)
		}
	}
	return nil
}
