// Package cli provides the leaserag command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/ports/driving"
	"github.com/custodia-labs/leaserag/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

var verbose bool

// Services injected by main. Commands check for nil before use.
var (
	leaseService    driving.LeaseService
	indexingService driving.IndexingService
	searchService   driving.ClauseSearchService
	queryService    driving.QueryService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "leaserag",
	Short: "Ask questions about commercial leases",
	Long: `leaserag indexes commercial lease documents into classified clauses
and answers questions such as "who pays for roof repairs?" with citations
to the clauses it used.

Get started:
  leaserag property add "Harbour Point" --address "1 Quay Street"
  leaserag lease add --property "Harbour Point" --tenant "Acme Ltd"
  leaserag index <lease-id> lease.pdf
  leaserag ask "Who maintains the HVAC?" --lease <lease-id>`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Services holds the driving ports the commands operate on.
type Services struct {
	Lease    driving.LeaseService
	Indexing driving.IndexingService
	Search   driving.ClauseSearchService
	Query    driving.QueryService
	Document driving.DocumentService
	Settings driving.SettingsService
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	leaseService = s.Lease
	indexingService = s.Indexing
	searchService = s.Search
	queryService = s.Query
	documentService = s.Document
	settingsService = s.Settings
}

// SetVersion overrides the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
