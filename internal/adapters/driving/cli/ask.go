package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

var (
	askLease    string
	askProperty string
	askTenant   string
	askTopic    string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about one lease or the portfolio",
	Long: `Answer a question from the indexed clauses. The answer names the
responsible party when the clauses settle it and cites every clause used.

Without --lease the question covers the whole portfolio.

Examples:
  leaserag ask "Who pays for roof repairs?" --lease <lease-id>
  leaserag ask "Which tenants pay CAM charges?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askLease, "lease", "l", "", "scope the question to one lease")
	askCmd.Flags().StringVar(&askProperty, "property", "", "scope the question to leases at this property id")
	askCmd.Flags().StringVar(&askTenant, "tenant", "", "scope the question to leases with this tenant")
	askCmd.Flags().StringVar(&askTopic, "topic", "", "use this topic instead of inferring one")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	req := domain.QueryRequest{
		Question:   args[0],
		LeaseID:    askLease,
		PropertyID: askProperty,
		TenantName: askTenant,
	}
	if askTopic != "" {
		topic, ok := domain.ParseTopicStrict(askTopic)
		if !ok {
			return fmt.Errorf("unknown topic %q", askTopic)
		}
		req.Topic = topic
	}

	answer, err := queryService.Ask(context.Background(), req)
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return fmt.Errorf("%w\nConfigure one with 'leaserag settings llm' or use 'leaserag search'", err)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, a *domain.Answer) {
	if a.Mode == domain.QueryModeNoClauses {
		cmd.Println(a.Message)
		return
	}

	cmd.Println(a.Text)
	cmd.Println()
	if a.ResponsibleParty != "" && a.ResponsibleParty != domain.PartyUnknown {
		cmd.Printf("Responsible party: %s (%s)\n", a.ResponsibleParty, a.PartySource)
	}
	if a.Widened {
		cmd.Println("Note: no clauses matched the topic, so the search was widened to all topics.")
	}

	if len(a.Citations) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Citations:")
	for i := range a.Citations {
		c := &a.Citations[i]
		cmd.Printf("  [%d] %s / %s", i+1, c.PropertyName, c.TenantName)
		if c.SectionLabel != "" {
			cmd.Printf(" - %s", c.SectionLabel)
		}
		if c.PageNumber != nil {
			cmd.Printf(" (p. %d)", *c.PageNumber)
		}
		cmd.Printf(" [%s, %s, %.2f]\n", c.Topic, c.ResponsibleParty, c.Similarity)
		cmd.Printf("      %s\n", c.Snippet)
	}
}
