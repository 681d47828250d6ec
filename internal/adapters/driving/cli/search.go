package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

var (
	searchLimit         int
	searchJSON          bool
	searchLease         string
	searchProperty      string
	searchTenant        string
	searchTopics        string
	searchParty         string
	searchMinSimilarity float64
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed clauses",
	Long: `Ranks indexed clauses by semantic similarity to the query.
Filters on lease, property, tenant, topic, and responsible party are applied
before scoring.

Examples:
  leaserag search "roof repairs"
  leaserag search "who insures the building" --topic INSURANCE,CASUALTY
  leaserag search "maintenance" --party TENANT --lease <lease-id>`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchLease, "lease", "l", "", "only clauses of this lease")
	searchCmd.Flags().StringVar(&searchProperty, "property", "", "only clauses of leases at this property id")
	searchCmd.Flags().StringVar(&searchTenant, "tenant", "", "only clauses of leases with this tenant")
	searchCmd.Flags().StringVar(&searchTopics, "topic", "", "comma-separated topics, e.g. ROOF,HVAC")
	searchCmd.Flags().StringVar(&searchParty, "party", "", "LANDLORD, TENANT, SHARED, or UNKNOWN")
	searchCmd.Flags().Float64Var(&searchMinSimilarity, "min-similarity", domain.DefaultMinSimilarity, "similarity floor between 0 and 1")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	filter := domain.ClauseFilter{
		LeaseID:    searchLease,
		PropertyID: searchProperty,
		TenantName: searchTenant,
	}
	topics, err := parseTopics(searchTopics)
	if err != nil {
		return err
	}
	filter.Topics = topics
	if searchParty != "" {
		party, ok := domain.ParseResponsiblePartyStrict(searchParty)
		if !ok {
			return fmt.Errorf("unknown responsible party %q", searchParty)
		}
		filter.ResponsibleParty = party
	}

	hits, err := searchService.Search(context.Background(), domain.ClauseSearchRequest{
		Query:         query,
		Filter:        filter,
		TopK:          searchLimit,
		MinSimilarity: searchMinSimilarity,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, hits)
	}
	return outputSearchTable(cmd, hits)
}

// parseTopics splits a comma-separated topic list. Unknown names are an error.
func parseTopics(raw string) ([]domain.Topic, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var topics []domain.Topic
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		topic, ok := domain.ParseTopicStrict(part)
		if !ok {
			return nil, fmt.Errorf("unknown topic %q", strings.TrimSpace(part))
		}
		topics = append(topics, topic)
	}
	return topics, nil
}

type searchResultJSON struct {
	ClauseID         string  `json:"clause_id"`
	LeaseID          string  `json:"lease_id"`
	PropertyName     string  `json:"property_name"`
	TenantName       string  `json:"tenant_name"`
	SectionLabel     string  `json:"section_label,omitempty"`
	PageNumber       *int    `json:"page_number,omitempty"`
	Topic            string  `json:"topic"`
	ResponsibleParty string  `json:"responsible_party"`
	Similarity       float64 `json:"similarity"`
	Text             string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, hits []domain.ClauseHit) error {
	out := make([]searchResultJSON, len(hits))
	for i, h := range hits {
		c := h.View.Clause
		out[i] = searchResultJSON{
			ClauseID:         c.ID,
			LeaseID:          c.LeaseID,
			PropertyName:     h.View.PropertyName,
			TenantName:       h.View.TenantName,
			SectionLabel:     c.SectionLabel,
			PageNumber:       c.PageNumber,
			Topic:            string(c.Topic),
			ResponsibleParty: string(c.ResponsibleParty),
			Similarity:       h.Similarity,
			Text:             c.Text,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, hits []domain.ClauseHit) error {
	if len(hits) == 0 {
		cmd.Println("No matching clauses found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, h := range hits {
		c := h.View.Clause
		// Format: [N] Property / Tenant - Section (Score)
		cmd.Printf("  [%d] %s / %s", i+1, h.View.PropertyName, h.View.TenantName)
		if c.SectionLabel != "" {
			cmd.Printf(" - %s", c.SectionLabel)
		}
		cmd.Printf(" (%.2f)\n", h.Similarity)
		cmd.Printf("      %s, %s\n", c.Topic, c.ResponsibleParty)
		cmd.Printf("      %s\n", snippet(c.Text, domain.CitationSnippetChars))
		cmd.Println()
	}
	return nil
}

func snippet(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
