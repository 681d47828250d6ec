package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

var (
	indexText  string
	indexStore bool
)

var indexCmd = &cobra.Command{
	Use:   "index [lease-id] [files...]",
	Short: "Extract and classify the clauses of a lease",
	Long: `Index a lease: extract text from its documents, split it into clauses,
classify each clause by topic and responsible party, and embed it for search.

Re-indexing replaces the lease's previous clauses. Supported formats are
PDF, DOCX, Markdown, HTML, and plain text.

Examples:
  leaserag index <lease-id> lease.pdf exhibits.docx
  leaserag index <lease-id> --text "Tenant shall maintain the roof."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status [lease-id]",
	Short: "Show the last indexing run of a lease",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.Flags().StringVar(&indexText, "text", "", "index this text instead of files")
	indexCmd.Flags().BoolVar(&indexStore, "store", true, "also store the files for 'leaserag document ask'")

	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	leaseID := args[0]
	files := args[1:]
	ctx := context.Background()

	if indexText == "" && len(files) == 0 {
		return errors.New("give files to index or --text")
	}

	var (
		summary *domain.IndexSummary
		err     error
	)
	if indexText != "" {
		summary, err = indexingService.IndexLeaseText(ctx, leaseID, indexText)
	} else {
		docs, readErr := readRawDocuments(files)
		if readErr != nil {
			return readErr
		}
		cmd.Printf("Indexing %d file(s) for lease %s...\n", len(docs), leaseID)
		summary, err = indexingService.IndexLease(ctx, leaseID, docs...)
		if err == nil && indexStore && documentService != nil {
			for i := range docs {
				if _, upErr := documentService.Upload(ctx, leaseID, &docs[i]); upErr != nil {
					cmd.Printf("Warning: could not store %s: %v\n", docs[i].FileName, upErr)
				}
			}
		}
	}
	if err != nil {
		if summary != nil {
			printSummary(cmd, summary)
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	if indexingService == nil {
		return errors.New("indexing service not configured")
	}

	status, err := indexingService.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	switch {
	case status.Running:
		cmd.Printf("Lease %s is being indexed.\n", status.LeaseID)
	case status.LastRun.IsZero():
		cmd.Printf("Lease %s has not been indexed in this session.\n", status.LeaseID)
	default:
		cmd.Printf("Lease %s last indexed %s.\n", status.LeaseID, status.LastRun.Format("2006-01-02 15:04:05"))
	}
	if status.LastError != "" {
		cmd.Printf("Last error: %s\n", status.LastError)
	}
	if status.LastSummary != nil {
		cmd.Println()
		printSummary(cmd, status.LastSummary)
	}
	return nil
}

func readRawDocuments(paths []string) ([]domain.RawDocument, error) {
	docs := make([]domain.RawDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, domain.RawDocument{
			FileName: filepath.Base(path),
			Content:  content,
		})
	}
	return docs, nil
}

func printSummary(cmd *cobra.Command, s *domain.IndexSummary) {
	cmd.Printf("Indexed lease %s in %s\n", s.LeaseID, s.Duration.Round(time.Millisecond))
	cmd.Printf("  Chunks:   %d\n", s.Chunks)
	cmd.Printf("  Clauses:  %d created, %d replaced\n", s.ClausesCreated, s.ClausesDeleted)

	if len(s.Topics) > 0 {
		topics := make([]domain.Topic, 0, len(s.Topics))
		for t := range s.Topics {
			topics = append(topics, t)
		}
		sort.Slice(topics, func(i, j int) bool {
			if s.Topics[topics[i]] != s.Topics[topics[j]] {
				return s.Topics[topics[i]] > s.Topics[topics[j]]
			}
			return topics[i] < topics[j]
		})
		cmd.Println("  Topics:")
		for _, t := range topics {
			cmd.Printf("    %-22s %d\n", t, s.Topics[t])
		}
	}

	if len(s.Parties) > 0 {
		cmd.Println("  Responsible party:")
		for _, p := range domain.AllParties() {
			if n := s.Parties[p]; n > 0 {
				cmd.Printf("    %-22s %d\n", p, n)
			}
		}
	}

	if len(s.Failures) > 0 {
		cmd.Printf("  Failures: %d chunk(s) skipped\n", len(s.Failures))
		for _, f := range s.Failures {
			cmd.Printf("    chunk %d (%s): %s\n", f.Position, f.Stage, f.Error)
		}
	}
}
