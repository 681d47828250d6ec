package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored lease documents",
	Long: `Upload, list, view, question, or delete whole lease documents.

Stored documents are chunked without clause classification and can be
questioned directly with 'leaserag document ask'.`,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [lease-id] [file]",
	Short: "Store a document for a lease",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentUpload,
}

var documentListCmd = &cobra.Command{
	Use:   "list [lease-id]",
	Short: "List documents for a lease",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentAskCmd = &cobra.Command{
	Use:   "ask [doc-id] [question]",
	Short: "Ask a question about one document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentAsk,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentAskCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := readRawDocuments(args[1:])
	if err != nil {
		return err
	}

	doc, err := documentService.Upload(context.Background(), args[0], &docs[0])
	if err != nil {
		return fmt.Errorf("failed to upload document: %w", err)
	}

	cmd.Printf("Document stored: %s (%s)\n", doc.FileName, doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	leaseID := args[0]
	ctx := context.Background()

	docs, err := documentService.List(ctx, leaseID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for lease: %s\n", leaseID)
		return nil
	}

	cmd.Printf("Documents for lease %s:\n\n", leaseID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File: %s\n", docs[i].FileName)
		if docs[i].Title != "" && docs[i].Title != docs[i].FileName {
			cmd.Printf("    Title: %s\n", docs[i].Title)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, err := documentService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	chunks, err := documentService.GetChunks(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document chunks: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:     %s\n", doc.FileName)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Lease:    %s\n", doc.LeaseID)
	cmd.Printf("  Type:     %s\n", doc.MIMEType)
	cmd.Printf("  Chunks:   %d\n", len(chunks))
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range doc.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentAsk(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	answer, err := documentService.Ask(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if answer.Mode == domain.QueryModeNoClauses {
		cmd.Println(answer.Message)
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Citations) > 0 {
		cmd.Println()
		cmd.Println("Passages:")
		for i := range answer.Citations {
			cmd.Printf("  [%d] %s\n", i+1, answer.Citations[i].Snippet)
		}
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
