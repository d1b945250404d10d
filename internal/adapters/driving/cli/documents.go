package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage stored documents",
	Long:    `List, view, add or remove the documents used for ranked retrieval.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document (default: the processed document)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocumentsShow,
}

var documentsRemoveCmd = &cobra.Command{
	Use:     "rm [doc-id]",
	Aliases: []string{"remove"},
	Short:   "Remove a document",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentsRemove,
}

var documentsAddTitle string

var documentsAddCmd = &cobra.Command{
	Use:   "add [doc-id] [text-file]",
	Short: "Store a plain-text file under an ID",
	Long: `Stores the whitespace-normalised contents of a text file under the given
ID. The document takes part in ranked retrieval but does not replace the
processed document.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentsAdd,
}

func init() {
	documentsAddCmd.Flags().StringVarP(&documentsAddTitle, "title", "t", "", "document title (default derived from the ID)")

	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsRemoveCmd)
	documentsCmd.AddCommand(documentsAddCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	latestID := ""
	if latest, err := documentService.Latest(cmd.Context()); err == nil {
		latestID = latest.ID
	}

	for i := range docs {
		marker := " "
		if docs[i].ID == latestID {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Size: %d chars, updated %s\n", len(docs[i].Content), docs[i].UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Println()
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	var (
		doc *domain.Document
		err error
	)
	if len(args) == 0 {
		doc, err = documentService.Latest(cmd.Context())
	} else {
		doc, err = documentService.Get(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(headingStyle.Render(doc.Title))
	cmd.Printf("ID: %s\n", doc.ID)
	if doc.URI != "" {
		cmd.Printf("URI: %s\n", doc.URI)
	}
	if doc.Pages > 0 {
		cmd.Printf("Pages: %d\n", doc.Pages)
	}
	if doc.RunID != "" {
		cmd.Printf("Run: %s\n", doc.RunID)
	}
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocumentsRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func runDocumentsAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	text, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}

	doc, err := documentService.Add(cmd.Context(), args[0], documentsAddTitle, string(text))
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	cmd.Printf("Added %s (%d chars)\n", doc.ID, len(doc.Content))
	return nil
}
