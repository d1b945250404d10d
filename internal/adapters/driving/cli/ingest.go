package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf]",
	Short: "Extract and store the text of a PDF",
	Long: `Extracts the text of a PDF, collapses its whitespace and stores it as
the processed document. A plain-text copy is written to the text directory.

A failed ingestion leaves the previously processed document in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	report, err := ingestService.Ingest(cmd.Context(), args[0])
	if report != nil {
		printIngestReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

func printIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	doc := report.Document
	cmd.Println(headingStyle.Render("Ingested " + doc.Title))
	cmd.Printf("  ID: %s\n", doc.ID)
	cmd.Printf("  Pages: %d\n", doc.Pages)
	cmd.Printf("  Characters: %d\n", len(doc.Content))
	if report.ArtifactPath != "" {
		cmd.Printf("  Text file: %s\n", report.ArtifactPath)
	}
	if n := len(report.Diagnostics); n > 0 {
		cmd.Println(warnStyle.Render(fmt.Sprintf("  Skipped: %d (run with -v for details)", n)))
		for _, d := range report.Diagnostics {
			cmd.Printf("    %s\n", mutedStyle.Render(d.Error()))
		}
	}
	if doc.Content == "" {
		cmd.Println(mutedStyle.Render("  No extractable text."))
	}
}
