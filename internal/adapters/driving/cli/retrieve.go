package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query...]",
	Short: "Show the context around the first matching keyword",
	Long: `Scans the query keywords in order and prints up to 300 bytes on either
side of the first occurrence of the first keyword found in the processed
document. Matching ignores case.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

var rankTopK int

var rankCmd = &cobra.Command{
	Use:   "rank [query]",
	Short: "Rank stored documents by query occurrences",
	Long: `Counts case-insensitive occurrences of the whole query in every stored
document and lists the best matches. Documents without a match are omitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	rankCmd.Flags().IntVarP(&rankTopK, "top-k", "k", 0, "number of results (default retrieval.top_k)")
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(rankCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := strings.Join(args, " ")
	window, err := retrievalService.RetrieveWindow(cmd.Context(), query)
	if errors.Is(err, domain.ErrNoProcessedDocument) {
		return fmt.Errorf("%w: run 'groundwork ingest <pdf>' first", err)
	}
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if window.IsEmpty() {
		cmd.Println("No context found.")
		return nil
	}

	offset := window.Position - window.Start
	cmd.Println(mutedStyle.Render(fmt.Sprintf("%s [%d:%d] keyword %q",
		window.DocumentID, window.Start, window.End, window.Keyword)))
	cmd.Println(highlight(window.Text, offset, offset+len(window.Keyword)))
	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	topK := rankTopK
	if !cmd.Flags().Changed("top-k") {
		topK = settingsOrDefaults().Retrieval.TopK
	}

	ranked, err := retrievalService.RetrieveRanked(cmd.Context(), args[0], topK)
	if err != nil {
		return fmt.Errorf("rank failed: %w", err)
	}

	if len(ranked) == 0 {
		cmd.Println("No matching documents.")
		return nil
	}

	for i, r := range ranked {
		title := r.Title
		if title == "" {
			title = r.ID
		}
		cmd.Printf("  [%d] %s (%d)\n", i+1, title, r.Score)
		cmd.Printf("      %s\n", mutedStyle.Render(r.ID))
	}
	return nil
}
