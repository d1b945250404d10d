package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/logger"
)

var (
	askPDF     string
	askImages  string
	askSystem  string
	askHistory string
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Answer a question from the processed document",
	Long: `Optionally ingests a PDF (and extracts its images), retrieves the context
around the question's first matching keyword and sends both to the
configured language model.

A failed ingestion is reported but does not stop the question; it is
answered from whatever document was processed before.

--system and --history send the question as a chat. The history file is
TOML with one [[turn]] table per message:

  [[turn]]
  role = "user"
  content = "What is the report about?"

  [[turn]]
  role = "model"
  content = "Quarterly revenue."

Roles "system", "assistant" and "model" are kept; any other role is sent
as the user.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askPDF, "pdf", "", "PDF to ingest before answering")
	askCmd.Flags().StringVar(&askImages, "images", "", "directory for the PDF's images (requires --pdf)")
	askCmd.Flags().StringVar(&askSystem, "system", "", "system instruction; sends the question as a chat")
	askCmd.Flags().StringVar(&askHistory, "history", "", "TOML file of earlier chat turns")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}
	if askImages != "" && askPDF == "" {
		return fmt.Errorf("%w: --images requires --pdf", domain.ErrInvalidInput)
	}

	var history []domain.ChatTurn
	if askHistory != "" {
		turns, err := readChatHistory(askHistory)
		if err != nil {
			return err
		}
		history = turns
	}

	answer, err := askService.Ask(cmd.Context(), domain.AskRequest{
		Query:    strings.Join(args, " "),
		PDFPath:  askPDF,
		ImageDir: askImages,
		System:   askSystem,
		History:  history,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if answer.IngestErr != nil {
		cmd.Println(warnStyle.Render("Warning: ingestion failed: " + answer.IngestErr.Error()))
	}
	if answer.ImageErr != nil {
		cmd.Println(warnStyle.Render("Warning: image extraction failed: " + answer.ImageErr.Error()))
	} else if answer.Images != nil {
		cmd.Println(mutedStyle.Render(fmt.Sprintf("Wrote %d images to %s", len(answer.Images.Written), answer.Images.Dir)))
	}
	if answer.Context == "" {
		cmd.Println(mutedStyle.Render("No context found; asking without it."))
	}
	logger.Debug("prompt:\n%s", answer.Prompt)

	cmd.Println(answer.Response)
	return nil
}

type chatHistoryFile struct {
	Turns []struct {
		Role    string `toml:"role"`
		Content string `toml:"content"`
	} `toml:"turn"`
}

func readChatHistory(path string) ([]domain.ChatTurn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read history: %v", domain.ErrInvalidInput, err)
	}

	var file chatHistoryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse history %s: %v", domain.ErrInvalidInput, path, err)
	}

	turns := make([]domain.ChatTurn, 0, len(file.Turns))
	for _, t := range file.Turns {
		turns = append(turns, domain.ChatTurn{Role: t.Role, Content: t.Content})
	}
	return turns, nil
}
