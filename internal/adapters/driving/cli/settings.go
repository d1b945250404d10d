package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the extraction strategy, image scaling and the
language model used by ask.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsStrategyCmd = &cobra.Command{
	Use:   "strategy [text|content|auto]",
	Short: "Set the text extraction strategy",
	Long: `Set how text is pulled out of PDFs.

Available strategies:
  text    - Dedicated text pass per page
  content - Decompress content streams and scan text operators
  auto    - Text pass, content streams when it fails or finds nothing

Without an argument the strategy is chosen interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsStrategy,
}

var settingsImageWidthCmd = &cobra.Command{
	Use:   "image-width [pixels]",
	Short: "Downscale extracted images wider than this (0 disables)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsImageWidth,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the language model that answers questions in ask.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsStrategyCmd)
	settingsCmd.AddCommand(settingsImageWidthCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println(headingStyle.Render("Current Settings"))
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Strategy: %s\n", settings.Extraction.Strategy.Description())
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	if settings.Storage.Backend == domain.StorageSQLite {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Printf("  Text dir: %s\n", settings.Output.TextDir)
	cmd.Printf("  Image dir: %s\n", settings.Output.ImageDir)
	if settings.Images.MaxWidth > 0 {
		cmd.Printf("  Image max width: %d\n", settings.Images.MaxWidth)
	} else {
		cmd.Printf("  Image max width: (original size)\n")
	}
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.Provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
		cmd.Printf("  Requests/s: %g\n", settings.LLM.RequestsPerSecond)
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsStrategy(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var selected domain.ExtractionStrategy
	if len(args) == 1 {
		selected = domain.ExtractionStrategy(args[0])
	} else {
		reader := bufio.NewReader(cmd.InOrStdin())
		cmd.Println("Select Extraction Strategy")
		cmd.Println("--------------------------")
		strategies := domain.AllExtractionStrategies()
		for i, s := range strategies {
			cmd.Printf("  %d. %s\n", i+1, s.Description())
		}
		cmd.Print("\nEnter choice: ")
		idx := parseChoice(readLine(reader), len(strategies), 0)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		selected = strategies[idx-1]
	}

	if err := settingsService.SetStrategy(selected); err != nil {
		return fmt.Errorf("failed to set extraction strategy: %w", err)
	}
	cmd.Printf("Extraction strategy set to: %s\n", selected.Description())
	return nil
}

func runSettingsImageWidth(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	width, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, args[0])
	}
	if err := settingsService.SetImageMaxWidth(width); err != nil {
		return fmt.Errorf("failed to set image width: %w", err)
	}

	if width == 0 {
		cmd.Println("Images will be written at their original size.")
	} else {
		cmd.Printf("Images wider than %d pixels will be downscaled.\n", width)
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (blank to use $GEMINI_API_KEY): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when stdin is a terminal and nothing
// is buffered in reader; otherwise it reads a plain line from reader.
func readPassword(reader *bufio.Reader) string {
	if reader.Buffered() == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
