// Package cli provides the groundwork command-line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services used by the commands. Set by wireServices, or directly by tests.
var (
	ingestService    driving.IngestService
	imageService     driving.ImageService
	retrievalService driving.RetrievalService
	askService       driving.AskService
	documentService  driving.DocumentService
	settingsService  driving.SettingsService

	// appSettings is the resolved configuration the services were built from.
	appSettings *domain.AppSettings

	// servicesReady skips wiring once services are in place.
	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Ground questions in the text of a PDF",
	Long: `groundwork extracts the text and images of PDF documents, keeps the
normalised text in a local store and answers questions with the passage
around the first matching keyword as context.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $GROUNDWORK_HOME/config.toml)")
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if servicesReady {
		return nil
	}
	if err := wireServices(); err != nil {
		return err
	}
	servicesReady = true
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	closeServices()
	if err != nil {
		os.Exit(1)
	}
}

// settingsOrDefaults returns the wired settings, or the defaults when
// services were injected without them.
func settingsOrDefaults() domain.AppSettings {
	if appSettings != nil {
		return *appSettings
	}
	return domain.DefaultAppSettings()
}
