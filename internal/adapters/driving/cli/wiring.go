package cli

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/groundwork/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/groundwork/internal/adapters/driven/config/file"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/watcher"
	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/services"
	"github.com/custodia-labs/groundwork/internal/extractors"
	"github.com/custodia-labs/groundwork/internal/extractors/filters"
	"github.com/custodia-labs/groundwork/internal/extractors/objectgraph"
	"github.com/custodia-labs/groundwork/internal/logger"
	"github.com/custodia-labs/groundwork/internal/normalisers/whitespace"
)

// closers release wired resources, in reverse order of creation.
var closers []func() error

// newFileWatcher creates the watcher used by the watch command.
var newFileWatcher = func() (driven.FileWatcher, error) {
	return watcher.NewFSNotifyWatcher(watcher.DefaultDebounce)
}

// wireServices builds the services from the config file.
func wireServices() error {
	home, err := configfile.HomeDir()
	if err != nil {
		return err
	}
	path := configPath
	if path == "" {
		path = filepath.Join(home, "config.toml")
	}

	configStore, err := configfile.OpenConfigStore(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator(), home)
	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := settingsSvc.Validate(); err != nil {
		logger.Warn("%v", err)
	}

	docs, err := openDocumentStore(settings)
	if err != nil {
		return err
	}

	extractor, err := extractors.ForStrategy(settings.Extraction.Strategy)
	if err != nil {
		return err
	}
	logger.Debug("config %s: strategy %s, store %s", configStore.Path(), extractor.Name(), settings.Storage.Backend)

	state := services.NewState()
	normaliser := whitespace.New()
	ingest := services.NewIngestService(state, extractor, normaliser, docs, file.NewTextWriter(settings.Output.TextDir))
	images := services.NewImageService(objectgraph.NewImageExtractor(), filters.NewDecoder(), file.NewPNGSink(), settings.Images.MaxWidth)
	retrieval := services.NewRetrievalService(state, docs)

	// A missing LLM only disables ask.
	var llm driven.LLMService
	if svc, err := ai.CreateLLMService(&settings.LLM); err != nil {
		logger.Debug("llm: %v", err)
	} else if svc != nil {
		llm = svc
		closers = append(closers, svc.Close)
	}

	ingestService = ingest
	imageService = images
	retrievalService = retrieval
	askService = services.NewAskService(ingest, images, retrieval, llm, driven.GenerateOptions{})
	documentService = services.NewDocumentService(state, docs, normaliser)
	settingsService = settingsSvc
	appSettings = settings
	return nil
}

func openDocumentStore(settings *domain.AppSettings) (driven.DocumentStore, error) {
	switch settings.Storage.Backend {
	case domain.StorageMemory:
		return memory.NewDocumentStore(), nil
	default:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open document store: %w", err)
		}
		closers = append(closers, store.Close)
		return store.DocumentStore(), nil
	}
}

// closeServices releases everything wireServices opened.
func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("close: %v", err)
		}
	}
	closers = nil
}
