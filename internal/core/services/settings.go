package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStrategy       = "extraction.strategy"
	keyStorageBackend = "storage.backend"
	keyDataDir        = "storage.data_dir"
	keyTextDir        = "output.text_dir"
	keyImageDir       = "output.image_dir"
	keyImageMaxWidth  = "images.max_width"
	keyTopK           = "retrieval.top_k"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMRate        = "llm.requests_per_second"
)

// Environment overrides, applied on read and never persisted.
//
//nolint:gosec // G101: environment variable names, not credentials.
const (
	EnvLLMProvider  = "GROUNDWORK_LLM_PROVIDER"
	EnvLLMModel     = "GROUNDWORK_LLM_MODEL"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// defaultOllamaURL is used when the local provider has no base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.LLMConfigValidator
	homeDir     string
}

// NewSettingsService creates a new settings service. homeDir anchors the
// default data and text directories; validator may be nil.
func NewSettingsService(configStore driven.ConfigStore, validator driven.LLMConfigValidator, homeDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
		homeDir:     homeDir,
	}
}

// Get retrieves current application settings with directory defaults
// resolved and environment overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()

	if settings.Storage.DataDir == "" {
		settings.Storage.DataDir = filepath.Join(s.homeDir, "data")
	}
	if settings.Output.TextDir == "" {
		settings.Output.TextDir = filepath.Join(s.homeDir, "text")
	}

	if p := domain.AIProvider(os.Getenv(EnvLLMProvider)); p.IsValid() && p != settings.LLM.Provider {
		settings.LLM.Provider = p
		settings.LLM.Model = domain.DefaultLLMModels()[p]
	}
	if m := os.Getenv(EnvLLMModel); m != "" {
		settings.LLM.Model = m
	}
	if settings.LLM.Provider.IsLocal() && settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = defaultOllamaURL
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		settings.LLM.APIKey = os.Getenv(EnvGeminiAPIKey)
	}

	return settings, nil
}

// stored reads the config file values over the defaults, without
// resolving directories or consulting the environment.
func (s *SettingsService) stored() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Extraction: domain.ExtractionSettings{
			Strategy: s.getStrategy(defaults.Extraction.Strategy),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyDataDir),
		},
		Output: domain.OutputSettings{
			TextDir:  s.configStore.GetString(keyTextDir),
			ImageDir: s.getString(keyImageDir, defaults.Output.ImageDir),
		},
		Images: domain.ImageSettings{
			MaxWidth: s.configStore.GetInt(keyImageMaxWidth),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(defaults.LLM.Provider),
			Model:             s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			RequestsPerSecond: s.getFloat(keyLLMRate, defaults.LLM.RequestsPerSecond),
		},
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyStrategy, settings.Extraction.Strategy.String()},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyImageDir, settings.Output.ImageDir},
		{keyImageMaxWidth, settings.Images.MaxWidth},
		{keyTopK, settings.Retrieval.TopK},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMRate, settings.LLM.RequestsPerSecond},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Empty directories and keys mean "use the default", so they are not written.
	optional := map[string]string{
		keyDataDir:   settings.Storage.DataDir,
		keyTextDir:   settings.Output.TextDir,
		keyLLMAPIKey: settings.LLM.APIKey,
	}
	for key, value := range optional {
		if value == "" {
			continue
		}
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetStrategy updates the text extraction strategy.
func (s *SettingsService) SetStrategy(strategy domain.ExtractionStrategy) error {
	if !strategy.IsValid() {
		return fmt.Errorf("%w: extraction strategy %q", domain.ErrInvalidInput, strategy)
	}

	settings := s.stored()
	settings.Extraction.Strategy = strategy
	return s.Save(settings)
}

// SetImageMaxWidth updates the downscale width. Zero disables scaling.
func (s *SettingsService) SetImageMaxWidth(width int) error {
	if width < 0 {
		return fmt.Errorf("%w: image max width %d", domain.ErrInvalidInput, width)
	}

	settings := s.stored()
	settings.Images.MaxWidth = width
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, provider)
	}

	// The environment key is enough for Gemini; it is not copied into the file.
	if provider.RequiresAPIKey() && apiKey == "" && os.Getenv(EnvGeminiAPIKey) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider

	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey
	if apiKey == "" {
		// Drop any key left over from a previous provider.
		if err := s.configStore.Set(keyLLMAPIKey, ""); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch {
	case !settings.Extraction.Strategy.IsValid():
		return fmt.Errorf("%w: extraction strategy %q", domain.ErrInvalidInput, settings.Extraction.Strategy)
	case !settings.Storage.Backend.IsValid():
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	case settings.Retrieval.TopK <= 0:
		return fmt.Errorf("%w: retrieval.top_k must be positive", domain.ErrInvalidInput)
	case settings.Images.MaxWidth < 0:
		return fmt.Errorf("%w: images.max_width must not be negative", domain.ErrInvalidInput)
	case !settings.LLM.Provider.IsValid():
		return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, settings.LLM.Provider)
	case !settings.LLM.IsConfigured():
		return fmt.Errorf("%w: %s requires an API key (set %s or run 'groundwork settings llm')",
			domain.ErrInvalidInput, settings.LLM.Provider.Description(), EnvGeminiAPIKey)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getStrategy(defaultVal domain.ExtractionStrategy) domain.ExtractionStrategy {
	strategy := domain.ExtractionStrategy(s.configStore.GetString(keyStrategy))
	if !strategy.IsValid() {
		return defaultVal
	}
	return strategy
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
