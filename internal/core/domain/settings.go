package domain

const unknownDescription = "Unknown"

// ExtractionStrategy selects how text is pulled out of a PDF.
type ExtractionStrategy string

// Available extraction strategies.
const (
	// StrategyText uses a dedicated text-extraction pass per page.
	StrategyText ExtractionStrategy = "text"

	// StrategyContent decompresses content streams and concatenates
	// the literal strings shown by text operators.
	StrategyContent ExtractionStrategy = "content"

	// StrategyAuto runs the text pass and falls back to content streams
	// when it fails or yields nothing.
	StrategyAuto ExtractionStrategy = "auto"
)

// IsValid returns true if the strategy is recognised.
func (s ExtractionStrategy) IsValid() bool {
	switch s {
	case StrategyText, StrategyContent, StrategyAuto:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ExtractionStrategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s ExtractionStrategy) Description() string {
	switch s {
	case StrategyText:
		return "Text pass (per-page text extraction)"
	case StrategyContent:
		return "Content streams (decompress and scan text operators)"
	case StrategyAuto:
		return "Auto (text pass, content streams as fallback)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects where documents are kept.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists documents in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps documents for the lifetime of the process.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

// AIProvider identifies a language-model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// ExtractionSettings holds text extraction configuration.
type ExtractionSettings struct {
	Strategy ExtractionStrategy
}

// StorageSettings holds document store configuration.
type StorageSettings struct {
	// Backend is the store implementation.
	Backend StorageBackend

	// DataDir holds the SQLite database.
	DataDir string
}

// OutputSettings holds artifact locations.
type OutputSettings struct {
	// TextDir receives the plain-text artifact of each ingestion.
	TextDir string

	// ImageDir is the default directory for extracted images.
	ImageDir string
}

// ImageSettings holds image extraction configuration.
type ImageSettings struct {
	// MaxWidth downscales wider images. Zero disables scaling.
	MaxWidth int
}

// RetrievalSettings holds retrieval defaults.
type RetrievalSettings struct {
	// TopK is the default result count for ranked retrieval.
	TopK int
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini).
	APIKey string

	// RequestsPerSecond throttles cloud requests. Zero disables the limit.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	Extraction ExtractionSettings
	Storage    StorageSettings
	Output     OutputSettings
	Images     ImageSettings
	Retrieval  RetrievalSettings
	LLM        LLMSettings
}

// DefaultTopK is the ranked retrieval result count when none is configured.
const DefaultTopK = 5

// DefaultAppSettings returns settings with sensible defaults.
// Directories are left empty and resolved against the config home.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Extraction: ExtractionSettings{Strategy: StrategyText},
		Storage:    StorageSettings{Backend: StorageSQLite},
		Output:     OutputSettings{ImageDir: "images"},
		Retrieval:  RetrievalSettings{TopK: DefaultTopK},
		LLM: LLMSettings{
			Provider:          AIProviderOllama,
			Model:             DefaultLLMModels()[AIProviderOllama],
			RequestsPerSecond: 1,
		},
	}
}

// AllExtractionStrategies returns all available extraction strategies.
func AllExtractionStrategies() []ExtractionStrategy {
	return []ExtractionStrategy{StrategyText, StrategyContent, StrategyAuto}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderGemini}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderGemini: "gemini-2.0-flash",
	}
}
