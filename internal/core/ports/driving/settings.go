package driving

import "github.com/custodia-labs/leaserag/internal/core/domain"

// SettingsService reads and changes the persisted provider, classifier,
// indexing and retrieval settings. Changing the embedding provider or
// model makes stored clause vectors incomparable until leases are
// re-indexed.
type SettingsService interface {
	// Get returns stored settings layered over the defaults. Missing API
	// keys are filled from the provider's environment variable.
	Get() (*domain.AppSettings, error)

	// Save writes every setting. API keys are only written when non-empty.
	Save(settings *domain.AppSettings) error

	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetClassifier selects keyword or llm classification. delayMillis
	// paces llm classification calls and is ignored for keyword.
	SetClassifier(provider domain.ClassifierProvider, delayMillis int) error

	// Validate checks the settings for internal consistency without
	// contacting any provider.
	Validate() error

	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig and ValidateLLMConfig ping the configured
	// providers.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}
