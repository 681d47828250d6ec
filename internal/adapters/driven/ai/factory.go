// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	llmclassifier "github.com/custodia-labs/leaserag/internal/adapters/driven/classifier/llm"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/classifier/keyword"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/leaserag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/leaserag/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/leaserag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/leaserag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/leaserag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/leaserag/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/leaserag/internal/core/domain"
	"github.com/custodia-labs/leaserag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // nil when no LLM is configured or reachable.
	Classifier       driven.ClassificationService
	Limiter          driven.RateLimiter
	PromptStore      driven.PromptStore
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if the keyword classifier replaced the LLM one.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise builds every AI collaborator from settings. The embedder is
// required; an unreachable LLM only produces a warning, and an LLM
// classifier without an LLM falls back to the keyword classifier.
func Initialise(settings *domain.AppSettings, prompts driven.PromptStore) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}

	embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding provider %q is not configured. Run 'leaserag settings' to fix",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}

	result := &InitResult{
		EmbeddingService: embedder,
		PromptStore:      prompts,
		Limiter:          CreateRateLimiter(settings.Classifier.DelayMillis),
	}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	}
	result.LLMService = llm

	provider := settings.Classifier.Provider
	if provider == domain.ClassifierLLM && llm == nil {
		result.Warnings = append(result.Warnings, "LLM classifier selected but no LLM is available, using keyword classifier")
		result.FellBack = true
		provider = domain.ClassifierKeyword
	}
	if provider == domain.ClassifierKeyword {
		result.Limiter = ratelimit.Noop{}
	}

	classifier, err := CreateClassifier(provider, llm, prompts)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.Classifier = classifier

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'leaserag settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'leaserag settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'leaserag settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'leaserag settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ConfigValidator checks provider settings by building the service and
// pinging it. Unconfigured settings pass, since there is nothing to reach.
type ConfigValidator struct {
	timeout time.Duration
}

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// NewConfigValidator returns a validator that waits up to five seconds
// for each provider.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()
	return v.ping(svc.Ping)
}

// ValidateLLM pings the configured LLM provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()
	return v.ping(svc.Ping)
}

func (v *ConfigValidator) ping(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	return fn(ctx)
}

// ValidateEmbeddingConfig is NewConfigValidator().ValidateEmbedding.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	return NewConfigValidator().ValidateEmbedding(settings)
}

// ValidateLLMConfig is NewConfigValidator().ValidateLLM.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	return NewConfigValidator().ValidateLLM(settings)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHashing:
		return hashing.NewEmbeddingService(settings.Dimensions), nil

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateClassifier creates the clause classifier. The LLM classifier needs
// a non-nil llm.
func CreateClassifier(
	provider domain.ClassifierProvider,
	llm driven.LLMService,
	prompts driven.PromptStore,
) (driven.ClassificationService, error) {
	switch provider {
	case domain.ClassifierKeyword:
		return keyword.New(), nil

	case domain.ClassifierLLM:
		if llm == nil {
			return nil, fmt.Errorf("%w: the llm classifier needs an LLM provider", domain.ErrLLMUnavailable)
		}
		return llmclassifier.New(llm, prompts), nil

	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", provider)
	}
}

// CreateRateLimiter paces classification calls. A zero delay never waits.
func CreateRateLimiter(delayMillis int) driven.RateLimiter {
	if delayMillis <= 0 {
		return ratelimit.Noop{}
	}
	return ratelimit.New(time.Duration(delayMillis) * time.Millisecond)
}
