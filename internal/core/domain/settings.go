package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
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
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Hashing (offline, deterministic)"
	default:
		return unknownDescription
	}
}

// ClassifierProvider selects how clauses are classified.
type ClassifierProvider string

// Available classifier providers.
const (
	// ClassifierLLM prompts the configured LLM for a JSON classification.
	ClassifierLLM ClassifierProvider = "llm"

	// ClassifierKeyword uses the topic keyword table and obligation phrases.
	ClassifierKeyword ClassifierProvider = "keyword"
)

// IsValid returns true if the classifier provider is recognised.
func (c ClassifierProvider) IsValid() bool {
	return c == ClassifierLLM || c == ClassifierKeyword
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector size. Zero means the model default.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderHashing {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ClassifierSettings holds clause classification configuration.
type ClassifierSettings struct {
	// Provider selects the classifier implementation.
	Provider ClassifierProvider

	// DelayMillis is the minimum delay between classification calls.
	DelayMillis int
}

// IndexingSettings holds segmentation and chunking configuration.
type IndexingSettings struct {
	// MaxChunkChars bounds clause chunk length.
	MaxChunkChars int

	// DocumentChunkSize is the fixed chunk size for whole-document Q&A.
	DocumentChunkSize int

	// DocumentChunkOverlap is the overlap between document chunks.
	DocumentChunkOverlap int
}

// RetrievalSettings holds query-time retrieval parameters.
type RetrievalSettings struct {
	TopK          int
	MinSimilarity float64
	CitationLimit int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Classifier holds clause classifier settings.
	Classifier ClassifierSettings

	// Indexing holds segmentation settings.
	Indexing IndexingSettings

	// Retrieval holds search settings.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The offline embedder and keyword classifier work without any provider;
// the LLM is left unconfigured until the user sets one.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderHashing,
			Dimensions: DefaultHashingDimensions,
		},
		LLM: LLMSettings{},
		Classifier: ClassifierSettings{
			Provider:    ClassifierKeyword,
			DelayMillis: 0,
		},
		Indexing: IndexingSettings{
			MaxChunkChars:        1200,
			DocumentChunkSize:    1000,
			DocumentChunkOverlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK:          DefaultTopK,
			MinSimilarity: DefaultMinSimilarity,
			CitationLimit: DefaultCitationLimit,
		},
	}
}

// DefaultHashingDimensions is the vector size of the offline embedder.
const DefaultHashingDimensions = 512

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "fnv-hashing",
		AIProviderOllama:  "nomic-embed-text",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so processors can be added without
// modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// ClausePipelineConfig returns the pipeline used for clause indexing.
func ClausePipelineConfig(s IndexingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"segmenter"},
		ProcessorConfigs: map[string]map[string]any{
			"segmenter": {"max_chars": s.MaxChunkChars},
		},
	}
}

// DocumentPipelineConfig returns the pipeline used for whole-document Q&A.
func DocumentPipelineConfig(s IndexingSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": s.DocumentChunkSize,
				"overlap":    s.DocumentChunkOverlap,
			},
		},
	}
}
