package driven

import (
	"context"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

// EmbeddingService turns clause, chunk and question text into vectors.
// Every vector stored for a corpus must come from the same model, since
// search compares them by cosine similarity.
//
// Providers: OpenAI, Ollama and the offline feature-hashing embedder.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length, or 0 until the first call for
	// providers that only learn it from a response.
	Dimensions() int

	ModelName() string

	// Ping makes the cheapest request that proves the provider answers.
	Ping(ctx context.Context) error

	Close() error
}

// LLMService writes answers and, with the llm classifier, labels clauses.
// A nil LLMService is valid: search still works, questions do not.
//
// Providers: OpenAI, Anthropic and Ollama.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)
	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}

// GenerateOptions tunes a single completion.
type GenerateOptions struct {
	System      string
	MaxTokens   int
	Temperature float64

	// JSON requests a JSON object where the provider supports it. The
	// classifier sets it and still parses the reply defensively.
	JSON bool

	StopWords []string
}

// ChatMessage is one turn of a conversation. Role is "system", "user" or
// "assistant".
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes a chat completion.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// AIConfigValidator checks provider settings by pinging the provider.
// Unconfigured settings are not an error.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
