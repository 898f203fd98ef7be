package driven

import (
	"context"

	"github.com/custodia-labs/qastore-cli/internal/core/domain"
)

// LLMService provides language model operations for question expansion
// and QA-pair generation. This is an optional service - when nil, queries
// run against the original question only and ingestion is disabled.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// Reword produces up to n alternative phrasings of a question,
	// preserving its meaning. May return fewer than n. The original
	// question is not included in the result.
	Reword(ctx context.Context, question string, n int) ([]string, error)

	// GenerateQAPairs extracts question-answer pairs from free text.
	// Only questions answerable from the text are produced.
	GenerateQAPairs(ctx context.Context, text string) ([]domain.QAPair, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
