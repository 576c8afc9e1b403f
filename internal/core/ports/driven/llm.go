package driven

import "context"

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMService is a chat model. Adapters exist for OpenAI, Groq, Anthropic,
// Gemini and Ollama. Failures worth retrying wrap domain.ErrRateLimited,
// domain.ErrBackendTimeout or domain.ErrTransient.
type LLMService interface {
	// Generate answers a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	ModelName() string

	// Ping makes the cheapest authenticated call the provider offers.
	Ping(ctx context.Context) error

	Close() error
}

// ChatMessage is one turn. Role is one of the Role constants.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tune a Chat call. Zero MaxTokens leaves the provider default;
// zero Temperature is sent as is.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
}

// GenerateOptions are ChatOptions plus stop sequences.
type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
	StopWords   []string
}
