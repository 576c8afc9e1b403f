package driven

import "context"

// EmbeddingService turns text into vectors. OpenAI, Gemini and Ollama are
// supported. Retryable failures wrap domain.ErrRateLimited or
// domain.ErrBackendTimeout.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns exactly one vector per text, in order, or an error.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector size, or 0 until the first response when the
	// model is not known in advance.
	Dimensions() int

	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}
