package domain

import (
	"fmt"
	"strings"
	"time"
)

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

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderGroq:
		return true
	default:
		return false
	}
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGemini
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p.IsValid() && p != AIProviderOllama
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
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	default:
		return unknownDescription
	}
}

// SearchProvider identifies a web search backend.
type SearchProvider string

// Available search providers.
const (
	// SearchProviderSerpAPI queries Google through serpapi.com.
	SearchProviderSerpAPI SearchProvider = "serpapi"

	// SearchProviderDuckDuckGo scrapes the DuckDuckGo HTML endpoint.
	SearchProviderDuckDuckGo SearchProvider = "duckduckgo"

	// SearchProviderGoogle queries a Google Programmable Search engine.
	SearchProviderGoogle SearchProvider = "google"

	// SearchProviderGitHub searches GitHub repositories.
	SearchProviderGitHub SearchProvider = "github"
)

// IsValid returns true if the search provider is recognised.
func (p SearchProvider) IsValid() bool {
	switch p {
	case SearchProviderSerpAPI, SearchProviderDuckDuckGo, SearchProviderGoogle, SearchProviderGitHub:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
// GitHub accepts an optional token.
func (p SearchProvider) RequiresAPIKey() bool {
	return p == SearchProviderSerpAPI || p == SearchProviderGoogle
}

// RequiresEngineID returns true if this provider needs a search engine id.
func (p SearchProvider) RequiresEngineID() bool {
	return p == SearchProviderGoogle
}

// String returns the string representation.
func (p SearchProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL overrides the provider endpoint (Ollama, self-hosted gateways).
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
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
	Model string `validate:"required"`

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key.
	APIKey string
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

// SearchSettings holds web search configuration.
type SearchSettings struct {
	Provider SearchProvider

	// APIKey is the credential of the selected provider: the SerpAPI key,
	// the Google API key, or an optional GitHub token.
	APIKey string

	// EngineID is the Programmable Search engine id (google only).
	EngineID string

	MaxResults int `validate:"min=1,max=100"`
}

// IngestSettings bounds the cost of one ingestion run.
type IngestSettings struct {
	MaxPages       int `validate:"min=1,max=100"`
	MinTextLength  int `validate:"min=0"`
	MaxTotalChunks int `validate:"min=1"`
	ChunkSize      int `validate:"min=16"`
	ChunkOverlap   int `validate:"min=0,ltfield=ChunkSize"`
	EmbedBatchSize int `validate:"min=1,max=2048"`
}

// HTTPSettings controls outbound requests.
type HTTPSettings struct {
	Timeout      time.Duration `validate:"min=1s"`
	MaxRetries   int           `validate:"min=0,max=10"`
	RateLimitRPS float64       `validate:"gt=0"`
	UserAgent    string        `validate:"required"`
}

// StoreSettings locates the persistent vector store.
type StoreSettings struct {
	Dir              string `validate:"required"`
	CollectionPrefix string
}

// Config is the immutable, validated process configuration.
// It is built once at startup and passed by value into constructors.
type Config struct {
	LLM       LLMSettings
	Embedding EmbeddingSettings
	Search    SearchSettings
	Ingest    IngestSettings
	HTTP      HTTPSettings
	Store     StoreSettings

	// RetrievalTopK is the default number of contexts retrieved per question.
	RetrievalTopK int `validate:"min=1,max=100"`

	LogLevel    string `validate:"oneof=DEBUG INFO WARN ERROR"`
	PrintConfig bool
}

// Redacted renders the configuration with API keys masked.
func (c Config) Redacted() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("[LLM]")
	line("  Provider: %s", c.LLM.Provider.Description())
	line("  Model: %s", c.LLM.Model)
	if c.LLM.BaseURL != "" {
		line("  Base URL: %s", c.LLM.BaseURL)
	}
	if c.LLM.Provider.RequiresAPIKey() {
		line("  API Key: %s", MaskSecret(c.LLM.APIKey))
	}
	line("[Embedding]")
	line("  Provider: %s", c.Embedding.Provider.Description())
	line("  Model: %s", c.Embedding.Model)
	if c.Embedding.BaseURL != "" {
		line("  Base URL: %s", c.Embedding.BaseURL)
	}
	if c.Embedding.Provider.RequiresAPIKey() {
		line("  API Key: %s", MaskSecret(c.Embedding.APIKey))
	}
	line("[Search]")
	line("  Provider: %s", c.Search.Provider)
	line("  Max results: %d", c.Search.MaxResults)
	if c.Search.Provider.RequiresAPIKey() || c.Search.APIKey != "" {
		line("  API Key: %s", MaskSecret(c.Search.APIKey))
	}
	if c.Search.Provider.RequiresEngineID() {
		line("  Engine ID: %s", c.Search.EngineID)
	}
	line("[Ingest]")
	line("  Max pages: %d", c.Ingest.MaxPages)
	line("  Min text length: %d", c.Ingest.MinTextLength)
	line("  Max total chunks: %d", c.Ingest.MaxTotalChunks)
	line("  Chunk size/overlap: %d/%d tokens", c.Ingest.ChunkSize, c.Ingest.ChunkOverlap)
	line("  Embed batch size: %d", c.Ingest.EmbedBatchSize)
	line("[HTTP]")
	line("  Timeout: %s", c.HTTP.Timeout)
	line("  Max retries: %d", c.HTTP.MaxRetries)
	line("  Rate limit: %.2f req/s", c.HTTP.RateLimitRPS)
	line("  User agent: %s", c.HTTP.UserAgent)
	line("[Store]")
	line("  Directory: %s", c.Store.Dir)
	line("  Collection prefix: %s", c.Store.CollectionPrefix)
	line("[Retrieval]")
	line("  Top K: %d", c.RetrievalTopK)
	line("  Log level: %s", c.LogLevel)

	return b.String()
}

// MaskSecret shows the first and last four characters of a key.
func MaskSecret(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
