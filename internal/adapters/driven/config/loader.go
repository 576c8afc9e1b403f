// Package config builds the immutable domain.Config at startup.
//
// Values are layered, highest precedence first:
//
//  1. process environment
//  2. .env file in the working directory (never overrides the environment)
//  3. the TOML ConfigStore (~/.scout/config.toml), dotted keys
//  4. built-in defaults
//
// The result is range-checked with validator struct tags and rejected when
// a selected provider needs an API key that is absent.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/scout/internal/adapters/driven/config/value"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// DefaultUserAgent identifies scout to the sites it fetches.
const DefaultUserAgent = "ScoutResearch/1.0 (+https://github.com/custodia-labs/scout)"

// MemoryStoreDir selects the in-memory vector store instead of sqlite.
const MemoryStoreDir = ":memory:"

// Options controls where Load reads from.
type Options struct {
	// EnvFile is the dotenv file to read. Empty means ".env".
	// A missing file is ignored.
	EnvFile string

	// Store holds file-based settings. Nil skips the TOML layer.
	Store driven.ConfigStore

	// LookupEnv reads the process environment. Nil means os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

var defaultLLMModels = map[domain.AIProvider]string{
	domain.AIProviderOpenAI:    "gpt-4o-mini",
	domain.AIProviderAnthropic: "claude-3-5-haiku-latest",
	domain.AIProviderGemini:    "gemini-2.0-flash",
	domain.AIProviderGroq:      "llama-3.1-8b-instant",
	domain.AIProviderOllama:    "llama3.2",
}

var defaultEmbeddingModels = map[domain.AIProvider]string{
	domain.AIProviderOpenAI: "text-embedding-3-small",
	domain.AIProviderGemini: "gemini-embedding-001",
	domain.AIProviderOllama: "nomic-embed-text",
}

// apiKeyVars maps a provider to its key in the environment and in TOML.
var apiKeyVars = map[domain.AIProvider]struct{ env, toml string }{
	domain.AIProviderOpenAI:    {"OPENAI_API_KEY", "keys.openai"},
	domain.AIProviderAnthropic: {"ANTHROPIC_API_KEY", "keys.anthropic"},
	domain.AIProviderGemini:    {"GOOGLE_API_KEY", "keys.google"},
	domain.AIProviderGroq:      {"GROQ_API_KEY", "keys.groq"},
}

// searchKeyVars maps a search provider to its credential.
var searchKeyVars = map[domain.SearchProvider]struct{ env, toml string }{
	domain.SearchProviderSerpAPI: {"SERPAPI_API_KEY", "keys.serpapi"},
	domain.SearchProviderGoogle:  {"GOOGLE_API_KEY", "keys.google"},
	domain.SearchProviderGitHub:  {"GITHUB_TOKEN", "keys.github"},
}

// Load reads, layers and validates the configuration.
// Every failure wraps domain.ErrInvalidConfig.
func Load(opts Options) (domain.Config, error) {
	src, err := newSource(opts)
	if err != nil {
		return domain.Config{}, err
	}

	cfg := src.build()
	if len(src.errs) > 0 {
		return domain.Config{}, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(src.errs...))
	}
	if err := Validate(cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// Validate checks providers, ranges and required API keys.
func Validate(cfg domain.Config) error {
	if !cfg.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: %w: LLM_PROVIDER=%q", domain.ErrInvalidConfig, domain.ErrUnsupportedProvider, cfg.LLM.Provider)
	}
	if !cfg.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("%w: %w: EMBEDDINGS_PROVIDER=%q", domain.ErrInvalidConfig, domain.ErrUnsupportedProvider, cfg.Embedding.Provider)
	}
	if !cfg.Search.Provider.IsValid() {
		return fmt.Errorf("%w: %w: SEARCH_PROVIDER=%q", domain.ErrInvalidConfig, domain.ErrUnsupportedProvider, cfg.Search.Provider)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	var missing []string
	if !cfg.LLM.IsConfigured() {
		missing = append(missing, fmt.Sprintf("%s (LLM_PROVIDER=%s)", apiKeyVars[cfg.LLM.Provider].env, cfg.LLM.Provider))
	}
	if !cfg.Embedding.IsConfigured() {
		missing = append(missing, fmt.Sprintf("%s (EMBEDDINGS_PROVIDER=%s)", apiKeyVars[cfg.Embedding.Provider].env, cfg.Embedding.Provider))
	}
	if cfg.Search.Provider.RequiresAPIKey() && cfg.Search.APIKey == "" {
		missing = append(missing, fmt.Sprintf("%s (SEARCH_PROVIDER=%s)", searchKeyVars[cfg.Search.Provider].env, cfg.Search.Provider))
	}
	if cfg.Search.Provider.RequiresEngineID() && cfg.Search.EngineID == "" {
		missing = append(missing, fmt.Sprintf("GOOGLE_CSE_ID (SEARCH_PROVIDER=%s)", cfg.Search.Provider))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidConfig, strings.Join(missing, ", "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() == "" {
		return fmt.Sprintf("%s failed %q (got %v)", field, fe.Tag(), fe.Value())
	}
	return fmt.Sprintf("%s must satisfy %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
}

// source resolves one setting across the layers and records parse errors.
type source struct {
	lookup func(string) (string, bool)
	dotenv map[string]string
	store  driven.ConfigStore
	errs   []error
}

func newSource(opts Options) (*source, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}

	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrInvalidConfig, envFile, err)
		}
		dotenv = map[string]string{}
	}

	return &source{lookup: lookup, dotenv: dotenv, store: opts.Store}, nil
}

// raw returns the first layer that defines the setting.
func (s *source) raw(env, key string) (any, bool) {
	if v, ok := s.lookup(env); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if v, ok := s.dotenv[env]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), true
	}
	if s.store != nil && key != "" {
		if v, ok := s.store.Get(key); ok {
			return v, true
		}
	}
	return nil, false
}

func (s *source) str(env, key, def string) string {
	v, ok := s.raw(env, key)
	if !ok {
		return def
	}
	str, ok := value.String(v)
	if !ok {
		s.errs = append(s.errs, fmt.Errorf("%s: expected a string", env))
		return def
	}
	return str
}

func (s *source) integer(env, key string, def int) int {
	v, ok := s.raw(env, key)
	if !ok {
		return def
	}
	n, ok := value.Int(v)
	if !ok {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not an integer", env, value.Format(v)))
		return def
	}
	return n
}

func (s *source) float(env, key string, def float64) float64 {
	v, ok := s.raw(env, key)
	if !ok {
		return def
	}
	f, ok := value.Float(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a number", env, value.Format(v)))
		return def
	}
	return f
}

func (s *source) boolean(env, key string, def bool) bool {
	v, ok := s.raw(env, key)
	if !ok {
		return def
	}
	b, ok := value.Bool(v)
	if !ok {
		s.errs = append(s.errs, fmt.Errorf("%s: %q is not a boolean", env, value.Format(v)))
		return def
	}
	return b
}

func (s *source) apiKey(p domain.AIProvider) string {
	vars, ok := apiKeyVars[p]
	if !ok {
		return ""
	}
	key := s.str(vars.env, vars.toml, "")
	if key == "" && p == domain.AIProviderGemini {
		key = s.str("GEMINI_API_KEY", "", "")
	}
	return key
}

func (s *source) searchKey(p domain.SearchProvider) string {
	vars, ok := searchKeyVars[p]
	if !ok {
		return ""
	}
	return s.str(vars.env, vars.toml, "")
}

func (s *source) build() domain.Config {
	llmProvider := domain.AIProvider(strings.ToLower(s.str("LLM_PROVIDER", "llm.provider", "openai")))
	embProvider := domain.AIProvider(strings.ToLower(s.str("EMBEDDINGS_PROVIDER", "embedding.provider", "openai")))
	searchProvider := domain.SearchProvider(strings.ToLower(s.str("SEARCH_PROVIDER", "search.provider", "serpapi")))

	timeoutSeconds := s.float("REQUEST_TIMEOUT_SECONDS", "http.timeout_seconds", 15)

	return domain.Config{
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.str("LLM_MODEL", "llm.model", defaultLLMModels[llmProvider]),
			BaseURL:  s.str("LLM_BASE_URL", "llm.base_url", ""),
			APIKey:   s.apiKey(llmProvider),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: embProvider,
			Model:    s.str("EMBEDDING_MODEL", "embedding.model", defaultEmbeddingModels[embProvider]),
			BaseURL:  s.str("EMBEDDING_BASE_URL", "embedding.base_url", ""),
			APIKey:   s.apiKey(embProvider),
		},
		Search: domain.SearchSettings{
			Provider:   searchProvider,
			APIKey:     s.searchKey(searchProvider),
			EngineID:   s.str("GOOGLE_CSE_ID", "search.google_cx", ""),
			MaxResults: s.integer("MAX_SEARCH_RESULTS", "search.max_results", 20),
		},
		Ingest: domain.IngestSettings{
			MaxPages:       s.integer("MAX_PAGES_TO_SCRAPE", "ingest.max_pages", 20),
			MinTextLength:  s.integer("MIN_TEXT_LENGTH", "ingest.min_text_length", 1200),
			MaxTotalChunks: s.integer("MAX_TOTAL_CHUNKS", "ingest.max_total_chunks", 200),
			ChunkSize:      s.integer("CHUNK_SIZE_TOKENS", "ingest.chunk_size", 800),
			ChunkOverlap:   s.integer("CHUNK_OVERLAP_TOKENS", "ingest.chunk_overlap", 120),
			EmbedBatchSize: s.integer("EMBED_BATCH_SIZE", "ingest.embed_batch_size", 64),
		},
		HTTP: domain.HTTPSettings{
			Timeout:      time.Duration(timeoutSeconds * float64(time.Second)),
			MaxRetries:   s.integer("MAX_RETRIES", "http.max_retries", 2),
			RateLimitRPS: s.float("RATE_LIMIT_RPS", "http.rate_limit_rps", 2),
			UserAgent:    s.str("USER_AGENT", "http.user_agent", DefaultUserAgent),
		},
		Store: domain.StoreSettings{
			Dir:              s.str("VECTORSTORE_DIR", "store.dir", "./vectorstore"),
			CollectionPrefix: s.str("COLLECTION_PREFIX", "store.collection_prefix", "research_"),
		},
		RetrievalTopK: s.integer("RETRIEVAL_TOP_K", "retrieval.top_k", 6),
		LogLevel:      normaliseLevel(s.str("LOG_LEVEL", "log.level", "INFO")),
		PrintConfig:   s.boolean("PRINT_CONFIG_ON_STARTUP", "log.print_config", true),
	}
}

func normaliseLevel(l string) string {
	l = strings.ToUpper(strings.TrimSpace(l))
	if l == "WARNING" {
		return "WARN"
	}
	return l
}

// Describe lists every setting with its environment variable and TOML key,
// for `scout config keys`.
func Describe() [][3]string {
	return [][3]string{
		{"LLM_PROVIDER", "llm.provider", "openai"},
		{"LLM_MODEL", "llm.model", "provider default"},
		{"LLM_BASE_URL", "llm.base_url", "provider default"},
		{"EMBEDDINGS_PROVIDER", "embedding.provider", "openai"},
		{"EMBEDDING_MODEL", "embedding.model", "provider default"},
		{"EMBEDDING_BASE_URL", "embedding.base_url", "provider default"},
		{"SEARCH_PROVIDER", "search.provider", "serpapi"},
		{"GOOGLE_CSE_ID", "search.google_cx", ""},
		{"MAX_SEARCH_RESULTS", "search.max_results", "20"},
		{"MAX_PAGES_TO_SCRAPE", "ingest.max_pages", "20"},
		{"MIN_TEXT_LENGTH", "ingest.min_text_length", "1200"},
		{"MAX_TOTAL_CHUNKS", "ingest.max_total_chunks", "200"},
		{"CHUNK_SIZE_TOKENS", "ingest.chunk_size", "800"},
		{"CHUNK_OVERLAP_TOKENS", "ingest.chunk_overlap", "120"},
		{"EMBED_BATCH_SIZE", "ingest.embed_batch_size", "64"},
		{"REQUEST_TIMEOUT_SECONDS", "http.timeout_seconds", "15"},
		{"MAX_RETRIES", "http.max_retries", "2"},
		{"RATE_LIMIT_RPS", "http.rate_limit_rps", "2"},
		{"USER_AGENT", "http.user_agent", DefaultUserAgent},
		{"VECTORSTORE_DIR", "store.dir", "./vectorstore"},
		{"COLLECTION_PREFIX", "store.collection_prefix", "research_"},
		{"RETRIEVAL_TOP_K", "retrieval.top_k", "6"},
		{"LOG_LEVEL", "log.level", "INFO"},
		{"PRINT_CONFIG_ON_STARTUP", "log.print_config", "true"},
		{"OPENAI_API_KEY", "keys.openai", ""},
		{"ANTHROPIC_API_KEY", "keys.anthropic", ""},
		{"GOOGLE_API_KEY", "keys.google", ""},
		{"GROQ_API_KEY", "keys.groq", ""},
		{"SERPAPI_API_KEY", "keys.serpapi", ""},
		{"GITHUB_TOKEN", "keys.github", ""},
	}
}
