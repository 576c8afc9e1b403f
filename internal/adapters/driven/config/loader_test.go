package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scout/internal/core/domain"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// noEnvFile points at a path that does not exist.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{
		EnvFile: noEnvFile(t),
		LookupEnv: envFrom(map[string]string{
			"OPENAI_API_KEY":  "sk-test-openai",
			"SERPAPI_API_KEY": "serp-key",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test-openai", cfg.LLM.APIKey)
	assert.Equal(t, domain.AIProviderOpenAI, cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, "sk-test-openai", cfg.Embedding.APIKey)
	assert.Equal(t, domain.SearchProviderSerpAPI, cfg.Search.Provider)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, domain.IngestSettings{
		MaxPages:       20,
		MinTextLength:  1200,
		MaxTotalChunks: 200,
		ChunkSize:      800,
		ChunkOverlap:   120,
		EmbedBatchSize: 64,
	}, cfg.Ingest)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.InDelta(t, 2.0, cfg.HTTP.RateLimitRPS, 1e-9)
	assert.Equal(t, DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, "./vectorstore", cfg.Store.Dir)
	assert.Equal(t, "research_", cfg.Store.CollectionPrefix)
	assert.Equal(t, 6, cfg.RetrievalTopK)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.True(t, cfg.PrintConfig)
}

func TestLoad_LocalProvidersNeedNoKeys(t *testing.T) {
	cfg, err := Load(Options{
		EnvFile: noEnvFile(t),
		LookupEnv: envFrom(map[string]string{
			"LLM_PROVIDER":        "Ollama",
			"EMBEDDINGS_PROVIDER": "ollama",
			"SEARCH_PROVIDER":     "duckduckgo",
			"LOG_LEVEL":           "warning",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, domain.SearchProviderDuckDuckGo, cfg.Search.Provider)
	assert.Equal(t, "WARN", cfg.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MAX_PAGES_TO_SCRAPE=7\nRETRIEVAL_TOP_K=9\nOPENAI_API_KEY=sk-from-dotenv\n"), 0600))

	store := memory.NewConfigStore(map[string]any{
		"ingest.max_pages":    int64(3),
		"retrieval.top_k":     int64(4),
		"store.dir":           "/data/vectors",
		"http.rate_limit_rps": 0.5,
		"search.provider":     "duckduckgo",
		"log.print_config":    false,
	})

	cfg, err := Load(Options{
		EnvFile: envFile,
		Store:   store,
		LookupEnv: envFrom(map[string]string{
			"MAX_PAGES_TO_SCRAPE": "11",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, 11, cfg.Ingest.MaxPages, "environment wins over .env and TOML")
	assert.Equal(t, 9, cfg.RetrievalTopK, ".env wins over TOML")
	assert.Equal(t, "/data/vectors", cfg.Store.Dir, "TOML wins over defaults")
	assert.InDelta(t, 0.5, cfg.HTTP.RateLimitRPS, 1e-9)
	assert.Equal(t, "sk-from-dotenv", cfg.LLM.APIKey)
	assert.False(t, cfg.PrintConfig)

	_, set := os.LookupEnv("RETRIEVAL_TOP_K")
	assert.False(t, set, ".env must not modify the process environment")
}

func TestLoad_ProviderKeys(t *testing.T) {
	cfg, err := Load(Options{
		EnvFile: noEnvFile(t),
		Store: memory.NewConfigStore(map[string]any{
			"keys.anthropic": "sk-ant-toml",
		}),
		LookupEnv: envFrom(map[string]string{
			"LLM_PROVIDER":        "anthropic",
			"EMBEDDINGS_PROVIDER": "gemini",
			"GEMINI_API_KEY":      "gem-key",
			"SEARCH_PROVIDER":     "duckduckgo",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-ant-toml", cfg.LLM.APIKey)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
	assert.Equal(t, "gem-key", cfg.Embedding.APIKey)
	assert.Equal(t, "gemini-embedding-001", cfg.Embedding.Model)
}

func TestLoad_SearchProviderKeys(t *testing.T) {
	base := map[string]string{"LLM_PROVIDER": "ollama", "EMBEDDINGS_PROVIDER": "ollama"}
	with := func(extra map[string]string) map[string]string {
		m := map[string]string{}
		for k, v := range base {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	cfg, err := Load(Options{EnvFile: noEnvFile(t), LookupEnv: envFrom(with(map[string]string{
		"SEARCH_PROVIDER": "google",
		"GOOGLE_API_KEY":  "g-key",
		"GOOGLE_CSE_ID":   "cx-1",
	}))})
	require.NoError(t, err)
	assert.Equal(t, domain.SearchProviderGoogle, cfg.Search.Provider)
	assert.Equal(t, "g-key", cfg.Search.APIKey)
	assert.Equal(t, "cx-1", cfg.Search.EngineID)

	cfg, err = Load(Options{EnvFile: noEnvFile(t), LookupEnv: envFrom(with(map[string]string{
		"SEARCH_PROVIDER": "github",
	}))})
	require.NoError(t, err, "github token is optional")
	assert.Empty(t, cfg.Search.APIKey)

	cfg, err = Load(Options{
		EnvFile: noEnvFile(t),
		Store:   memory.NewConfigStore(map[string]any{"keys.github": "ghp_toml"}),
		LookupEnv: envFrom(with(map[string]string{
			"SEARCH_PROVIDER": "github",
			"SERPAPI_API_KEY": "ignored",
		})),
	})
	require.NoError(t, err)
	assert.Equal(t, "ghp_toml", cfg.Search.APIKey)

	_, err = Load(Options{EnvFile: noEnvFile(t), LookupEnv: envFrom(with(map[string]string{
		"SEARCH_PROVIDER": "google",
		"GOOGLE_API_KEY":  "g-key",
	}))})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "GOOGLE_CSE_ID")
}

func TestLoad_FailsFast(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing openai key",
			env:     map[string]string{"SEARCH_PROVIDER": "duckduckgo"},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "OPENAI_API_KEY",
		},
		{
			name: "serpapi without key",
			env: map[string]string{
				"LLM_PROVIDER": "ollama", "EMBEDDINGS_PROVIDER": "ollama",
			},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "SERPAPI_API_KEY",
		},
		{
			name:    "unknown llm provider",
			env:     map[string]string{"LLM_PROVIDER": "cohere"},
			wantErr: domain.ErrUnsupportedProvider,
		},
		{
			name:    "anthropic cannot embed",
			env:     map[string]string{"EMBEDDINGS_PROVIDER": "anthropic"},
			wantErr: domain.ErrUnsupportedProvider,
		},
		{
			name:    "unknown search provider",
			env:     map[string]string{"SEARCH_PROVIDER": "bing", "OPENAI_API_KEY": "k"},
			wantErr: domain.ErrUnsupportedProvider,
		},
		{
			name: "not an integer",
			env: map[string]string{
				"MAX_PAGES_TO_SCRAPE": "lots", "OPENAI_API_KEY": "k", "SERPAPI_API_KEY": "k",
			},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "MAX_PAGES_TO_SCRAPE",
		},
		{
			name: "overlap not below size",
			env: map[string]string{
				"CHUNK_SIZE_TOKENS": "100", "CHUNK_OVERLAP_TOKENS": "100",
				"OPENAI_API_KEY": "k", "SERPAPI_API_KEY": "k",
			},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "Ingest.ChunkOverlap",
		},
		{
			name: "zero rate limit",
			env: map[string]string{
				"RATE_LIMIT_RPS": "0", "OPENAI_API_KEY": "k", "SERPAPI_API_KEY": "k",
			},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "HTTP.RateLimitRPS",
		},
		{
			name: "bad log level",
			env: map[string]string{
				"LOG_LEVEL": "LOUD", "OPENAI_API_KEY": "k", "SERPAPI_API_KEY": "k",
			},
			wantErr: domain.ErrInvalidConfig,
			wantMsg: "LogLevel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Options{EnvFile: noEnvFile(t), LookupEnv: envFrom(tt.env)})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	// A directory cannot be read as a dotenv file.
	require.NoError(t, os.Mkdir(envFile, 0700))

	_, err := Load(Options{EnvFile: envFile, LookupEnv: envFrom(nil)})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestDescribe_CoversDocumentedKeys(t *testing.T) {
	rows := Describe()
	seen := map[string]bool{}
	for _, r := range rows {
		seen[r[0]] = true
	}
	for _, k := range []string{"LLM_PROVIDER", "EMBED_BATCH_SIZE", "VECTORSTORE_DIR", "SERPAPI_API_KEY", "GOOGLE_CSE_ID", "GITHUB_TOKEN"} {
		assert.True(t, seen[k], k)
	}
}
