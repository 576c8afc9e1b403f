// Package app wires scout's adapters and core services from a validated
// configuration. It is the only place that knows every concrete adapter.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/scout/internal/adapters/driven/ai"
	"github.com/custodia-labs/scout/internal/adapters/driven/config"
	"github.com/custodia-labs/scout/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scout/internal/adapters/driven/fetcher"
	"github.com/custodia-labs/scout/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scout/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scout/internal/adapters/driven/websearch/duckduckgo"
	"github.com/custodia-labs/scout/internal/adapters/driven/websearch/github"
	"github.com/custodia-labs/scout/internal/adapters/driven/websearch/google"
	"github.com/custodia-labs/scout/internal/adapters/driven/websearch/serpapi"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
	"github.com/custodia-labs/scout/internal/core/services"
	"github.com/custodia-labs/scout/internal/logger"
	"github.com/custodia-labs/scout/internal/normalisers/html"
	"github.com/custodia-labs/scout/internal/postprocessors/chunker"
)

// Options holds the paths that are not part of domain.Config.
type Options struct {
	// PromptDir holds the editable answer prompts. Empty uses ~/.scout/prompts.
	PromptDir string
}

// App holds the wired services.
type App struct {
	Research   *services.ResearchAgent
	Ingest     *services.IngestService
	QA         *services.QAService
	Namespaces *services.NamespaceService

	store   driven.VectorStore
	models  *ai.Models
	prompts *file.PromptStore
}

// New builds every adapter named by cfg and wires the services.
func New(ctx context.Context, cfg domain.Config, opts Options) (*App, error) {
	logger.Section("Bootstrap")

	store, runs, err := newStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	models, err := ai.Open(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	prompts, err := file.NewPromptStore(opts.PromptDir)
	if err != nil {
		_ = models.Close()
		store.Close()
		return nil, fmt.Errorf("opening prompt store: %w", err)
	}

	search, err := newSearchProvider(ctx, cfg)
	if err != nil {
		_ = models.Close()
		store.Close()
		return nil, err
	}

	fetch := fetcher.New(fetcher.Config{
		Timeout:      cfg.HTTP.Timeout,
		MaxRetries:   cfg.HTTP.MaxRetries,
		RateLimitRPS: cfg.HTTP.RateLimitRPS,
		UserAgent:    cfg.HTTP.UserAgent,
	})

	indexer := services.NewIndexer(store, cfg.Store.CollectionPrefix)
	embedder := services.NewEmbedder(models.Embedder, cfg.Ingest.EmbedBatchSize, cfg.HTTP.MaxRetries)

	ingest := services.NewIngestService(services.IngestDeps{
		Search:    services.NewWebSearch(search, cfg.Search.MaxResults, cfg.HTTP.MaxRetries),
		Fetcher:   fetch,
		Extractor: html.New(),
		Chunker: chunker.New(
			chunker.WithChunkSize(cfg.Ingest.ChunkSize),
			chunker.WithOverlap(cfg.Ingest.ChunkOverlap),
		),
		Embedder: embedder,
		Indexer:  indexer,
		Runs:     runs,
	}, cfg.Ingest)

	synth := services.NewSynthesizer(models.LLM)
	synth.SetPromptStore(prompts)

	qa := services.NewQAService(
		services.NewRetriever(indexer, store, models.Embedder),
		synth,
		cfg.RetrievalTopK,
	)

	logger.Debug("store=%s llm=%s/%s embedding=%s/%s search=%s",
		cfg.Store.Dir, cfg.LLM.Provider, cfg.LLM.Model,
		cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Search.Provider)

	return &App{
		Research:   services.NewResearchAgent(ingest, qa, indexer, cfg.RetrievalTopK),
		Ingest:     ingest,
		QA:         qa,
		Namespaces: services.NewNamespaceService(store, indexer, runs),
		store:      store,
		models:     models,
		prompts:    prompts,
	}, nil
}

// WatchPrompts reloads edited prompt files until ctx is cancelled.
// A watcher that cannot start is logged and the cached prompts stay in use.
func (a *App) WatchPrompts(ctx context.Context) {
	if err := a.prompts.Watch(ctx); err != nil {
		logger.Warn("prompt files will not reload: %v", err)
	}
}

// Close releases the model clients and the vector store.
func (a *App) Close() error {
	var errs []error
	if err := a.models.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing model clients: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing vector store: %w", err))
	}
	return errors.Join(errs...)
}

func newStore(settings domain.StoreSettings) (driven.VectorStore, driven.RunStore, error) {
	if settings.Dir == config.MemoryStoreDir {
		logger.Debug("using in-memory vector store")
		return memory.NewVectorStore(), memory.NewRunStore(), nil
	}

	store, err := sqlite.NewStore(settings.Dir)
	if err != nil {
		return nil, nil, err
	}
	return store, store, nil
}

func newSearchProvider(ctx context.Context, cfg domain.Config) (driven.SearchProvider, error) {
	switch cfg.Search.Provider {
	case domain.SearchProviderDuckDuckGo:
		return duckduckgo.New(duckduckgo.Config{
			Timeout:   cfg.HTTP.Timeout,
			UserAgent: cfg.HTTP.UserAgent,
		}), nil
	case domain.SearchProviderGoogle:
		p, err := google.New(ctx, google.Config{
			APIKey:   cfg.Search.APIKey,
			EngineID: cfg.Search.EngineID,
			Timeout:  cfg.HTTP.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating google search: %w", err)
		}
		return p, nil
	case domain.SearchProviderGitHub:
		p, err := github.New(github.Config{
			Token:   cfg.Search.APIKey,
			Timeout: cfg.HTTP.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating github search: %w", err)
		}
		return p, nil
	default:
		return serpapi.New(serpapi.Config{
			APIKey:  cfg.Search.APIKey,
			Timeout: cfg.HTTP.Timeout,
		}), nil
	}
}

// Ping checks that the configured model providers answer.
func Ping(ctx context.Context, cfg domain.Config) error {
	v := ai.NewConfigValidator(cfg.HTTP.Timeout)
	var errs []error
	if err := v.ValidateEmbedding(ctx, &cfg.Embedding); err != nil {
		errs = append(errs, fmt.Errorf("embedding (%s): %w", cfg.Embedding.Provider, err))
	}
	if err := v.ValidateLLM(ctx, &cfg.LLM); err != nil {
		errs = append(errs, fmt.Errorf("llm (%s): %w", cfg.LLM.Provider, err))
	}
	return errors.Join(errs...)
}
