package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/metrics"
	"github.com/set-night/erpchat/internal/repository"
	"github.com/set-night/erpchat/internal/router"
	"github.com/set-night/erpchat/internal/service"
)

// app is the fully wired chat service and the resources behind it.
type app struct {
	cfg      *config.Config
	pools    *repository.Pools
	metrics  *metrics.Metrics
	history  *repository.HistoryStore
	chat     *service.ChatService
	reviews  *service.ReviewService
	ingestor *service.Ingestor
	closers  []func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	pools, err := repository.OpenPools(ctx, repository.URLs{
		Chat:        cfg.DatabaseURL,
		Finance:     cfg.FinanceDatabaseURL,
		HRM:         cfg.HRMDatabaseURL,
		SalesCRM:    cfg.SaleCRMDatabaseURL,
		SupplyChain: cfg.SupplyChainDatabaseURL,
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, pools: pools, metrics: metrics.New(), closers: []func(){pools.Close}}

	ingestor, retriever, err := a.documents(ctx, pools.Chat)
	if err != nil {
		a.Close()
		return nil, err
	}
	llm, err := newLLM(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	salesStore := repository.NewSalesCRMStore(pools.SalesCRM)
	a.history = repository.NewHistoryStore(pools.Chat)
	a.ingestor = ingestor
	a.reviews = service.NewReviewService(salesStore, cfg.DefaultUserID)
	a.chat = service.NewChatService(service.ChatDeps{
		Routers: []router.Router{
			router.NewFinance(repository.NewFinanceStore(pools.Finance)),
			router.NewHRM(repository.NewHRMStore(pools.HRM)),
			router.NewSalesCRM(salesStore, router.WithReviewOnRoute(cfg.ReviewOnRoute)),
			router.NewSupplyChain(repository.NewSupplyChainStore(pools.SupplyChain)),
		},
		Retriever:         retriever,
		History:           a.history,
		LLM:               llm,
		Metrics:           a.metrics,
		DefaultEmployeeID: cfg.DefaultEmployeeID,
		DefaultUserID:     cfg.DefaultUserID,
	})
	return a, nil
}

// documents wires the embedder and vector index shared by ingestion and retrieval.
func (a *app) documents(ctx context.Context, chatDB repository.DBTX) (*service.Ingestor, *service.Retriever, error) {
	embedder, err := newEmbedder(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	index, closeIndex, err := openIndex(a.cfg, chatDB)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, closeIndex)

	chunker := service.NewChunker(config.ChunkSize, config.ChunkOverlap)
	return service.NewIngestor(chunker, embedder, index, a.metrics), service.NewRetriever(embedder, index), nil
}

// newIngestApp wires ingestion only, connecting to the chat database just
// when the vector index lives there.
func newIngestApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, metrics: metrics.New()}
	var chatDB repository.DBTX
	if cfg.VectorBackend == "postgres" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		chatDB = pool
	}
	ingestor, _, err := a.documents(ctx, chatDB)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.ingestor = ingestor
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newLLM returns nil when the provider has no key, so answers report the
// model as unconfigured instead of the process refusing to start.
func newLLM(ctx context.Context, cfg *config.Config) (service.LLM, error) {
	if cfg.LLMKey() == "" {
		slog.Warn("llm api key not set, chat answers will report the model as unconfigured", "provider", cfg.LLMProvider)
		return nil, nil
	}
	switch cfg.LLMProvider {
	case "openrouter":
		return service.NewOpenRouterLLM(cfg.OpenRouterKey, cfg.LLMModel), nil
	default:
		g, err := service.NewGemini(ctx, cfg.GoogleAPIKey, cfg.LLMModel, cfg.GeminiEmbedModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
}

func newEmbedder(ctx context.Context, cfg *config.Config) (service.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "gemini":
		g, err := service.NewGemini(ctx, cfg.GoogleAPIKey, cfg.LLMModel, cfg.GeminiEmbedModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return service.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel), nil
	}
}

// openIndex opens the configured vector backend. chatDB may be nil unless
// the backend is postgres.
func openIndex(cfg *config.Config, chatDB repository.DBTX) (service.VectorIndex, func(), error) {
	switch cfg.VectorBackend {
	case "sqlite":
		idx, err := repository.NewSQLiteIndex(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return idx, func() {
			if err := idx.Close(); err != nil {
				slog.Error("close sqlite index", "error", err)
			}
		}, nil
	case "memory":
		slog.Warn("using the in-memory vector index, documents are lost on exit")
		return repository.NewMemoryIndex(), func() {}, nil
	default:
		if chatDB == nil {
			return nil, nil, errors.New("postgres vector index needs the chat database")
		}
		return repository.NewPostgresIndex(chatDB), func() {}, nil
	}
}
