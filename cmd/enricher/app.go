package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/company-enricher/internal/cache"
	"github.com/jonathan/company-enricher/internal/config"
	"github.com/jonathan/company-enricher/internal/enrich"
	"github.com/jonathan/company-enricher/internal/fetch"
	"github.com/jonathan/company-enricher/internal/llm"
	"github.com/jonathan/company-enricher/internal/logging"
	"github.com/jonathan/company-enricher/internal/metrics"
)

// envFile is read by config.Load in addition to the process environment.
const envFile = ".env"

// app holds the wired pipeline shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	service *enrich.Service
	client  llm.Client
}

// newApp loads configuration and wires cache, fetcher, model client and orchestrator.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store := cache.NewMemory(cfg.CacheTTL)
	m := metrics.New(store.Len)

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.FetchTimeout
	fetchOpts.UseBrowser = cfg.UseBrowser
	fetcher := fetch.New(fetchOpts, logger.Named("fetch"))

	var client llm.Client
	if cfg.AIEnabled() {
		llmCfg := llm.DefaultConfig().WithModel(cfg.GeminiModel)
		client, err = llm.NewClient(ctx, llmCfg, cfg.GeminiAPIKey)
		if err != nil {
			_ = logger.Sync()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, using heuristic enrichment only")
	}

	service := enrich.NewService(store, fetcher, llm.NewStructurer(client, cfg.AITimeout), enrich.Options{
		DedupeInflight: cfg.DedupeInflight,
		Metrics:        m,
		Logger:         logger.Named("enrich"),
	})

	return &app{cfg: cfg, logger: logger, metrics: m, service: service, client: client}, nil
}

// Close releases the model client and flushes the logger.
func (a *app) Close() {
	if a.client != nil {
		if err := a.client.Close(); err != nil {
			a.logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
