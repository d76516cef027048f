// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires together all dependencies and exposes methods to run
// different operational modes:
//
//   - Serve mode: scheduled ingestion cycles plus the content API
//   - Ingest mode: one ingestion cycle, then exit
//
// Each mode can be run independently based on deployment needs.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/teluguwire/newsroom/internal/api"
	"github.com/teluguwire/newsroom/internal/ingest"
	"github.com/teluguwire/newsroom/internal/platform/config"
	"github.com/teluguwire/newsroom/internal/platform/observability"
	"github.com/teluguwire/newsroom/internal/platform/worker"
	"github.com/teluguwire/newsroom/internal/process/classify"
	"github.com/teluguwire/newsroom/internal/process/dedup"
	"github.com/teluguwire/newsroom/internal/process/normalize"
	db "github.com/teluguwire/newsroom/internal/storage"
)

// App holds the application dependencies and provides methods to run
// different modes.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server.
func (a *App) StartHealthServer(ctx context.Context) error {
	srv := observability.NewServer(a.database, a.cfg.HealthPort, a.logger)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("health server start: %w", err)
	}

	return nil
}

// RunServe runs the scheduled ingestion loop alongside the content API.
func (a *App) RunServe(ctx context.Context) error {
	a.logger.Info().Msg("Starting serve mode")

	orchestrator := a.newOrchestrator()

	var cache *api.Cache
	if a.cfg.RedisAddr != "" {
		cache = api.NewCache(a.cfg.RedisAddr, a.cfg.ListCacheTTL, a.logger)
		defer func() {
			_ = cache.Close()
		}()
	} else {
		a.logger.Info().Msg("REDIS_ADDR not set, list caching disabled")
	}

	handler := api.NewHandler(a.database, orchestrator, cache, a.logger)
	apiServer := api.NewServer(handler, a.cfg.APIPort, a.logger)

	go func() {
		if err := apiServer.Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("api server error")
		}
	}()

	return worker.TickerLoop(ctx, worker.TickerConfig{
		Name:       "ingest-scheduler",
		Interval:   a.cfg.IngestInterval,
		RunOnStart: a.cfg.IngestRunOnStart,
		OnTick: func(tickCtx context.Context) {
			a.runCycle(tickCtx, orchestrator)
		},
		Logger: a.logger,
	})
}

// RunIngest runs a single ingestion cycle and exits.
func (a *App) RunIngest(ctx context.Context) error {
	a.logger.Info().Msg("Starting one-shot ingest mode")

	result, err := a.newOrchestrator().RunCycle(ctx)
	if err != nil {
		return fmt.Errorf("ingestion cycle: %w", err)
	}

	a.logger.Info().Int("inserted", result.InsertedCount()).Msg("one-shot ingest finished")

	return nil
}

func (a *App) runCycle(ctx context.Context, orchestrator *ingest.Orchestrator) {
	result, err := orchestrator.RunCycle(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("ingestion cycle failed")
		return
	}

	for _, src := range result.Sources {
		if src.Err != nil {
			a.logger.Warn().Err(src.Err).Str("source", src.Source).Msg("source failed this cycle")
		}
	}
}

// newOrchestrator assembles the pipeline from configuration. Adapters
// without configuration are simply not registered.
func (a *App) newOrchestrator() *ingest.Orchestrator {
	var sources []ingest.Source

	if a.cfg.NewsAPIKey != "" {
		sources = append(sources, ingest.NewNewsAPISource(ingest.NewsAPIConfig{
			APIKey:         a.cfg.NewsAPIKey,
			Country:        a.cfg.NewsAPICountry,
			Category:       a.cfg.NewsAPICategory,
			RequestsPerMin: a.cfg.NewsAPIRPM,
			Timeout:        a.cfg.NewsAPITimeout,
		}))
	}

	if len(a.cfg.FeedURLs) > 0 {
		sources = append(sources, ingest.NewRSSSource(a.cfg.FeedURLs, a.cfg.FeedTimeout, a.logger))
	}

	if a.cfg.ScrapeURL != "" {
		sources = append(sources, ingest.NewScrapeSource(ingest.ScrapeConfig{
			PageURL:         a.cfg.ScrapeURL,
			SourceName:      a.cfg.ScrapeSource,
			ArticleSelector: a.cfg.ScrapeSelector,
			UserAgent:       a.cfg.ScrapeUA,
			Timeout:         a.cfg.ScrapeTimeout,
		}, a.logger))
	}

	var social *ingest.SocialSource
	if len(a.cfg.SocialAccounts) > 0 {
		social = ingest.NewSocialSource(ingest.SocialConfig{
			Accounts: a.cfg.SocialAccounts,
			MaxPosts: a.cfg.SocialMaxPosts,
			NavWait:  a.cfg.SocialNavWait,
			Scrolls:  a.cfg.SocialScrolls,
			BaseURL:  a.cfg.SocialBaseURL,
		}, ingest.NewChromeBrowser(a.cfg.SocialHeadless), a.logger)
	}

	normalizer := normalize.New(normalize.Options{
		FallbackImageURL: a.cfg.FallbackImageURL,
		TeluguSources:    a.cfg.TeluguSources,
		DefaultRegion:    a.cfg.DefaultRegion,
	})

	classifier := classify.New(classify.DefaultCategories())
	gate := dedup.New(a.database, a.cfg.DedupLookback(), a.cfg.DedupThreshold, a.logger)

	return ingest.NewOrchestrator(sources, social, normalizer, classifier, gate, a.database, a.logger)
}
