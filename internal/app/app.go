package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"SEOScanner/internal/config"
	"SEOScanner/internal/infrastructure/cache"
	"SEOScanner/internal/infrastructure/kb"
	"SEOScanner/internal/infrastructure/llm"
	"SEOScanner/internal/infrastructure/moz"
	"SEOScanner/internal/infrastructure/scheduler"
	"SEOScanner/internal/infrastructure/scraper"
	"SEOScanner/internal/infrastructure/telegram"
	"SEOScanner/internal/infrastructure/vector"
	"SEOScanner/internal/insight"
	"SEOScanner/internal/logging"
	"SEOScanner/internal/ports"
	"SEOScanner/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	sched    ports.Scheduler
	db       *sql.DB
}

// New builds a runnable application instance. Adapters whose
// configuration is absent are left nil; the pipeline degrades around
// them.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	app := &Application{cfg: cfg, logger: baseLogger}

	var metrics ports.MetricsProvider
	if cfg.Moz.Token != "" {
		metrics = moz.NewClient(cfg.Moz)
	} else {
		baseLogger.Warn("moz token not set, backlink metrics disabled")
	}

	var completion ports.CompletionClient
	if cfg.LLM.APIKey != "" {
		completion = llm.NewOpenAIClient(cfg.LLM)
	} else {
		baseLogger.Warn("llm api key not set, ai insights disabled")
	}

	var similarity ports.SimilaritySearch
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		store := vector.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("preparing similarity schema: %w", err)
		}
		app.db = db
		similarity = store
	} else {
		baseLogger.Warn("database dsn not set, similarity search disabled")
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	aggregator := insight.NewAggregator(
		kb.NewKnowledgeBase(),
		similarity,
		completion,
		baseLogger.With("component", "insights"),
	)

	app.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Metrics:  metrics,
		Scraper:  scraper.NewScraper(cfg.Scraper, nil),
		Insights: aggregator,
		Cache:    cache.NewMemory(cfg.Cache.TTL),
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	if cfg.Scheduler.Interval > 0 {
		app.sched = scheduler.NewIntervalScheduler(cfg.Scheduler.Interval)
	}
	return app, nil
}

// Pipeline exposes the analysis workflow for one-shot invocations.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Run analyzes every configured site once, then keeps re-running on the
// configured interval when a scheduler is present.
func (a *Application) Run(ctx context.Context) error {
	if a.sched == nil {
		a.analyzeAll(ctx)
		return nil
	}

	if err := a.sched.Start(ctx, func(time.Time) { a.analyzeAll(ctx) }); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	<-ctx.Done()
	return a.Close(context.Background())
}

// Close releases held resources.
func (a *Application) Close(ctx context.Context) error {
	if a.sched != nil {
		if err := a.sched.Stop(ctx); err != nil {
			return err
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Application) analyzeAll(ctx context.Context) {
	for _, site := range a.cfg.Sites {
		if _, err := a.pipeline.Analyze(ctx, site); err != nil {
			a.logger.Error("analysis failed", "url", site, "error", err)
		}
	}
}
