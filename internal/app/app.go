package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"PostScraper/internal/config"
	"PostScraper/internal/infrastructure/fetcher"
	"PostScraper/internal/infrastructure/media"
	"PostScraper/internal/infrastructure/scheduler"
	"PostScraper/internal/infrastructure/storage"
	"PostScraper/internal/logging"
	"PostScraper/internal/ports"
	"PostScraper/internal/scraper"
)

// Application wires configuration to the crawl runner and its trigger
// sources.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	runner *scraper.Runner
	sched  ports.Scheduler
}

// New builds a runnable application instance against a live content store.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect content store: %w", err)
	}
	store := storage.NewPostgresStore(db)

	httpFetcher := fetcher.New(nil, fetcher.Options{
		UserAgent:          cfg.Scraper.UserAgent,
		Timeout:            cfg.Scraper.Timeout(),
		InsecureSkipVerify: cfg.Scraper.SkipVerify(),
	})

	importer := media.NewImporter(httpFetcher, store, cfg.Scraper.TempDir,
		baseLogger.With("component", "media"))

	crawler := scraper.NewCrawler(scraper.CrawlerDeps{
		Fetcher:  httpFetcher,
		Store:    store,
		Importer: importer,
		Gate:     scraper.NewDuplicateGate(store),
		Logger:   baseLogger.With("component", "crawler"),
	})

	runCfg := scraper.RunConfig{
		ListingURL: cfg.Scraper.ScrappingURL,
		PostLimit:  cfg.Scraper.PostsNum,
	}
	runner := scraper.NewRunner(crawler, runCfg, baseLogger.With("component", "runner"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		runner: runner,
		sched:  scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location()),
	}, nil
}

// Run starts the worker and the cron trigger, fires one immediate run, and
// blocks until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.runner.Start(ctx)

	job := func(at time.Time) {
		id, err := a.runner.Trigger()
		if errors.Is(err, scraper.ErrRunInProgress) {
			a.logger.Warn("skip scheduled run, previous still active", "scheduled_at", at)
			return
		}
		a.logger.Info("crawl run triggered", "run_id", id, "scheduled_at", at)
	}

	if err := a.sched.Start(ctx, job); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	job(time.Now())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.sched.Stop(stopCtx); err != nil {
		a.logger.Warn("scheduler stop", "error", err)
	}

	a.runner.Wait()
	return nil
}
