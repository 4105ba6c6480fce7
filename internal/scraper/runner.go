package scraper

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ErrRunInProgress is returned when a trigger arrives while a run is queued
// or executing. Triggers are not stacked; one run at a time.
var ErrRunInProgress = errors.New("a crawl run is already in progress")

type runJob struct {
	id string
	at time.Time
}

// Runner decouples triggering from execution: Trigger enqueues a run and
// returns a run id immediately, a single worker executes runs serially.
// Progress is observed through the content store and the logs, not by the
// triggering call.
type Runner struct {
	crawler *Crawler
	cfg     RunConfig
	logger  *slog.Logger

	jobs   chan runJob
	active atomic.Bool
	wg     sync.WaitGroup
}

// NewRunner wires the crawler with its per-run configuration.
func NewRunner(crawler *Crawler, cfg RunConfig, logger *slog.Logger) *Runner {
	return &Runner{
		crawler: crawler,
		cfg:     cfg,
		logger:  logger,
		jobs:    make(chan runJob, 1),
	}
}

// Start launches the worker goroutine; it exits when ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-r.jobs:
				report := r.crawler.Run(ctx, r.cfg)
				report.RunID = job.id
				r.active.Store(false)
				if r.logger != nil {
					r.logger.Info("crawl run completed",
						"run_id", report.RunID,
						"scraped", report.Scraped,
						"skipped", report.Skipped,
						"reason", report.Reason,
						"duration", report.FinishedAt.Sub(report.StartedAt))
				}
			}
		}
	}()
}

// Trigger requests a run and returns its id without waiting for the crawl.
// While a run is queued or executing, further triggers are rejected with
// ErrRunInProgress.
func (r *Runner) Trigger() (string, error) {
	if !r.active.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}

	job := runJob{id: uuid.NewString(), at: time.Now()}
	// The active guard guarantees the one-slot queue has room.
	r.jobs <- job
	return job.id, nil
}

// Wait blocks until the worker goroutine has exited.
func (r *Runner) Wait() {
	r.wg.Wait()
}
