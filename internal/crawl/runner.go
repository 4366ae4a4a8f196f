package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tudorhoriadaniel/seo-crawler/internal/config"
)

// PendingCrawl pairs a queued crawl with the project seed URL it starts
// from.
type PendingCrawl struct {
	ID      uuid.UUID
	SeedURL string
}

// RunnerStore lists crawls waiting to be picked up.
type RunnerStore interface {
	ListPendingCrawls(ctx context.Context, limit int32) ([]PendingCrawl, error)
}

// Runner polls the crawls table for pending work and dispatches each
// crawl to the orchestrator, bounded by a concurrency limit. It is the
// worker-role counterpart of the HTTP API: the API only enqueues.
type Runner struct {
	cfg    *config.Config
	store  RunnerStore
	orch   *Orchestrator
	logger *slog.Logger
}

func NewRunner(cfg *config.Config, st RunnerStore, orch *Orchestrator, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		store:  st,
		orch:   orch,
		logger: logger,
	}
}

// Start launches the worker loop in the current goroutine. Callers
// typically run this in its own goroutine and keep the process alive.
func (r *Runner) Start(ctx context.Context) {
	pollInterval := time.Duration(r.cfg.Worker.PollIntervalMs) * time.Millisecond
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	maxCrawls := r.cfg.Worker.MaxConcurrentCrawls
	if maxCrawls <= 0 {
		maxCrawls = 2
	}

	sem := make(chan struct{}, maxCrawls)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Determine how many new crawls we can start based on current concurrency.
		capacity := maxCrawls - len(sem)
		if capacity <= 0 {
			continue
		}

		pending, err := r.store.ListPendingCrawls(ctx, int32(capacity))
		if err != nil {
			r.logger.Error("pending crawl poll failed", "error", err)
			continue
		}

		for _, pc := range pending {
			pc := pc
			sem <- struct{}{}
			go func() {
				defer func() { <-sem }()
				r.orch.Run(ctx, pc.ID, pc.SeedURL)
			}()
		}
	}
}
