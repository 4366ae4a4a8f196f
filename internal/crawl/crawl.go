package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	robotstxt "github.com/temoto/robotstxt"

	"github.com/tudorhoriadaniel/seo-crawler/internal/analyze"
	"github.com/tudorhoriadaniel/seo-crawler/internal/config"
	"github.com/tudorhoriadaniel/seo-crawler/internal/fetch"
	"github.com/tudorhoriadaniel/seo-crawler/internal/metrics"
	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
)

// Store is the persistence surface the orchestrator needs. The concrete
// implementation lives in internal/store; tests substitute fakes.
type Store interface {
	UpdateCrawlStatus(ctx context.Context, id uuid.UUID, status Status, errMsg *string) error
	AddPage(ctx context.Context, crawlID uuid.UUID, normalizedURL string, page *model.Page) error
}

// Fetcher retrieves a single URL. Satisfied by *fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// Orchestrator drives crawls end to end: it owns each crawl's frontier,
// dedup set, and worker pool, and is the only writer of crawl status. No
// state is shared between different crawls.
type Orchestrator struct {
	cfg     *config.Config
	store   Store
	fetcher Fetcher
	logger  *slog.Logger

	mu     sync.Mutex
	active map[uuid.UUID]*frontier
}

func NewOrchestrator(cfg *config.Config, st Store, fetcher Fetcher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		store:   st,
		fetcher: fetcher,
		logger:  logger,
		active:  make(map[uuid.UUID]*frontier),
	}
}

// Cancel stops an active crawl: no new frontier entries are pulled,
// in-flight fetches finish, and the crawl is marked completed with the
// pages recorded so far. Returns false when the crawl is not running.
func (o *Orchestrator) Cancel(id uuid.UUID) bool {
	o.mu.Lock()
	fr, ok := o.active[id]
	o.mu.Unlock()
	if !ok {
		return false
	}
	fr.Stop()
	return true
}

func (o *Orchestrator) register(id uuid.UUID, fr *frontier) {
	o.mu.Lock()
	o.active[id] = fr
	o.mu.Unlock()
}

func (o *Orchestrator) unregister(id uuid.UUID) {
	o.mu.Lock()
	delete(o.active, id)
	o.mu.Unlock()
}

// Run executes one crawl to completion or failure. It is called by the
// runner with the crawl already in status pending; Run transitions it to
// crawling, performs the bounded breadth-first traversal, and sets the
// terminal status after the frontier has drained and all workers are idle.
func (o *Orchestrator) Run(ctx context.Context, crawlID uuid.UUID, seedURL string) {
	logger := o.logger.With("crawl_id", crawlID.String())

	if err := o.store.UpdateCrawlStatus(ctx, crawlID, StatusCrawling, nil); err != nil {
		logger.Error("crawl status update failed", "error", err)
		return
	}

	seed, err := Normalize(seedURL)
	if err != nil {
		o.finish(crawlID, logger, fmt.Errorf("invalid seed URL %q: %w", seedURL, err))
		return
	}
	base, err := url.Parse(seed)
	if err != nil || base.Host == "" {
		o.finish(crawlID, logger, fmt.Errorf("invalid seed URL %q", seedURL))
		return
	}

	maxPages := o.cfg.Crawler.MaxPages
	if maxPages <= 0 {
		maxPages = 200
	}
	maxDepth := o.cfg.Crawler.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	workers := o.cfg.Crawler.Workers
	if workers <= 0 {
		workers = 5
	}

	fr := newFrontier(maxPages)
	o.register(crawlID, fr)
	defer o.unregister(crawlID)

	// Propagate process shutdown to the frontier so workers drain.
	doneCh := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fr.Stop()
		case <-doneCh:
		}
	}()

	timeout := time.Duration(o.cfg.Fetcher.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpc := &http.Client{Timeout: timeout}

	var robots *robotstxt.RobotsData
	if o.cfg.Robots.Respect {
		robots, _ = fetchRobots(ctx, httpc, base, o.cfg.Fetcher.UserAgent)
	}

	fr.Enqueue(seed, 0)

	if o.cfg.Crawler.SeedFromSitemap {
		_ = collectFromSitemap(ctx, httpc, base, func(raw string) {
			u, err := url.Parse(raw)
			if err != nil || !SameSite(base.Hostname(), u.Hostname()) {
				return
			}
			norm, err := Normalize(raw)
			if err != nil || ShouldSkip(norm) {
				return
			}
			fr.Enqueue(norm, 1)
		})
	}

	r := &run{
		o:         o,
		crawlID:   crawlID,
		baseHost:  base.Hostname(),
		maxDepth:  maxDepth,
		fr:        fr,
		robots:    robots,
		userAgent: o.cfg.Fetcher.UserAgent,
		logger:    logger,
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx)
		}()
	}
	wg.Wait()
	close(doneCh)

	o.finish(crawlID, logger, r.fatal())
	logger.Info("crawl finished", "pages", r.pageCount(), "failed", r.fatal() != nil)
}

// finish flips the crawl to its terminal status. Status writes use a
// fresh context so a cancelled run context cannot leave the crawl stuck
// in crawling.
func (o *Orchestrator) finish(crawlID uuid.UUID, logger *slog.Logger, fatalErr error) {
	if fatalErr != nil {
		msg := fatalErr.Error()
		if err := o.store.UpdateCrawlStatus(context.Background(), crawlID, StatusFailed, &msg); err != nil {
			logger.Error("crawl status update failed", "error", err)
		}
		metrics.RecordCrawl(string(StatusFailed))
		return
	}
	if err := o.store.UpdateCrawlStatus(context.Background(), crawlID, StatusCompleted, nil); err != nil {
		logger.Error("crawl status update failed", "error", err)
	}
	metrics.RecordCrawl(string(StatusCompleted))
}

// run holds the per-crawl state shared by the worker pool.
type run struct {
	o         *Orchestrator
	crawlID   uuid.UUID
	baseHost  string
	maxDepth  int
	fr        *frontier
	robots    *robotstxt.RobotsData
	userAgent string
	logger    *slog.Logger

	mu       sync.Mutex
	recorded int
	fatalErr error
}

func (r *run) pageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recorded
}

func (r *run) fatal() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatalErr
}

func (r *run) setFatal(err error) {
	r.mu.Lock()
	if r.fatalErr == nil {
		r.fatalErr = err
	}
	r.mu.Unlock()
	r.fr.Stop()
}

func (r *run) worker(ctx context.Context) {
	for {
		e, ok := r.fr.Next()
		if !ok {
			return
		}
		r.process(ctx, e)
		r.fr.Done()
	}
}

// process handles one frontier entry end to end: fetch, extract, evaluate,
// score, persist, and feed newly discovered links back to the frontier.
// Per-page failures become page records; only a seed failure before any
// page was recorded escalates to crawl failure.
func (r *run) process(ctx context.Context, e entry) {
	if r.robots != nil {
		if u, err := url.Parse(e.url); err == nil {
			path := u.Path
			if path == "" {
				path = "/"
			}
			if grp := r.robots.FindGroup(r.userAgent); grp != nil && !grp.Test(path) {
				return
			}
		}
	}

	res, err := r.o.fetcher.Fetch(ctx, e.url)
	if err != nil {
		if e.depth == 0 && r.pageCount() == 0 {
			r.setFatal(fmt.Errorf("seed fetch failed: %w", err))
			return
		}
		r.logger.Warn("fetch failed", "url", e.url, "error", err)
		sig := emptySignals(0)
		issues := []model.Issue{{Severity: model.SeverityCritical, Message: "fetch failed: " + err.Error()}}
		r.record(ctx, e.url, e.url, 0, sig, issues, 0)
		return
	}

	finalURL := res.FinalURL
	finalNorm, err := Normalize(finalURL)
	if err != nil {
		finalNorm = e.url
	}

	// Redirect resolved to a different page: the final URL is what gets
	// recorded and deduped, and its host decides same-site membership.
	if finalNorm != e.url {
		fu, err := url.Parse(finalURL)
		if err != nil || !SameSite(r.baseHost, fu.Hostname()) {
			return
		}
		if !r.fr.MarkSeen(finalNorm) {
			return
		}
	}

	elapsed := res.Elapsed.Seconds()

	if res.StatusCode >= 400 {
		sig := emptySignals(res.StatusCode)
		issues := []model.Issue{{Severity: model.SeverityCritical, Message: fmt.Sprintf("HTTP error status %d", res.StatusCode)}}
		r.record(ctx, finalURL, finalNorm, elapsed, sig, issues, 0)
		return
	}

	if ct := res.ContentType; ct != "" && !strings.Contains(ct, "text/html") {
		return
	}

	sig, parseErr := analyze.Extract(finalURL, res.Body)
	sig.StatusCode = res.StatusCode

	var issues []model.Issue
	var score int
	if parseErr != nil {
		issues = []model.Issue{{Severity: model.SeverityInfo, Message: "unparseable content"}}
		score = analyze.Score(issues)
	} else {
		issues = analyze.Evaluate(sig)
		score = analyze.Score(issues)
	}

	r.record(ctx, finalURL, finalNorm, elapsed, sig, issues, score)
	if parseErr != nil {
		return
	}

	if e.depth+1 > r.maxDepth {
		return
	}
	for _, link := range sig.DiscoveredLinks {
		norm, err := Normalize(link)
		if err != nil || ShouldSkip(norm) {
			continue
		}
		r.fr.Enqueue(norm, e.depth+1)
	}
}

func (r *run) record(ctx context.Context, pageURL, normalizedURL string, responseTime float64, sig *model.PageSignals, issues []model.Issue, score int) {
	page := &model.Page{
		ID:           newID(),
		CrawlID:      r.crawlID,
		URL:          pageURL,
		ResponseTime: responseTime,
		Signals:      *sig,
		Issues:       issues,
		Score:        score,
	}

	if err := r.o.store.AddPage(ctx, r.crawlID, normalizedURL, page); err != nil {
		r.logger.Error("page save failed", "url", pageURL, "error", err)
		return
	}

	r.mu.Lock()
	r.recorded++
	r.mu.Unlock()
	metrics.RecordPageCrawled(sig.StatusCode)
}

func emptySignals(statusCode int) *model.PageSignals {
	return &model.PageSignals{
		StatusCode:  statusCode,
		H1Texts:     []string{},
		SchemaTypes: []string{},
	}
}

func newID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
