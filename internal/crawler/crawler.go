package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/fetcher"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Fetcher retrieves pages and raw asset bodies.
type Fetcher interface {
	Fetch(ctx context.Context, url string) *fetcher.Outcome
	FetchBytes(ctx context.Context, url string) ([]byte, string, error)
}

// Analyzer extracts metadata, components, layout, and page type from a
// parsed document.
type Analyzer interface {
	Analyze(page *types.Page, doc *goquery.Document) error
}

// PageStore persists page HTML and asset bodies.
type PageStore interface {
	SavePage(page *types.Page) (string, error)
	SaveAsset(page *types.Page, asset *types.Asset, body []byte) (string, error)
}

// Crawler walks a site breadth-first under depth and concurrency limits,
// building a SiteMap. Every visited URL produces at most one Page; fetch and
// parse failures are recorded on the result, never aborting the run.
type Crawler struct {
	cfg      *config.Config
	fetcher  Fetcher
	analyzer Analyzer
	store    PageStore
	logger   *slog.Logger

	base     *url.URL
	frontier *frontier
	robots   *robotsFilter
	pending  atomic.Int64

	mu     sync.Mutex
	result *types.CrawlResult

	paceMu    sync.Mutex
	lastFetch time.Time
}

// New creates a Crawler. The store may be nil, in which case nothing is
// persisted and pages are kept in memory only.
func New(cfg *config.Config, f Fetcher, a Analyzer, store PageStore, logger *slog.Logger) *Crawler {
	c := &Crawler{
		cfg:      cfg,
		fetcher:  f,
		analyzer: a,
		store:    store,
		logger:   logger.With("component", "crawler"),
		frontier: newFrontier(),
	}
	if cfg.Crawler.RespectRobots {
		c.robots = newRobotsFilter(f, cfg.Crawler.UserAgent, c.logger)
	}
	return c
}

// Crawl runs the crawl rooted at startURL and returns the result. The result
// is always non-nil once the start URL is valid; on context cancellation the
// partial result is returned together with ErrCrawlStopped.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*types.CrawlResult, error) {
	canonical, err := Canonicalize(startURL)
	if err != nil {
		return nil, err
	}
	c.base, err = url.Parse(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidURL, err)
	}

	c.result = types.NewCrawlResult(types.NewSiteMap(canonical))
	c.logger.Info("starting crawl",
		"url", canonical,
		"max_depth", c.cfg.Crawler.MaxDepth,
		"workers", c.cfg.Crawler.MaxConcurrent,
	)

	c.frontier.shouldVisit(canonical)
	c.pending.Add(1)
	c.frontier.push(task{url: canonical, depth: 0})

	// Cancellation closes the frontier so blocked workers exit promptly.
	stopWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.frontier.close()
		case <-stopWatch:
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Crawler.MaxConcurrent; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker(ctx, id)
		}(i)
	}
	wg.Wait()
	close(stopWatch)

	c.result.Finalize()
	c.logger.Info("crawl finished",
		"pages", c.result.Statistics.TotalPages,
		"errors", c.result.Statistics.Errors,
		"duration", c.result.Statistics.Duration,
	)

	if ctx.Err() != nil {
		return c.result, types.ErrCrawlStopped
	}
	return c.result, nil
}

// worker processes tasks until the frontier closes. Closing happens either
// on cancellation or when the pending-task counter drains to zero.
func (c *Crawler) worker(ctx context.Context, id int) {
	logger := c.logger.With("worker_id", id)
	for {
		t, ok := c.frontier.pop()
		if !ok {
			return
		}
		c.process(ctx, logger, t)
		if c.pending.Add(-1) == 0 {
			c.frontier.close()
		}
	}
}

// process fetches, analyzes, and persists one page, then enqueues its
// in-scope links.
func (c *Crawler) process(ctx context.Context, logger *slog.Logger, t task) {
	logger = logger.With("url", t.url, "depth", t.depth)

	pageURL, err := url.Parse(t.url)
	if err != nil {
		c.recordWarning(fmt.Sprintf("%s: %v", t.url, err))
		return
	}

	var robotsDelay time.Duration
	if c.robots != nil {
		if !c.robots.allowed(ctx, pageURL) {
			logger.Debug("disallowed by robots.txt")
			c.recordWarning(fmt.Sprintf("%s: disallowed by robots.txt", t.url))
			return
		}
		robotsDelay = c.robots.delay(ctx, pageURL)
	}
	c.pace(robotsDelay)

	outcome := c.fetcher.Fetch(ctx, t.url)
	switch outcome.Kind {
	case fetcher.OutcomeFailed:
		logger.Warn("fetch failed", "error", outcome.Err)
		c.recordError(fmt.Sprintf("%s: %v", t.url, outcome.Err))
		return
	case fetcher.OutcomeSkipped:
		if outcome.SkipReason == fetcher.SkipNon2xx {
			logger.Warn("skipped page", "status", outcome.StatusCode)
			c.recordError(fmt.Sprintf("%s: HTTP %d", t.url, outcome.StatusCode))
		} else {
			logger.Debug("skipped non-html", "content_type", outcome.ContentType)
			c.recordWarning(fmt.Sprintf("%s: skipped %s content", t.url, outcome.ContentType))
		}
		return
	}

	page := &types.Page{
		URL:         t.url,
		Depth:       t.depth,
		HTML:        outcome.Body,
		CrawledAt:   time.Now(),
		StatusCode:  outcome.StatusCode,
		ContentType: outcome.ContentType,
		Size:        outcome.Size,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(outcome.Body))
	if err != nil {
		perr := &types.ParseError{URL: t.url, Err: err}
		logger.Warn("parse failed", "error", err)
		c.recordWarning(perr.Error())
		c.addPage(page)
		return
	}

	c.extractLinks(page, pageURL, doc)
	c.extractAssets(page, pageURL, doc)

	if err := c.analyzer.Analyze(page, doc); err != nil {
		logger.Warn("analysis failed", "error", err)
		c.recordWarning(fmt.Sprintf("%s: analysis: %v", t.url, err))
	}

	if c.store != nil {
		localPath, err := c.store.SavePage(page)
		if err != nil {
			logger.Error("failed to save page", "error", err)
			c.recordError(err.Error())
		} else {
			page.LocalPath = localPath
		}
		if c.cfg.Storage.SaveAssets {
			c.downloadAssets(ctx, logger, page)
		}
	}

	c.addPage(page)
	logger.Debug("page crawled", "links", len(page.Links), "assets", len(page.Assets))

	c.enqueueLinks(page, t.depth)
}

// enqueueLinks pushes unvisited internal links at the next depth. Each push
// raises the pending counter before the task becomes visible to workers.
func (c *Crawler) enqueueLinks(page *types.Page, depth int) {
	childDepth := depth + 1
	if childDepth > c.cfg.Crawler.MaxDepth {
		return
	}
	for _, link := range page.Links {
		if !link.Internal {
			continue
		}
		if !c.frontier.shouldVisit(link.URL) {
			continue
		}
		c.pending.Add(1)
		c.frontier.push(task{url: link.URL, depth: childDepth})
	}
}

// pace enforces the politeness delay between fetch starts. A robots.txt
// Crawl-delay overrides the configured delay when it is larger.
func (c *Crawler) pace(robotsDelay time.Duration) {
	delay := c.cfg.Crawler.Delay
	if robotsDelay > delay {
		delay = robotsDelay
	}
	if delay <= 0 {
		return
	}
	c.paceMu.Lock()
	defer c.paceMu.Unlock()
	if elapsed := time.Since(c.lastFetch); elapsed < delay {
		time.Sleep(delay - elapsed)
	}
	c.lastFetch = time.Now()
}

func (c *Crawler) addPage(p *types.Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.SiteMap.AddPage(p)
}

func (c *Crawler) recordError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.AddError(msg)
}

func (c *Crawler) recordWarning(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.AddWarning(msg)
}
