package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/h0ck3ystyx/recrafter/internal/analyzer"
	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/fetcher"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(maxDepth int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Crawler.MaxDepth = maxDepth
	cfg.Crawler.Delay = 0
	cfg.Crawler.MaxConcurrent = 4
	cfg.Crawler.Timeout = 5 * time.Second
	cfg.Crawler.MaxRetries = 0
	cfg.Crawler.RetryDelay = 10 * time.Millisecond
	cfg.Storage.SaveAssets = false
	return cfg
}

func newTestCrawler(cfg *config.Config) *Crawler {
	logger := testLogger()
	f := fetcher.New(cfg, logger)
	a := analyzer.New(cfg.Analysis, logger)
	return New(cfg, f, a, nil, logger)
}

func htmlPage(title string, links ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body>", title)
	for _, l := range links {
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, l, l)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestCrawlDepthLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, htmlPage("A", "/b"))
		case "/b":
			fmt.Fprint(w, htmlPage("B", "/c"))
		case "/c":
			fmt.Fprint(w, htmlPage("C", "/d"))
		case "/d":
			t.Error("page beyond max depth was fetched")
			fmt.Fprint(w, htmlPage("D"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(2))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 3 {
		t.Fatalf("got %d pages, want 3", got)
	}
	for _, p := range result.SiteMap.Pages {
		if p.Depth > 2 {
			t.Errorf("page %s has depth %d beyond the limit", p.URL, p.Depth)
		}
	}
}

func TestCrawlCycleTerminates(t *testing.T) {
	var mu sync.Mutex
	hits := make(map[string]int)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, htmlPage("A", "/b"))
		case "/b":
			fmt.Fprint(w, htmlPage("B", "/"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(5))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 2 {
		t.Fatalf("got %d pages, want 2", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for path, count := range hits {
		if count != 1 {
			t.Errorf("path %s fetched %d times, want 1", path, count)
		}
	}
}

func TestCrawlNoDuplicateURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Every page links to the same targets with varying forms.
		fmt.Fprint(w, htmlPage("page", "/x", "/x/", "/x#frag", "/y"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(3))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range result.SiteMap.Pages {
		if seen[p.URL] {
			t.Errorf("duplicate page URL in SiteMap: %s", p.URL)
		}
		seen[p.URL] = true
	}
}

func TestCrawl404RecordsErrorAndContinues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, htmlPage("A", "/missing", "/ok"))
		case "/ok":
			fmt.Fprint(w, htmlPage("OK"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(2))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 2 {
		t.Fatalf("got %d pages, want 2 (root and /ok)", got)
	}
	for _, p := range result.SiteMap.Pages {
		if strings.HasSuffix(p.URL, "/missing") {
			t.Error("404 page must not enter the SiteMap")
		}
	}
	if len(result.Errors) != 1 {
		t.Errorf("got %d errors, want 1: %v", len(result.Errors), result.Errors)
	}
}

func TestCrawlSkipsNonHTML(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, htmlPage("A", "/data.json"))
		case "/data.json":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"a":1}`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(2))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 1 {
		t.Fatalf("got %d pages, want 1", got)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the skipped non-HTML resource")
	}
	if len(result.Errors) != 0 {
		t.Errorf("non-HTML skip must not be an error: %v", result.Errors)
	}
}

func TestCrawlExternalLinksNotFollowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, htmlPage("A", "http://external.invalid/page"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(3))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 1 {
		t.Fatalf("got %d pages, want 1", got)
	}
	links := result.SiteMap.ExternalLinks()
	if len(links) != 1 {
		t.Fatalf("got %d external links, want 1", len(links))
	}
	if links[0].Internal {
		t.Error("external link classified as internal")
	}
}

func TestCrawlHonorsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		case "/":
			fmt.Fprint(w, htmlPage("A", "/public", "/private/secret"))
		case "/public":
			fmt.Fprint(w, htmlPage("Public"))
		case "/private/secret":
			t.Error("robots-disallowed page was fetched")
			fmt.Fprint(w, htmlPage("Secret"))
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestCrawler(testConfig(2))
	result, err := c.Crawl(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Crawl: %v", err)
	}

	if got := len(result.SiteMap.Pages); got != 2 {
		t.Fatalf("got %d pages, want 2 (root and /public)", got)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "robots") {
			found = true
		}
	}
	if !found {
		t.Error("expected a robots.txt warning for the excluded page")
	}
}

func TestRobotsPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/private/", "/private/page", true},
		{"/private/", "/public", false},
		{"/*.pdf", "/docs/manual.pdf", true},
		{"/*.pdf", "/docs/manual.html", false},
		{"/exact$", "/exact", true},
		{"/exact$", "/exact/sub", false},
		{"", "/anything", false},
	}
	for _, tt := range tests {
		if got := robotsPatternMatch(tt.pattern, tt.path); got != tt.want {
			t.Errorf("robotsPatternMatch(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

// lingeringFetcher blocks FetchBytes until the context is cancelled, then
// keeps the goroutine alive a little longer before returning, modelling a
// download still in flight when the crawl is interrupted.
type lingeringFetcher struct {
	started chan struct{}
	active  atomic.Int32
}

func (f *lingeringFetcher) Fetch(ctx context.Context, url string) *fetcher.Outcome {
	return &fetcher.Outcome{Kind: fetcher.OutcomeFailed, Err: context.Canceled}
}

func (f *lingeringFetcher) FetchBytes(ctx context.Context, url string) ([]byte, string, error) {
	f.active.Add(1)
	defer f.active.Add(-1)
	select {
	case f.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	time.Sleep(30 * time.Millisecond)
	return nil, "", ctx.Err()
}

// Interrupting a crawl must not leave asset downloads running: once
// downloadAssets returns, nothing may still be writing into page.Assets.
func TestDownloadAssetsWaitsForInflightOnCancel(t *testing.T) {
	cfg := testConfig(1)
	f := &lingeringFetcher{started: make(chan struct{}, 1)}
	c := New(cfg, f, analyzer.New(cfg.Analysis, testLogger()), nil, testLogger())
	c.result = types.NewCrawlResult(types.NewSiteMap("http://example.com"))

	page := &types.Page{URL: "http://example.com/"}
	for i := 0; i < 2*assetDownloadSlots; i++ {
		page.Assets = append(page.Assets, types.Asset{URL: fmt.Sprintf("http://example.com/a%d.png", i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-f.started
		cancel()
	}()

	c.downloadAssets(ctx, testLogger(), page)

	if n := f.active.Load(); n != 0 {
		t.Fatalf("%d asset downloads still in flight after downloadAssets returned", n)
	}
}

func TestCrawlInvalidStartURL(t *testing.T) {
	c := newTestCrawler(testConfig(2))
	if _, err := c.Crawl(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for invalid start URL")
	}
}
