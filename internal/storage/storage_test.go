package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

func testStore(t *testing.T, mutate func(cfg *config.StorageConfig)) *FileStore {
	t.Helper()
	cfg := config.DefaultConfig().Storage
	cfg.OutputDir = t.TempDir()
	if mutate != nil {
		mutate(&cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewFileStore(cfg, logger)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestPagePath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"root", "http://example.com/", filepath.Join("pages", "index.html")},
		{"root no slash", "http://example.com", filepath.Join("pages", "index.html")},
		{"html file", "http://example.com/about.html", filepath.Join("pages", "about.html")},
		{"extensionless", "http://example.com/about", filepath.Join("pages", "about.html")},
		{"nested", "http://example.com/blog/post", filepath.Join("pages", "blog", "post.html")},
		{"directory", "http://example.com/blog/", filepath.Join("pages", "blog", "index.html")},
		{"unsafe chars", "http://example.com/a:b", filepath.Join("pages", "a_b.html")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pagePath(tt.url); got != tt.want {
				t.Errorf("pagePath(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestAssetPath(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantDir string
	}{
		{"png", "http://example.com/img/logo.png", "images"},
		{"css", "http://example.com/css/site.css", "css"},
		{"js", "http://example.com/js/app.js", "js"},
		{"woff2", "http://example.com/fonts/a.woff2", "fonts"},
		{"pdf", "http://example.com/docs/manual.pdf", "documents"},
		{"unknown", "http://example.com/stream", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assetPath(tt.url)
			wantPrefix := filepath.Join("assets", tt.wantDir) + string(filepath.Separator)
			if !strings.HasPrefix(got, wantPrefix) {
				t.Errorf("assetPath(%q) = %q, want prefix %q", tt.url, got, wantPrefix)
			}
		})
	}
}

func TestAssetPathStable(t *testing.T) {
	url := "http://example.com/weird/"
	first := assetPath(url)
	second := assetPath(url)
	if first != second {
		t.Errorf("assetPath not stable: %q vs %q", first, second)
	}
}

func TestSavePage(t *testing.T) {
	s := testStore(t, nil)
	page := &types.Page{
		URL:  "http://example.com/blog/post",
		HTML: []byte("<html><body><p>hello</p></body></html>"),
	}

	relPath, err := s.SavePage(page)
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	if relPath != filepath.Join("pages", "blog", "post.html") {
		t.Errorf("relPath = %q", relPath)
	}

	body, err := os.ReadFile(filepath.Join(s.Dir(), relPath))
	if err != nil {
		t.Fatalf("read saved page: %v", err)
	}
	if string(body) != string(page.HTML) {
		t.Errorf("saved body differs from page HTML")
	}
}

func TestSavePageCleansHTML(t *testing.T) {
	s := testStore(t, func(cfg *config.StorageConfig) {
		cfg.CleanHTML = true
	})
	page := &types.Page{
		URL:  "http://example.com/",
		HTML: []byte("<html><body><script>alert(1)</script><p>keep</p></body></html>"),
	}

	relPath, err := s.SavePage(page)
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	body, err := os.ReadFile(filepath.Join(s.Dir(), relPath))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(body), "<script>") {
		t.Error("scripts survived clean_html")
	}
	if !strings.Contains(string(body), "<p>keep</p>") {
		t.Error("content lost during cleaning")
	}
}

func TestSaveAssetFillsChecksum(t *testing.T) {
	s := testStore(t, nil)
	page := &types.Page{URL: "http://example.com/"}
	asset := &types.Asset{URL: "http://example.com/img/logo.png"}
	body := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	relPath, err := s.SaveAsset(page, asset, body)
	if err != nil {
		t.Fatalf("SaveAsset: %v", err)
	}
	if !strings.HasPrefix(relPath, filepath.Join("assets", "images")) {
		t.Errorf("relPath = %q, want under assets/images", relPath)
	}
	if asset.Size != int64(len(body)) {
		t.Errorf("Size = %d, want %d", asset.Size, len(body))
	}
	wantSum := "823ceb99fcef5252333ede1b2202341c3b287b6d47571963e6b0ddf393a24f82"
	if asset.Checksum != wantSum {
		t.Errorf("Checksum = %q, want sha256 %q", asset.Checksum, wantSum)
	}
	if asset.DownloadedAt.IsZero() {
		t.Error("DownloadedAt not set")
	}
}

func TestSaveResultAndLoadSiteMap(t *testing.T) {
	s := testStore(t, nil)

	sm := types.NewSiteMap("http://example.com")
	page := &types.Page{
		URL:         "http://example.com/about",
		Depth:       1,
		Title:       "About",
		HTML:        []byte("<html><body><h1>About</h1></body></html>"),
		StatusCode:  200,
		ContentType: "text/html",
		Links: []types.Link{
			{URL: "http://example.com/", Internal: true},
			{URL: "http://other.com/", Internal: false},
		},
	}
	var err error
	page.LocalPath, err = s.SavePage(page)
	if err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	sm.AddPage(page)

	result := types.NewCrawlResult(sm)
	result.AddWarning("skipped something")
	result.Finalize()

	if err := s.SaveResult(result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	for _, name := range []string{"sitemap.json", "pages.json", "crawl_summary.json"} {
		if _, err := os.Stat(filepath.Join(s.Dir(), metadataDir, name)); err != nil {
			t.Errorf("metadata file %s missing: %v", name, err)
		}
	}

	loaded, err := s.LoadSiteMap()
	if err != nil {
		t.Fatalf("LoadSiteMap: %v", err)
	}
	if loaded.BaseURL != "http://example.com" {
		t.Errorf("BaseURL = %q", loaded.BaseURL)
	}
	if len(loaded.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(loaded.Pages))
	}

	got := loaded.Pages[0]
	if got.URL != page.URL || got.Title != "About" || got.Depth != 1 {
		t.Errorf("page metadata lost: %+v", got)
	}
	if string(got.HTML) != string(page.HTML) {
		t.Error("page HTML not reloaded from local path")
	}
	if len(got.Links) != 2 {
		t.Errorf("got %d links, want 2", len(got.Links))
	}
}

func TestLoadSiteMapMissingBody(t *testing.T) {
	s := testStore(t, nil)

	sm := types.NewSiteMap("http://example.com")
	sm.AddPage(&types.Page{
		URL:       "http://example.com/gone",
		LocalPath: "pages/gone.html", // never written
	})
	result := types.NewCrawlResult(sm)
	result.Finalize()
	if err := s.SaveResult(result); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	loaded, err := s.LoadSiteMap()
	if err != nil {
		t.Fatalf("LoadSiteMap: %v", err)
	}
	if len(loaded.Pages) != 1 {
		t.Fatalf("page with missing body must stay in the set")
	}
	if len(loaded.Pages[0].HTML) != 0 {
		t.Error("expected empty HTML for missing body")
	}
}

func TestLoadSiteMapNoMetadata(t *testing.T) {
	s := testStore(t, nil)
	if _, err := s.LoadSiteMap(); err == nil {
		t.Error("expected error when metadata files are absent")
	}
}

func TestNewSiteMapRecord(t *testing.T) {
	sm := types.NewSiteMap("http://example.com")
	sm.AddPage(&types.Page{
		URL:        "http://example.com/",
		LocalPath:  "pages/index.html",
		Title:      "Home",
		StatusCode: 200,
		Links:      make([]types.Link, 3),
		Assets:     make([]types.Asset, 2),
		Components: make([]types.Component, 4),
	})

	record := NewSiteMapRecord(sm)
	if record.TotalPages != 1 || len(record.Pages) != 1 {
		t.Fatalf("record = %+v", record)
	}
	p := record.Pages[0]
	if p.LinksCount != 3 || p.AssetsCount != 2 || p.ComponentsCount != 4 {
		t.Errorf("counts = %d/%d/%d, want 3/2/4", p.LinksCount, p.AssetsCount, p.ComponentsCount)
	}
}
