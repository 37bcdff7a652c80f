package analyzer

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func testAnalyzer() *Analyzer {
	cfg := config.DefaultConfig().Analysis
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger)
}

func TestExtractMetadata(t *testing.T) {
	doc := parseDoc(t, `<html lang="en"><head>
		<title>  My Page  </title>
		<meta name="description" content="A page about things">
		<meta name="keywords" content="go, crawler , analysis,">
		<meta name="author" content="Jane Dev">
		<meta property="og:title" content="OG Title">
		<meta property="og:image" content="http://example.com/x.png">
		<meta name="twitter:card" content="summary">
		<link rel="canonical" href="http://example.com/canonical">
	</head><body></body></html>`)

	md := extractMetadata(doc)

	if md.Title != "My Page" {
		t.Errorf("Title = %q, want My Page", md.Title)
	}
	if md.Description != "A page about things" {
		t.Errorf("Description = %q", md.Description)
	}
	if len(md.Keywords) != 3 || md.Keywords[0] != "go" || md.Keywords[1] != "crawler" {
		t.Errorf("Keywords = %v", md.Keywords)
	}
	if md.Author != "Jane Dev" {
		t.Errorf("Author = %q", md.Author)
	}
	if md.Language != "en" {
		t.Errorf("Language = %q, want en (html lang fallback)", md.Language)
	}
	if md.CanonicalURL != "http://example.com/canonical" {
		t.Errorf("CanonicalURL = %q", md.CanonicalURL)
	}
	if md.OGTags["title"] != "OG Title" || md.OGTags["image"] != "http://example.com/x.png" {
		t.Errorf("OGTags = %v", md.OGTags)
	}
	if md.TwitterTags["card"] != "summary" {
		t.Errorf("TwitterTags = %v", md.TwitterTags)
	}
}

func TestExtractMetadataEmptyHead(t *testing.T) {
	doc := parseDoc(t, `<html><head></head><body></body></html>`)
	md := extractMetadata(doc)

	if md.Title != "" {
		t.Errorf("Title = %q, want empty", md.Title)
	}
	if md.OGTags != nil {
		t.Errorf("OGTags = %v, want nil when no og tags present", md.OGTags)
	}
	if md.TwitterTags != nil {
		t.Errorf("TwitterTags = %v, want nil", md.TwitterTags)
	}
}

func TestIdentifyPageType(t *testing.T) {
	formHTML := `<html><body><form action="/send"><input name="q"></form></body></html>`
	plainHTML := `<html><body><p>text</p></body></html>`

	tests := []struct {
		name  string
		url   string
		title string
		html  string
		want  string
	}{
		{"blog by url", "http://example.com/blog/my-post", "", plainHTML, TypeBlogPost},
		{"news by url", "http://example.com/news/today", "", plainHTML, TypeBlogPost},
		{"product by url", "http://example.com/product/widget", "", plainHTML, TypeProductPage},
		{"category by url", "http://example.com/category/tools", "", plainHTML, TypeCategoryPage},
		{"about by url", "http://example.com/about", "", plainHTML, TypeInformation},
		{"search by url", "http://example.com/search?q=x", "", plainHTML, TypeSearchPage},
		{"homepage root", "http://example.com/", "", plainHTML, TypeHomepage},
		{"login by title", "http://example.com/account", "Login - Example", plainHTML, TypeAuthentication},
		{"form page", "http://example.com/feedback", "Feedback", formHTML, TypeFormPage},
		{"general fallback", "http://example.com/misc", "Misc", plainHTML, TypeGeneralPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &types.Page{URL: tt.url, Title: tt.title}
			doc := parseDoc(t, tt.html)
			if got := identifyPageType(page, doc); got != tt.want {
				t.Errorf("identifyPageType(%s) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractComponentsFrequencyFolding(t *testing.T) {
	page := &types.Page{URL: "http://example.com/"}
	doc := parseDoc(t, `<html><body>
		<div class="card"><p>one</p></div>
		<div class="card"><p>two</p></div>
		<div class="card"><p>three</p></div>
		<nav class="site-nav"><a href="/a">A</a><a href="/b">B</a><a href="/c">C</a></nav>
	</body></html>`)

	extractComponents(page, doc)

	var card, nav *types.Component
	for i := range page.Components {
		switch {
		case strings.Contains(page.Components[i].Selector, "card"):
			card = &page.Components[i]
		case page.Components[i].Tag == "nav":
			nav = &page.Components[i]
		}
	}

	if card == nil {
		t.Fatal("card component not identified")
	}
	if card.Frequency != 3 {
		t.Errorf("card frequency = %d, want 3", card.Frequency)
	}
	if nav == nil {
		t.Fatal("nav component not identified")
	}
	if nav.Category != "navigation" {
		t.Errorf("nav category = %q, want navigation", nav.Category)
	}
}

func TestExtractLayout(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<header class="navbar"></header>
		<nav></nav>
		<main>
			<div class="container">
				<div class="row">
					<div class="col-md-6"></div>
					<div class="col-md-6"></div>
				</div>
			</div>
		</main>
		<footer></footer>
	</body></html>`)

	info := extractLayout(doc)

	if !info.Structure.HasHeader || !info.Structure.HasNav || !info.Structure.HasMain || !info.Structure.HasFooter {
		t.Errorf("landmarks not detected: %+v", info.Structure)
	}
	if info.Structure.HasSidebar {
		t.Error("HasSidebar = true, no aside present")
	}
	if info.CSSFramework != "bootstrap" {
		t.Errorf("CSSFramework = %q, want bootstrap", info.CSSFramework)
	}
	if !info.Structure.HasGrid {
		t.Error("HasGrid = false, grid classes present")
	}
	if info.Signature != "FGHMN" {
		t.Errorf("Signature = %q, want FGHMN", info.Signature)
	}
}

func TestExtractLayoutTailwind(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div class="flex mx-auto md:flex lg:grid-cols-3">
			<p class="font-bold text-center">x</p>
		</div>
	</body></html>`)

	info := extractLayout(doc)
	if info.CSSFramework != "tailwind" {
		t.Errorf("CSSFramework = %q, want tailwind", info.CSSFramework)
	}
	if len(info.ResponsiveClasses) == 0 {
		t.Error("expected responsive classes for md:/lg: tokens")
	}
}

func TestAnalyzePopulatesPage(t *testing.T) {
	page := &types.Page{URL: "http://example.com/blog/post"}
	doc := parseDoc(t, `<html><head><title>Post</title></head><body>
		<header></header>
		<nav class="site-nav"><a href="/">Home</a><a href="/blog">Blog</a><a href="/about">About</a></nav>
		<main><article><h1>Post</h1><p>Body</p></article></main>
		<footer></footer>
	</body></html>`)

	a := testAnalyzer()
	if err := a.Analyze(page, doc); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if page.Title != "Post" {
		t.Errorf("Title = %q, want Post", page.Title)
	}
	if page.Metadata.PageType != TypeBlogPost {
		t.Errorf("PageType = %q, want %q", page.Metadata.PageType, TypeBlogPost)
	}
	if page.Layout == nil || !page.Layout.Structure.HasMain {
		t.Error("layout not populated")
	}
	if len(page.Components) == 0 {
		t.Error("no components identified")
	}
}

func TestCleanHTML(t *testing.T) {
	in := []byte(`<html><head>
		<script src="app.js"></script>
		<style>.x{color:red}</style>
	</head><body>
		<!-- hidden comment -->
		<p>keep me</p>
		<script>alert(1)</script>
	</body></html>`)

	out := string(CleanHTML(in))

	if strings.Contains(out, "<script") || strings.Contains(out, "alert(1)") {
		t.Error("scripts not removed")
	}
	if strings.Contains(out, "<style") || strings.Contains(out, "color:red") {
		t.Error("styles not removed")
	}
	if strings.Contains(out, "hidden comment") {
		t.Error("comments not removed")
	}
	if !strings.Contains(out, "<p>keep me</p>") {
		t.Error("content was lost")
	}
}
