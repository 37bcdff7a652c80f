// Package analyzer extracts metadata, reusable components, layout patterns,
// and page types from crawled HTML documents.
package analyzer

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Analyzer performs per-page content analysis. Analysis is best-effort: a
// page that defeats one extractor still gets the results of the others.
type Analyzer struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// New creates an Analyzer.
func New(cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		cfg:    cfg,
		logger: logger.With("component", "analyzer"),
	}
}

// Analyze populates the page's metadata, components, layout, and page type
// from the parsed document. The document must have been parsed from the
// page's HTML.
func (a *Analyzer) Analyze(page *types.Page, doc *goquery.Document) error {
	page.Metadata = extractMetadata(doc)
	page.Title = page.Metadata.Title

	if a.cfg.ExtractComponents {
		extractComponents(page, doc)
	}

	page.Layout = extractLayout(doc)

	if a.cfg.IdentifyPageTypes {
		page.Metadata.PageType = identifyPageType(page, doc)
	}

	a.logger.Debug("analyzed page",
		"url", page.URL,
		"components", len(page.Components),
		"page_type", page.Metadata.PageType,
	)
	return nil
}
