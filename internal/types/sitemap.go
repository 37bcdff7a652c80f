package types

import "time"

// SiteMap is the insertion-ordered collection of pages discovered by one
// crawl run. Order is discovery order, not depth order. The SiteMap owns its
// Pages exclusively.
type SiteMap struct {
	BaseURL   string    `json:"base_url"`
	CreatedAt time.Time `json:"created_at"`
	Pages     []*Page   `json:"pages"`
}

// NewSiteMap creates an empty SiteMap rooted at baseURL.
func NewSiteMap(baseURL string) *SiteMap {
	return &SiteMap{
		BaseURL:   baseURL,
		CreatedAt: time.Now(),
	}
}

// AddPage appends a page in discovery order.
func (sm *SiteMap) AddPage(p *Page) {
	sm.Pages = append(sm.Pages, p)
}

// PageByURL returns the page with the given URL, or nil.
func (sm *SiteMap) PageByURL(url string) *Page {
	for _, p := range sm.Pages {
		if p.URL == url {
			return p
		}
	}
	return nil
}

// PagesByDepth returns all pages at the given crawl depth.
func (sm *SiteMap) PagesByDepth(depth int) []*Page {
	var pages []*Page
	for _, p := range sm.Pages {
		if p.Depth == depth {
			pages = append(pages, p)
		}
	}
	return pages
}

// InternalLinks returns every internal link across all pages.
func (sm *SiteMap) InternalLinks() []Link {
	var links []Link
	for _, p := range sm.Pages {
		for _, l := range p.Links {
			if l.Internal {
				links = append(links, l)
			}
		}
	}
	return links
}

// ExternalLinks returns every external link across all pages.
func (sm *SiteMap) ExternalLinks() []Link {
	var links []Link
	for _, p := range sm.Pages {
		for _, l := range p.Links {
			if !l.Internal {
				links = append(links, l)
			}
		}
	}
	return links
}

// AllAssets returns every asset across all pages.
func (sm *SiteMap) AllAssets() []Asset {
	var assets []Asset
	for _, p := range sm.Pages {
		assets = append(assets, p.Assets...)
	}
	return assets
}

// AllComponents returns every component across all pages.
func (sm *SiteMap) AllComponents() []Component {
	var components []Component
	for _, p := range sm.Pages {
		components = append(components, p.Components...)
	}
	return components
}

// Statistics are the aggregate counters of a finished crawl.
type Statistics struct {
	TotalPages      int           `json:"total_pages"`
	TotalAssets     int           `json:"total_assets"`
	TotalLinks      int           `json:"total_links"`
	InternalLinks   int           `json:"internal_links"`
	ExternalLinks   int           `json:"external_links"`
	TotalComponents int           `json:"total_components"`
	Errors          int           `json:"errors"`
	Warnings        int           `json:"warnings"`
	Duration        time.Duration `json:"duration"`
}

// CrawlResult is the outcome of one crawl run. After Finalize it is
// immutable: the completion timestamp is fixed and statistics are computed
// exactly once.
type CrawlResult struct {
	SiteMap     *SiteMap   `json:"site_map"`
	Errors      []string   `json:"errors"`
	Warnings    []string   `json:"warnings"`
	Statistics  Statistics `json:"statistics"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt time.Time  `json:"completed_at"`

	finalized bool
}

// NewCrawlResult creates a result owning the given SiteMap.
func NewCrawlResult(sm *SiteMap) *CrawlResult {
	return &CrawlResult{
		SiteMap:   sm,
		StartedAt: time.Now(),
	}
}

// AddError appends an error message.
func (r *CrawlResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddWarning appends a warning message.
func (r *CrawlResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finalize fixes the completion timestamp and computes the aggregate
// statistics. Subsequent calls are no-ops.
func (r *CrawlResult) Finalize() {
	if r.finalized {
		return
	}
	r.finalized = true
	r.CompletedAt = time.Now()

	internal := len(r.SiteMap.InternalLinks())
	external := len(r.SiteMap.ExternalLinks())
	r.Statistics = Statistics{
		TotalPages:      len(r.SiteMap.Pages),
		TotalAssets:     len(r.SiteMap.AllAssets()),
		TotalLinks:      internal + external,
		InternalLinks:   internal,
		ExternalLinks:   external,
		TotalComponents: len(r.SiteMap.AllComponents()),
		Errors:          len(r.Errors),
		Warnings:        len(r.Warnings),
		Duration:        r.CompletedAt.Sub(r.StartedAt),
	}
}
