// Package storage persists crawl output: page HTML, asset bodies, and the
// JSON metadata records consumed by the analysis and export stages.
package storage

import (
	"time"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// SiteMapRecord is the persisted sitemap schema (metadata/sitemap.json).
type SiteMapRecord struct {
	BaseURL    string       `json:"base_url" bson:"base_url"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	TotalPages int          `json:"total_pages" bson:"total_pages"`
	Pages      []PageRecord `json:"pages" bson:"pages"`
}

// PageRecord is one page's metadata entry in the sitemap record.
type PageRecord struct {
	URL             string    `json:"url" bson:"url"`
	LocalPath       string    `json:"local_path" bson:"local_path"`
	Depth           int       `json:"depth" bson:"depth"`
	Title           string    `json:"title" bson:"title"`
	CrawledAt       time.Time `json:"crawled_at" bson:"crawled_at"`
	StatusCode      int       `json:"status_code" bson:"status_code"`
	ContentType     string    `json:"content_type" bson:"content_type"`
	Size            int64     `json:"size" bson:"size"`
	LinksCount      int       `json:"links_count" bson:"links_count"`
	AssetsCount     int       `json:"assets_count" bson:"assets_count"`
	ComponentsCount int       `json:"components_count" bson:"components_count"`
}

// CrawlSummary is the persisted run summary (metadata/crawl_summary.json).
type CrawlSummary struct {
	Statistics  types.Statistics `json:"statistics" bson:"statistics"`
	Errors      []string         `json:"errors" bson:"errors"`
	Warnings    []string         `json:"warnings" bson:"warnings"`
	StartedAt   time.Time        `json:"started_at" bson:"started_at"`
	CompletedAt time.Time        `json:"completed_at" bson:"completed_at"`
}

// NewSiteMapRecord flattens a SiteMap into its persisted form.
func NewSiteMapRecord(sm *types.SiteMap) *SiteMapRecord {
	record := &SiteMapRecord{
		BaseURL:    sm.BaseURL,
		CreatedAt:  sm.CreatedAt,
		TotalPages: len(sm.Pages),
		Pages:      make([]PageRecord, len(sm.Pages)),
	}
	for i, p := range sm.Pages {
		record.Pages[i] = PageRecord{
			URL:             p.URL,
			LocalPath:       p.LocalPath,
			Depth:           p.Depth,
			Title:           p.Title,
			CrawledAt:       p.CrawledAt,
			StatusCode:      p.StatusCode,
			ContentType:     p.ContentType,
			Size:            p.Size,
			LinksCount:      len(p.Links),
			AssetsCount:     len(p.Assets),
			ComponentsCount: len(p.Components),
		}
	}
	return record
}

// NewCrawlSummary flattens a finalized CrawlResult into its persisted form.
func NewCrawlSummary(result *types.CrawlResult) *CrawlSummary {
	return &CrawlSummary{
		Statistics:  result.Statistics,
		Errors:      result.Errors,
		Warnings:    result.Warnings,
		StartedAt:   result.StartedAt,
		CompletedAt: result.CompletedAt,
	}
}
