package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/semaphore"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// extractLinks collects anchor targets, resolving relative hrefs against the
// page URL and classifying each as internal or external.
func (c *Crawler) extractLinks(page *types.Page, pageURL *url.URL, doc *goquery.Document) {
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved, err := ResolveLink(pageURL, href)
		if err != nil {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}

		target, err := url.Parse(resolved)
		if err != nil {
			return
		}
		title, _ := sel.Attr("title")
		page.Links = append(page.Links, types.Link{
			URL:      resolved,
			Text:     strings.TrimSpace(sel.Text()),
			Title:    title,
			Internal: SameSite(c.base, target, c.cfg.Crawler.IncludeSubdomains),
		})
	})
}

// assetSelectors maps a CSS selector to the attribute carrying the asset URL.
var assetSelectors = []struct {
	selector string
	attr     string
}{
	{"img[src]", "src"},
	{"link[rel='stylesheet'][href]", "href"},
	{"script[src]", "src"},
	{"source[src]", "src"},
	{"video[src]", "src"},
	{"audio[src]", "src"},
	{"link[rel='icon'][href]", "href"},
	{"link[rel='shortcut icon'][href]", "href"},
}

// extractAssets collects asset references. Bodies are not fetched here;
// downloadAssets fills in size and checksum later.
func (c *Crawler) extractAssets(page *types.Page, pageURL *url.URL, doc *goquery.Document) {
	seen := make(map[string]struct{})
	for _, as := range assetSelectors {
		doc.Find(as.selector).Each(func(_ int, sel *goquery.Selection) {
			raw, _ := sel.Attr(as.attr)
			raw = strings.TrimSpace(raw)
			if raw == "" || strings.HasPrefix(raw, "data:") {
				return
			}
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			resolved := pageURL.ResolveReference(ref)
			if resolved.Scheme != "http" && resolved.Scheme != "https" {
				return
			}
			resolved.Fragment = ""
			abs := resolved.String()
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			page.Assets = append(page.Assets, types.Asset{URL: abs})
		})
	}
}

// assetDownloadSlots bounds concurrent asset fetches per page so a media
// heavy page cannot monopolize connections.
const assetDownloadSlots = 4

// downloadAssets fetches and persists each asset body. Asset failures are
// warnings: a missing stylesheet never fails the page. Returns only after
// every launched download has finished, so page.Assets is never written
// concurrently with the caller; on cancellation in-flight fetches exit
// promptly because FetchBytes honors the context.
func (c *Crawler) downloadAssets(ctx context.Context, logger *slog.Logger, page *types.Page) {
	sem := semaphore.NewWeighted(assetDownloadSlots)
	var wg sync.WaitGroup
	for i := range page.Assets {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(asset *types.Asset) {
			defer wg.Done()
			defer sem.Release(1)
			c.downloadAsset(ctx, logger, page, asset)
		}(&page.Assets[i])
	}
	wg.Wait()
}

func (c *Crawler) downloadAsset(ctx context.Context, logger *slog.Logger, page *types.Page, asset *types.Asset) {
	body, contentType, err := c.fetcher.FetchBytes(ctx, asset.URL)
	if err != nil {
		logger.Debug("asset download failed", "asset", asset.URL, "error", err)
		c.recordWarning(fmt.Sprintf("asset %s: %v", asset.URL, err))
		return
	}
	asset.ContentType = contentType
	localPath, err := c.store.SaveAsset(page, asset, body)
	if err != nil {
		logger.Debug("asset save failed", "asset", asset.URL, "error", err)
		c.recordWarning(err.Error())
		return
	}
	asset.LocalPath = localPath
}
