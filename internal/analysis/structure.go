package analysis

import (
	"math"
	"path"
	"strings"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Complexity score weights and normalization ceilings. The score blends
// crawl depth, page-type variety, component density, and link density into
// a single [0,1] estimate.
const (
	complexityDepthWeight     = 0.3
	complexityVarietyWeight   = 0.25
	complexityComponentWeight = 0.25
	complexityLinkWeight      = 0.2

	depthCeiling        = 5.0
	varietyCeiling      = 10.0
	avgComponentCeiling = 20.0
	avgLinkCeiling      = 50.0
)

// analyzeLayouts aggregates per-page layout detection into site-wide
// counters.
func analyzeLayouts(pages []*types.Page) LayoutReport {
	report := LayoutReport{
		CSSFrameworks:      make(map[string]int),
		GridSystems:        make(map[string]int),
		ResponsivePatterns: make(map[string]int),
		LayoutStructures:   make(map[string]int),
	}

	for _, p := range pages {
		if p.Layout == nil {
			continue
		}
		if p.Layout.CSSFramework != "" {
			report.CSSFrameworks[p.Layout.CSSFramework]++
		}
		for _, class := range p.Layout.GridClasses {
			report.GridSystems[class]++
		}
		for _, class := range p.Layout.ResponsiveClasses {
			report.ResponsivePatterns[class]++
		}
		if p.Layout.Signature != "" {
			report.LayoutStructures[p.Layout.Signature]++
		}
		if p.Layout.Structure.HasHeader {
			report.PagesWithHeader++
		}
		if p.Layout.Structure.HasFooter {
			report.PagesWithFooter++
		}
		if p.Layout.Structure.HasSidebar {
			report.PagesWithSidebar++
		}
		if p.Layout.Structure.HasForm {
			report.PagesWithForms++
		}
		if p.Layout.Structure.HasNav {
			report.PagesWithNav++
		}
	}
	return report
}

// analyzeStructure summarizes the site's link graph and shape.
func analyzeStructure(pages []*types.Page) StructureReport {
	depths := make(map[int]int)
	pageTypes := make(map[string]int)
	totalLinks, internalLinks := 0, 0
	maxDepth := 0

	for _, p := range pages {
		depths[p.Depth]++
		if p.Depth > maxDepth {
			maxDepth = p.Depth
		}
		pt := p.Metadata.PageType
		if pt == "" {
			pt = "unknown"
		}
		pageTypes[pt]++
		totalLinks += len(p.Links)
		for _, l := range p.Links {
			if l.Internal {
				internalLinks++
			}
		}
	}

	var avgLinks float64
	if len(pages) > 0 {
		avgLinks = math.Round(float64(totalLinks)/float64(len(pages))*100) / 100
	}

	return StructureReport{
		DepthDistribution:    depths,
		PageTypeDistribution: pageTypes,
		LinkAnalysis: LinkAnalysis{
			TotalLinks:      totalLinks,
			InternalLinks:   internalLinks,
			ExternalLinks:   totalLinks - internalLinks,
			AvgLinksPerPage: avgLinks,
		},
		SiteComplexity: SiteComplexity{
			ComplexityScore: complexityScore(pages, maxDepth, len(pageTypes)),
			NavigationDepth: maxDepth,
			ContentVariety:  len(pageTypes),
		},
	}
}

// complexityScore is a weighted blend of normalized depth, variety,
// component density, and link density, rounded to three decimals.
func complexityScore(pages []*types.Page, maxDepth, pageTypes int) float64 {
	if len(pages) == 0 {
		return 0.0
	}

	totalComponents, totalLinks := 0, 0
	for _, p := range pages {
		totalComponents += len(p.Components)
		totalLinks += len(p.Links)
	}
	avgComponents := float64(totalComponents) / float64(len(pages))
	avgLinks := float64(totalLinks) / float64(len(pages))

	depthScore := math.Min(float64(maxDepth)/depthCeiling, 1.0)
	typeScore := math.Min(float64(pageTypes)/varietyCeiling, 1.0)
	componentScore := math.Min(avgComponents/avgComponentCeiling, 1.0)
	linkScore := math.Min(avgLinks/avgLinkCeiling, 1.0)

	score := depthScore*complexityDepthWeight +
		typeScore*complexityVarietyWeight +
		componentScore*complexityComponentWeight +
		linkScore*complexityLinkWeight
	return math.Round(score*1000) / 1000
}

// buildAssetInventory summarizes every asset across the page set.
func buildAssetInventory(pages []*types.Page) AssetInventory {
	inv := AssetInventory{
		AssetTypes:     make(map[string]int),
		FileExtensions: make(map[string]int),
		SizeByType:     make(map[string]int64),
	}

	for _, p := range pages {
		for _, a := range p.Assets {
			inv.TotalAssets++
			inv.TotalSizeBytes += a.Size

			assetType := classifyAsset(a)
			inv.AssetTypes[assetType]++
			inv.SizeByType[assetType] += a.Size

			if ext := strings.ToLower(path.Ext(a.URL)); ext != "" {
				inv.FileExtensions[ext]++
			}
		}
	}

	inv.TotalSizeMB = math.Round(float64(inv.TotalSizeBytes)/(1024*1024)*100) / 100
	return inv
}

// classifyAsset buckets an asset by content type, falling back to the URL
// extension when the type was never fetched.
func classifyAsset(a types.Asset) string {
	ct := a.ContentType
	switch {
	case strings.HasPrefix(ct, "image/"):
		return "image"
	case strings.HasPrefix(ct, "video/"), strings.HasPrefix(ct, "audio/"):
		return "media"
	case strings.Contains(ct, "css"):
		return "stylesheet"
	case strings.Contains(ct, "javascript"):
		return "script"
	case strings.HasPrefix(ct, "font/"), strings.Contains(ct, "font"):
		return "font"
	}

	switch strings.ToLower(path.Ext(a.URL)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
		return "image"
	case ".mp4", ".webm", ".mp3", ".ogg", ".wav":
		return "media"
	case ".css":
		return "stylesheet"
	case ".js", ".mjs":
		return "script"
	case ".woff", ".woff2", ".ttf", ".otf", ".eot":
		return "font"
	}
	return "other"
}
