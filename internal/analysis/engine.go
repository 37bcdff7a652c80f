package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Engine runs the full analysis pipeline over a crawled page set:
// signatures, similarity matrix, clustering, aggregate reports, and
// recommendations. The pipeline is pure computation; the only context use
// is bounding the matrix workers.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewEngine creates an analysis Engine.
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger.With("component", "analysis"),
	}
}

// Run analyzes the pages of a finished crawl and produces the Report.
// A page set too small to cluster degrades to an empty clustering section;
// every other section is still produced.
func (e *Engine) Run(ctx context.Context, sm *types.SiteMap) (*Report, error) {
	pages := sm.Pages
	e.logger.Info("starting analysis", "pages", len(pages))
	start := time.Now()

	for _, p := range pages {
		if p.Signature == nil {
			p.Signature = ExtractSignature(p)
		}
	}

	report := &Report{
		GeneratedAt: time.Now(),
		BaseURL:     sm.BaseURL,
		TotalPages:  len(pages),
	}

	report.PageClustering = e.clusterPages(ctx, pages)
	report.ComponentAnalysis = analyzeComponents(pages)
	report.LayoutAnalysis = analyzeLayouts(pages)
	report.AssetInventory = buildAssetInventory(pages)
	report.SiteStructure = analyzeStructure(pages)

	if e.cfg.Analysis.GenerateModels {
		report.ContentModels = generateContentModels(pages)
	}

	report.Recommendations = generateRecommendations(report, e.cfg.Analysis.AssetThreshold)

	e.logger.Info("analysis complete",
		"clusters", len(report.PageClustering.Clusters),
		"recommendations", len(report.Recommendations),
		"duration", time.Since(start),
	)
	return report, nil
}

// clusterPages runs similarity and clustering, tolerating page sets too
// small to cluster.
func (e *Engine) clusterPages(ctx context.Context, pages []*types.Page) ClusteringReport {
	clustering := ClusteringReport{
		Clusters:             []*types.Cluster{},
		PageTypeDistribution: make(map[string]int),
		DepthDistribution:    make(map[int]int),
	}
	for _, p := range pages {
		pt := p.Metadata.PageType
		if pt == "" {
			pt = "unknown"
		}
		clustering.PageTypeDistribution[pt]++
		clustering.DepthDistribution[p.Depth]++
	}

	sigs := make([]*types.StructuralSignature, len(pages))
	for i, p := range pages {
		sigs[i] = p.Signature
	}

	matrix := BuildMatrix(ctx, sigs)
	clusters, err := ClusterPages(pages, matrix, e.cfg.Analysis.SimilarityThreshold)
	if err != nil {
		var clusterErr *types.ClusteringError
		if errors.As(err, &clusterErr) {
			e.logger.Warn("skipping clustering", "reason", err)
			return clustering
		}
		e.logger.Error("clustering failed", "error", err)
		return clustering
	}

	clustering.Clusters = clusters
	clustering.NoisePages = noisePages(pages, clusters)
	buildClusterRecommendations(&clustering)
	return clustering
}

// noisePages lists the URLs of pages that landed in no cluster.
func noisePages(pages []*types.Page, clusters []*types.Cluster) []string {
	clustered := make(map[string]struct{})
	for _, c := range clusters {
		for _, u := range c.PageURLs {
			clustered[u] = struct{}{}
		}
	}
	var noise []string
	for _, p := range pages {
		if _, ok := clustered[p.URL]; !ok {
			noise = append(noise, p.URL)
		}
	}
	return noise
}
