package analysis

import (
	"fmt"
	"math"
)

// highSimilarityBar is the mean intra-cluster similarity above which a
// template consolidation is high priority.
const highSimilarityBar = 0.9

// largeClusterFloor is the member count above which consolidating a cluster
// takes medium rather than low effort.
const largeClusterFloor = 5

// highFreqComponentSampleLimit caps the components listed in the
// component-priority recommendation details.
const highFreqComponentSampleLimit = 5

// buildClusterRecommendations derives per-cluster template guidance from the
// clustering report.
func buildClusterRecommendations(clustering *ClusteringReport) {
	for _, c := range clustering.Clusters {
		clustering.Recommendations = append(clustering.Recommendations, ClusterRecommendation{
			ClusterID:         c.ID,
			PageCount:         c.Size(),
			DominantPageType:  c.DominantPageType,
			AverageSimilarity: c.AverageSimilarity,
			Recommendation: fmt.Sprintf(
				"Consolidate %d structurally similar %s pages into a single template",
				c.Size(), c.DominantPageType,
			),
		})
	}
}

// generateRecommendations assembles the final migration guidance. Each
// recommendation is emitted independently, in a fixed order: templates,
// components, framework, assets.
func generateRecommendations(report *Report, assetThreshold int) []Recommendation {
	var recs []Recommendation

	for _, cr := range report.PageClustering.Recommendations {
		priority := PriorityMedium
		if cr.AverageSimilarity > highSimilarityBar {
			priority = PriorityHigh
		}
		effort := EffortLow
		if cr.PageCount > largeClusterFloor {
			effort = EffortMedium
		}
		recs = append(recs, Recommendation{
			Type:        RecTemplateOptimization,
			Priority:    priority,
			Title:       fmt.Sprintf("Template for %s pages", cr.DominantPageType),
			Description: cr.Recommendation,
			Details: map[string]any{
				"cluster_id":         cr.ClusterID,
				"page_count":         cr.PageCount,
				"average_similarity": cr.AverageSimilarity,
			},
			EstimatedEffort: effort,
		})
	}

	if high := report.ComponentAnalysis.FrequencyGroups[PriorityHigh]; len(high) > 0 {
		total := 0
		for _, c := range high {
			total += c.Frequency
		}
		sample := high
		if len(sample) > highFreqComponentSampleLimit {
			sample = sample[:highFreqComponentSampleLimit]
		}
		recs = append(recs, Recommendation{
			Type:     RecComponentPriority,
			Priority: PriorityHigh,
			Title:    "High-frequency components",
			Description: fmt.Sprintf(
				"Prioritize %d high-frequency components for reusable component development", len(high),
			),
			Details: map[string]any{
				"components":        sample,
				"total_occurrences": total,
			},
			EstimatedEffort: EffortMedium,
		})
	}

	if framework, count := dominantFramework(report.LayoutAnalysis.CSSFrameworks); framework != "" {
		effort := EffortHigh
		if framework == "bootstrap" {
			effort = EffortMedium
		}
		usage := 0.0
		if report.TotalPages > 0 {
			usage = math.Round(float64(count)/float64(report.TotalPages)*1000) / 10
		}
		recs = append(recs, Recommendation{
			Type:     RecFrameworkMigration,
			Priority: PriorityMedium,
			Title:    "CSS Framework: " + framework,
			Description: fmt.Sprintf(
				"Site uses %s - plan for built-in components or a custom stylesheet port", framework,
			),
			Details: map[string]any{
				"framework":        framework,
				"usage_percentage": usage,
			},
			EstimatedEffort: effort,
		})
	}

	if report.AssetInventory.TotalAssets > assetThreshold {
		recs = append(recs, Recommendation{
			Type:     RecAssetManagement,
			Priority: PriorityMedium,
			Title:    "Asset Management",
			Description: fmt.Sprintf(
				"Large number of assets (%d) - plan a structured asset organization",
				report.AssetInventory.TotalAssets,
			),
			Details: map[string]any{
				"total_assets": report.AssetInventory.TotalAssets,
				"asset_types":  report.AssetInventory.AssetTypes,
			},
			EstimatedEffort: EffortMedium,
		})
	}

	return recs
}

// dominantFramework picks the most common framework, ties broken
// lexicographically for stable output.
func dominantFramework(frameworks map[string]int) (string, int) {
	best, bestCount := "", 0
	for name, count := range frameworks {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best, bestCount
}
