package analysis

import (
	"time"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Report is the full analysis output for one crawled site. It is the schema
// consumed by the export layer.
type Report struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	BaseURL           string           `json:"base_url"`
	TotalPages        int              `json:"total_pages"`
	PageClustering    ClusteringReport `json:"page_clustering"`
	ComponentAnalysis ComponentReport  `json:"component_analysis"`
	ContentModels     []ContentModel   `json:"content_models,omitempty"`
	LayoutAnalysis    LayoutReport     `json:"layout_analysis"`
	AssetInventory    AssetInventory   `json:"asset_inventory"`
	SiteStructure     StructureReport  `json:"site_structure"`
	Recommendations   []Recommendation `json:"recommendations"`
}

// ClusteringReport holds the cluster assignment and per-cluster template
// guidance.
type ClusteringReport struct {
	Clusters             []*types.Cluster        `json:"clusters"`
	Recommendations      []ClusterRecommendation `json:"recommendations"`
	NoisePages           []string                `json:"noise_pages,omitempty"`
	PageTypeDistribution map[string]int          `json:"page_type_distribution"`
	DepthDistribution    map[int]int             `json:"depth_distribution"`
}

// ClusterRecommendation suggests a shared template for one cluster.
type ClusterRecommendation struct {
	ClusterID         int     `json:"cluster_id"`
	PageCount         int     `json:"page_count"`
	DominantPageType  string  `json:"dominant_page_type"`
	AverageSimilarity float64 `json:"average_similarity"`
	Recommendation    string  `json:"recommendation"`
}

// ComponentReport aggregates component usage across the site.
type ComponentReport struct {
	TotalComponents    int                         `json:"total_components"`
	UniqueComponents   int                         `json:"unique_components"`
	ReusableComponents int                         `json:"reusable_components"`
	FrequencyGroups    map[string][]ComponentUsage `json:"frequency_groups"`
	TopComponents      []ComponentCount            `json:"top_components"`
	ByPageType         map[string][]ComponentUsage `json:"components_by_page_type,omitempty"`
}

// ComponentUsage is one component occurrence with its page context.
type ComponentUsage struct {
	Selector  string   `json:"selector"`
	Tag       string   `json:"tag"`
	Category  string   `json:"category"`
	Classes   []string `json:"classes,omitempty"`
	PageURL   string   `json:"page_url"`
	PageType  string   `json:"page_type"`
	Frequency int      `json:"frequency"`
}

// ComponentCount pairs a component signature with its site-wide frequency.
type ComponentCount struct {
	Signature string `json:"signature"`
	Count     int    `json:"count"`
}

// LayoutReport aggregates layout detection across pages.
type LayoutReport struct {
	CSSFrameworks      map[string]int `json:"css_frameworks"`
	GridSystems        map[string]int `json:"grid_systems"`
	ResponsivePatterns map[string]int `json:"responsive_patterns"`
	LayoutStructures   map[string]int `json:"layout_structures"`
	PagesWithHeader    int            `json:"pages_with_header"`
	PagesWithFooter    int            `json:"pages_with_footer"`
	PagesWithSidebar   int            `json:"pages_with_sidebar"`
	PagesWithForms     int            `json:"pages_with_forms"`
	PagesWithNav       int            `json:"pages_with_navigation"`
}

// AssetInventory summarizes the downloaded assets.
type AssetInventory struct {
	TotalAssets    int              `json:"total_assets"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	TotalSizeMB    float64          `json:"total_size_mb"`
	AssetTypes     map[string]int   `json:"asset_types"`
	FileExtensions map[string]int   `json:"file_extensions"`
	SizeByType     map[string]int64 `json:"size_by_type"`
}

// StructureReport describes the overall shape of the site.
type StructureReport struct {
	DepthDistribution    map[int]int    `json:"depth_distribution"`
	PageTypeDistribution map[string]int `json:"page_type_distribution"`
	LinkAnalysis         LinkAnalysis   `json:"link_analysis"`
	SiteComplexity       SiteComplexity `json:"site_complexity"`
}

// LinkAnalysis aggregates the link graph counters.
type LinkAnalysis struct {
	TotalLinks      int     `json:"total_links"`
	InternalLinks   int     `json:"internal_links"`
	ExternalLinks   int     `json:"external_links"`
	AvgLinksPerPage float64 `json:"avg_links_per_page"`
}

// SiteComplexity is a coarse difficulty estimate for a migration.
type SiteComplexity struct {
	ComplexityScore float64 `json:"complexity_score"`
	NavigationDepth int     `json:"navigation_depth"`
	ContentVariety  int     `json:"content_variety"`
}

// Recommendation priorities and effort levels.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	EffortHigh   = "high"
	EffortMedium = "medium"
	EffortLow    = "low"
)

// Recommendation types.
const (
	RecTemplateOptimization = "template_optimization"
	RecComponentPriority    = "component_priority"
	RecFrameworkMigration   = "framework_migration"
	RecAssetManagement      = "asset_management"
)

// Recommendation is one actionable migration suggestion.
type Recommendation struct {
	Type            string         `json:"type"`
	Priority        string         `json:"priority"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Details         map[string]any `json:"details,omitempty"`
	EstimatedEffort string         `json:"estimated_effort"`
}

// ContentModel describes the fields a CMS content type needs to represent
// one page type.
type ContentModel struct {
	Name        string       `json:"name"`
	PageType    string       `json:"page_type"`
	Description string       `json:"description"`
	Fields      []ModelField `json:"fields"`
	SamplePages []string     `json:"sample_pages"`
}

// ModelField is one field of a content model.
type ModelField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}
