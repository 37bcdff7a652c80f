package types

// StructuralSignature is the structural feature summary of a single page,
// used for similarity scoring. Frequency maps are keyed on normalized tokens
// (digit runs collapsed), so paginated and numbered variants group together.
type StructuralSignature struct {
	// TagFrequency counts every element by tag name.
	TagFrequency map[string]int `json:"tag_frequency"`

	// ClassFrequency counts normalized class tokens.
	ClassFrequency map[string]int `json:"class_frequency"`

	// IDFrequency counts normalized element ids.
	IDFrequency map[string]int `json:"id_frequency"`

	// LayoutSignature is the sorted landmark code string, see
	// LayoutStructure.Signature.
	LayoutSignature string `json:"layout_signature"`

	// Content counters.
	TextLength     int `json:"text_length"`
	HeadingCount   int `json:"heading_count"`
	ParagraphCount int `json:"paragraph_count"`
	LinkCount      int `json:"link_count"`
	ImageCount     int `json:"image_count"`
	ListCount      int `json:"list_count"`

	// ComponentCount is the number of components identified on the page.
	ComponentCount int `json:"component_count"`
}

// SimilarityMatrix is a square, symmetric matrix of pairwise structural
// similarities in [0,1]. The diagonal is always 1.0.
type SimilarityMatrix struct {
	Size   int         `json:"size"`
	Values [][]float64 `json:"values"`
}

// NewSimilarityMatrix allocates an n×n matrix with the diagonal set to 1.0.
func NewSimilarityMatrix(n int) *SimilarityMatrix {
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1.0
	}
	return &SimilarityMatrix{Size: n, Values: values}
}

// At returns the similarity between pages i and j.
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.Values[i][j]
}

// Set stores a symmetric similarity value for the pair (i, j).
func (m *SimilarityMatrix) Set(i, j int, v float64) {
	m.Values[i][j] = v
	m.Values[j][i] = v
}

// Cluster is a group of near-duplicate pages. Clusters are disjoint; pages
// in no cluster are noise and take no part in recommendations.
type Cluster struct {
	ID                int      `json:"id"`
	Pages             []*Page  `json:"-"`
	PageURLs          []string `json:"pages"`
	DominantPageType  string   `json:"dominant_page_type"`
	AverageSimilarity float64  `json:"average_similarity"`
}

// Size returns the number of member pages.
func (c *Cluster) Size() int {
	return len(c.Pages)
}
