package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Similarity sub-score weights. They sum to 1.0.
const (
	weightTagStructure     = 0.30
	weightClassPattern     = 0.25
	weightLayoutSignature  = 0.20
	weightComponentCount   = 0.15
	weightContentStructure = 0.10
)

// Similarity scores the structural resemblance of two pages in [0,1].
// It is symmetric, and a signature always scores 1.0 against itself.
func Similarity(a, b *types.StructuralSignature) float64 {
	score := weightTagStructure*DictSimilarity(a.TagFrequency, b.TagFrequency) +
		weightClassPattern*DictSimilarity(a.ClassFrequency, b.ClassFrequency) +
		weightComponentCount*countCloseness(a.ComponentCount, b.ComponentCount) +
		weightContentStructure*contentSimilarity(a, b)
	if a.LayoutSignature == b.LayoutSignature {
		score += weightLayoutSignature
	}
	return score
}

// DictSimilarity compares two frequency maps. Key overlap contributes 30%
// and value closeness over the common keys 70%. Two empty maps are identical
// by definition; an empty map against a non-empty one shares nothing.
func DictSimilarity(d1, d2 map[string]int) float64 {
	if len(d1) == 0 && len(d2) == 0 {
		return 1.0
	}
	if len(d1) == 0 || len(d2) == 0 {
		return 0.0
	}

	intersection := 0
	for k := range d1 {
		if _, ok := d2[k]; ok {
			intersection++
		}
	}
	union := len(d1) + len(d2) - intersection
	jaccard := float64(intersection) / float64(union)

	if intersection == 0 {
		return jaccard * 0.5
	}

	var valueSum float64
	for k, v1 := range d1 {
		v2, ok := d2[k]
		if !ok {
			continue
		}
		valueSum += valueCloseness(v1, v2)
	}
	valueSim := valueSum / float64(intersection)

	return jaccard*0.3 + valueSim*0.7
}

// valueCloseness is 1 − relative absolute difference, and 1.0 when both
// values are zero.
func valueCloseness(v1, v2 int) float64 {
	if v1 == 0 && v2 == 0 {
		return 1.0
	}
	maxV := math.Max(float64(v1), float64(v2))
	return 1.0 - math.Abs(float64(v1)-float64(v2))/maxV
}

// countCloseness compares two counts as 1 − |a−b| / max(a,b,1).
func countCloseness(a, b int) float64 {
	maxC := math.Max(math.Max(float64(a), float64(b)), 1)
	return 1.0 - math.Abs(float64(a)-float64(b))/maxC
}

// contentSimilarity is the mean relative closeness over the content
// counters. A counter present on only one side contributes zero.
func contentSimilarity(a, b *types.StructuralSignature) float64 {
	pairs := [][2]int{
		{a.TextLength, b.TextLength},
		{a.HeadingCount, b.HeadingCount},
		{a.ParagraphCount, b.ParagraphCount},
		{a.LinkCount, b.LinkCount},
		{a.ImageCount, b.ImageCount},
		{a.ListCount, b.ListCount},
	}

	var sum float64
	for _, p := range pairs {
		sum += valueCloseness(p[0], p[1])
	}
	return sum / float64(len(pairs))
}

// BuildMatrix computes the full pairwise similarity matrix. Rows are
// independent, so they are computed in parallel. The diagonal is forced
// to 1.0.
func BuildMatrix(ctx context.Context, sigs []*types.StructuralSignature) *types.SimilarityMatrix {
	n := len(sigs)
	matrix := types.NewSimilarityMatrix(n)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				matrix.Set(i, j, Similarity(sigs[i], sigs[j]))
			}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	for i := 0; i < n; i++ {
		matrix.Values[i][i] = 1.0
	}
	return matrix
}
