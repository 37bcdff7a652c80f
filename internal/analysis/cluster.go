package analysis

import (
	"sort"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// minClusterSize is the density-based minimum neighborhood population. A
// page needs at least one structural neighbor to seed a cluster.
const minClusterSize = 2

// DBSCAN point labels.
const (
	labelUnvisited = 0
	labelNoise     = -1
)

// ClusterPages groups pages by structural similarity using density-based
// clustering over the precomputed matrix. The neighborhood radius is
// 1 − threshold in distance space. Pages with no neighbor within the radius
// are noise and appear in no cluster. Fewer than two pages is a
// ClusteringError; callers degrade to an empty result.
func ClusterPages(pages []*types.Page, matrix *types.SimilarityMatrix, threshold float64) ([]*types.Cluster, error) {
	n := len(pages)
	if n < minClusterSize {
		return nil, &types.ClusteringError{Err: types.ErrNotEnoughPages}
	}

	eps := 1.0 - threshold
	labels := make([]int, n)
	clusterID := 0

	for i := 0; i < n; i++ {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := regionQuery(matrix, i, eps)
		if len(neighbors) < minClusterSize {
			labels[i] = labelNoise
			continue
		}
		clusterID++
		expandCluster(matrix, labels, i, neighbors, clusterID, eps)
	}

	return collectClusters(pages, matrix, labels, clusterID), nil
}

// regionQuery returns the indices within eps distance of point i, including
// i itself.
func regionQuery(matrix *types.SimilarityMatrix, i int, eps float64) []int {
	var neighbors []int
	for j := 0; j < matrix.Size; j++ {
		if 1.0-matrix.At(i, j) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

// expandCluster grows a cluster from a core point by chasing
// density-reachable neighbors.
func expandCluster(matrix *types.SimilarityMatrix, labels []int, i int, neighbors []int, clusterID int, eps float64) {
	labels[i] = clusterID
	queue := append([]int(nil), neighbors...)

	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]

		if labels[j] == labelNoise {
			labels[j] = clusterID // border point
		}
		if labels[j] != labelUnvisited {
			continue
		}
		labels[j] = clusterID

		jNeighbors := regionQuery(matrix, j, eps)
		if len(jNeighbors) >= minClusterSize {
			queue = append(queue, jNeighbors...)
		}
	}
}

// collectClusters builds Cluster values from the label assignment, dropping
// singleton groups.
func collectClusters(pages []*types.Page, matrix *types.SimilarityMatrix, labels []int, maxID int) []*types.Cluster {
	var clusters []*types.Cluster
	for id := 1; id <= maxID; id++ {
		var members []int
		for i, label := range labels {
			if label == id {
				members = append(members, i)
			}
		}
		if len(members) < minClusterSize {
			continue
		}

		c := &types.Cluster{ID: len(clusters) + 1}
		for _, i := range members {
			c.Pages = append(c.Pages, pages[i])
			c.PageURLs = append(c.PageURLs, pages[i].URL)
		}
		c.AverageSimilarity = meanPairwiseSimilarity(matrix, members)
		c.DominantPageType = dominantPageType(c.Pages)
		clusters = append(clusters, c)
	}
	return clusters
}

func meanPairwiseSimilarity(matrix *types.SimilarityMatrix, members []int) float64 {
	if len(members) < 2 {
		return 1.0
	}
	var sum float64
	var count int
	for x := 0; x < len(members); x++ {
		for y := x + 1; y < len(members); y++ {
			sum += matrix.At(members[x], members[y])
			count++
		}
	}
	return sum / float64(count)
}

// dominantPageType returns the modal page type among the members, breaking
// ties lexicographically for stable output.
func dominantPageType(pages []*types.Page) string {
	counts := make(map[string]int)
	for _, p := range pages {
		pt := p.Metadata.PageType
		if pt == "" {
			pt = "unknown"
		}
		counts[pt]++
	}

	var best string
	bestCount := -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
