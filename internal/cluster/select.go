// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import "github.com/pdiddy/geo-cluster/pkg/types"

const (
	// MinCandidateK is the smallest cluster count the selector scores.
	MinCandidateK = 2

	// MaxCandidateK is the largest cluster count the selector scores.
	MaxCandidateK = 10
)

// CandidateRange returns the inclusive range of k values scored for n
// documents: 2..min(10, n-1). The range is empty when hi < lo.
func CandidateRange(n int) (lo, hi int) {
	hi = n - 1
	if hi > MaxCandidateK {
		hi = MaxCandidateK
	}
	return MinCandidateK, hi
}

// SelectK sweeps the candidate range, cutting dendro at each k and scoring
// the cut by mean silhouette over dist. The highest score wins; on a tie
// the smaller k is kept. When the range is empty SelectK returns 1 and no
// scores.
func SelectK(dist DistanceMatrix, dendro *Dendrogram) (int, []types.SilhouetteScore) {
	lo, hi := CandidateRange(dist.Len())
	if hi < lo {
		return 1, nil
	}

	scores := make([]types.SilhouetteScore, 0, hi-lo+1)
	bestK := lo
	bestScore := 0.0
	for k := lo; k <= hi; k++ {
		s := Silhouette(dist, dendro.Cut(k))
		scores = append(scores, types.SilhouetteScore{K: k, Score: s})
		if k == lo || s > bestScore {
			bestK, bestScore = k, s
		}
	}
	return bestK, scores
}

// Result is the outcome of clustering one corpus.
type Result struct {
	K      int
	Labels []int
	Scores []types.SilhouetteScore
}

// Run computes distances, builds the dendrogram, selects k, and cuts.
func Run(vecs []types.FeatureVector) Result {
	dist := CosineDistances(vecs)
	dendro := AverageLinkage(dist)
	k, scores := SelectK(dist, dendro)
	return Result{K: k, Labels: dendro.Cut(k), Scores: scores}
}

// SingleCluster returns the result that places all n points in cluster 0.
func SingleCluster(n int) Result {
	return Result{K: 1, Labels: make([]int, n)}
}
