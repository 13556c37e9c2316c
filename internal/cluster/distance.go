// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster partitions feature vectors with average-linkage
// agglomerative clustering over cosine distance, and chooses the number of
// clusters by mean silhouette coefficient.
//
// Everything in this package is deterministic: identical input order and
// vectors always produce identical merges, scores, and labels.
package cluster

import (
	"math"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// DistanceMatrix is a symmetric matrix of pairwise distances with a zero
// diagonal.
type DistanceMatrix [][]float64

// Len returns the number of points.
func (d DistanceMatrix) Len() int { return len(d) }

// CosineDistances returns 1 - cosine similarity for every pair of vectors.
// A zero vector has similarity 0 with every other vector. Results are
// clamped to [0, 2] to absorb rounding.
func CosineDistances(vecs []types.FeatureVector) DistanceMatrix {
	n := len(vecs)
	norms := make([]float64, n)
	for i, v := range vecs {
		norms[i] = norm(v)
	}

	d := make(DistanceMatrix, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := 0.0
			if norms[i] > 0 && norms[j] > 0 {
				sim = dot(vecs[i], vecs[j]) / (norms[i] * norms[j])
			}
			dist := clamp(1-sim, 0, 2)
			d[i][j] = dist
			d[j][i] = dist
		}
	}
	return d
}

func dot(a, b types.FeatureVector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v types.FeatureVector) float64 {
	return math.Sqrt(dot(v, v))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
