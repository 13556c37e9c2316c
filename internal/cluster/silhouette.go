// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

// Silhouette returns the mean silhouette coefficient of labels over dist.
// For point i, a is the mean distance to the other members of its cluster
// and b the smallest mean distance to the members of any other cluster; the
// point scores (b-a)/max(a,b). Points in singleton clusters, and points with
// max(a,b) == 0, score 0. Labels must be dense in 0..k-1.
func Silhouette(dist DistanceMatrix, labels []int) float64 {
	n := len(labels)
	if n == 0 {
		return 0
	}

	k := 0
	for _, l := range labels {
		if l+1 > k {
			k = l + 1
		}
	}
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}

	total := 0.0
	sums := make([]float64, k)
	for i := 0; i < n; i++ {
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += dist[i][j]
			}
		}

		a := sums[own] / float64(sizes[own]-1)
		b := -1.0
		for c := 0; c < k; c++ {
			if c == own || sizes[c] == 0 {
				continue
			}
			mean := sums[c] / float64(sizes[c])
			if b < 0 || mean < b {
				b = mean
			}
		}
		if b < 0 {
			continue
		}

		denom := a
		if b > denom {
			denom = b
		}
		if denom > 0 {
			total += (b - a) / denom
		}
	}
	return total / float64(n)
}
