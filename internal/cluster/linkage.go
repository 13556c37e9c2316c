// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import "math"

// Merge is one step of the agglomeration. Left and Right name the merged
// clusters by their lowest member index; Left < Right always holds, and the
// merged cluster keeps the name Left.
type Merge struct {
	Left     int
	Right    int
	Distance float64
	Size     int
}

// Dendrogram is the full merge history of n points: n-1 merges in the
// order they were performed.
type Dendrogram struct {
	n      int
	Merges []Merge
}

// Len returns the number of leaves.
func (d *Dendrogram) Len() int { return d.n }

// AverageLinkage builds the dendrogram for dist. At each step the two
// active clusters with the smallest average pairwise distance merge; ties
// go to the pair whose names come first. Cluster distances are maintained
// with the Lance-Williams update for average linkage.
func AverageLinkage(dist DistanceMatrix) *Dendrogram {
	n := dist.Len()
	dendro := &Dendrogram{n: n}
	if n < 2 {
		return dendro
	}

	// work[i][j] is the current distance between clusters named i and j.
	work := make([][]float64, n)
	for i := range work {
		work[i] = append([]float64(nil), dist[i]...)
	}
	size := make([]int, n)
	active := make([]bool, n)
	for i := range size {
		size[i] = 1
		active[i] = true
	}

	dendro.Merges = make([]Merge, 0, n-1)
	for step := 0; step < n-1; step++ {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if !active[j] {
					continue
				}
				if work[i][j] < best {
					best = work[i][j]
					bi, bj = i, j
				}
			}
		}

		ni, nj := float64(size[bi]), float64(size[bj])
		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			merged := (ni*work[bi][k] + nj*work[bj][k]) / (ni + nj)
			work[bi][k] = merged
			work[k][bi] = merged
		}
		size[bi] += size[bj]
		active[bj] = false

		dendro.Merges = append(dendro.Merges, Merge{
			Left:     bi,
			Right:    bj,
			Distance: best,
			Size:     size[bi],
		})
	}
	return dendro
}

// Cut returns the labels obtained by stopping the agglomeration when k
// clusters remain. Labels are dense in 0..k-1 and numbered in order of each
// cluster's lowest member index. k is clamped to [1, n].
func (d *Dendrogram) Cut(k int) []int {
	if d.n == 0 {
		return []int{}
	}
	if k < 1 {
		k = 1
	}
	if k > d.n {
		k = d.n
	}

	parent := make([]int, d.n)
	for i := range parent {
		parent[i] = i
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	for _, m := range d.Merges[:d.n-k] {
		parent[find(m.Right)] = find(m.Left)
	}

	labels := make([]int, d.n)
	ids := make(map[int]int, k)
	for i := 0; i < d.n; i++ {
		root := find(i)
		id, ok := ids[root]
		if !ok {
			id = len(ids)
			ids[root] = id
		}
		labels[i] = id
	}
	return labels
}
