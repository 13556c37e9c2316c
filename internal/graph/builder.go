// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph assembles the visualization graph that relates publications
// to datasets and datasets to clusters.
package graph

import (
	"fmt"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// Options controls optional parts of the graph.
type Options struct {
	// ClusterEdges adds a same_cluster link for every pair of datasets that
	// share a cluster id.
	ClusterEdges bool
}

// Build returns the graph for records and their cluster labels. labels[i]
// is the cluster of records[i]; both slices must have the same length.
//
// Dataset nodes come first, in record order, followed by one publication
// node per distinct publication identifier in order of first appearance.
// Every (publication, dataset) pair yields exactly one pmid_to_dataset link.
// Records sharing an ID are collapsed into the first one.
func Build(records []types.DatasetRecord, labels []int, opts Options) (types.Graph, error) {
	if len(records) != len(labels) {
		return types.Graph{}, fmt.Errorf("graph: %d records but %d labels", len(records), len(labels))
	}
	g := types.EmptyGraph()
	if len(records) == 0 {
		return g, nil
	}

	datasetSeen := make(map[string]bool, len(records))
	var datasets []int
	for i, r := range records {
		if datasetSeen[r.ID] {
			continue
		}
		datasetSeen[r.ID] = true
		datasets = append(datasets, i)

		g.Nodes = append(g.Nodes, types.Node{
			ID:             r.ID,
			Type:           types.NodeDataset,
			Title:          r.Title,
			ExperimentType: r.ExperimentType,
			Organism:       r.Organism,
			PMID:           r.PublicationID(),
			Cluster:        labels[i],
		})
	}

	pubSeen := make(map[string]bool)
	linkSeen := make(map[[2]string]bool)
	var pubs []string
	for _, i := range datasets {
		r := records[i]
		for _, pmid := range r.PublicationIDs {
			if !pubSeen[pmid] {
				pubSeen[pmid] = true
				pubs = append(pubs, pmid)
			}
			key := [2]string{pmid, r.ID}
			if linkSeen[key] {
				continue
			}
			linkSeen[key] = true
			g.Links = append(g.Links, types.Link{
				Source: pmid,
				Target: r.ID,
				Type:   types.LinkPublicationToDataset,
			})
		}
	}
	for _, pmid := range pubs {
		g.Nodes = append(g.Nodes, types.Node{
			ID:      pmid,
			Type:    types.NodePublication,
			Cluster: types.NoCluster,
		})
	}

	if opts.ClusterEdges {
		for a := 0; a < len(datasets); a++ {
			for b := a + 1; b < len(datasets); b++ {
				ra, rb := records[datasets[a]], records[datasets[b]]
				if labels[datasets[a]] != labels[datasets[b]] {
					continue
				}
				g.Links = append(g.Links, types.Link{
					Source: ra.ID,
					Target: rb.ID,
					Type:   types.LinkSameCluster,
				})
			}
		}
	}

	g.Clusters = summarize(records, labels, datasets)
	return g, nil
}

// summarize returns one summary per cluster id, ordered by id.
func summarize(records []types.DatasetRecord, labels []int, datasets []int) []types.ClusterSummary {
	k := 0
	for _, i := range datasets {
		if labels[i]+1 > k {
			k = labels[i] + 1
		}
	}
	members := make([][]string, k)
	for _, i := range datasets {
		members[labels[i]] = append(members[labels[i]], records[i].ID)
	}

	out := make([]types.ClusterSummary, 0, k)
	for id, ids := range members {
		if len(ids) == 0 {
			continue
		}
		out = append(out, types.ClusterSummary{ID: id, Size: len(ids), Datasets: ids})
	}
	return out
}
