// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// NodeType discriminates the two kinds of graph node.
type NodeType string

const (
	NodePublication NodeType = "pmid"
	NodeDataset     NodeType = "dataset"
)

// LinkType discriminates the two kinds of graph edge.
type LinkType string

const (
	LinkPublicationToDataset LinkType = "pmid_to_dataset"
	LinkSameCluster          LinkType = "same_cluster"
)

// NoCluster is the cluster value carried by publication nodes.
const NoCluster = -1

// Node is a publication or dataset node. Dataset-only fields are empty on
// publication nodes, and Cluster is NoCluster.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeType `json:"type" yaml:"type"`

	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	ExperimentType string `json:"experiment_type,omitempty" yaml:"experiment_type,omitempty"`
	Organism       string `json:"organism,omitempty" yaml:"organism,omitempty"`
	PMID           string `json:"pmid,omitempty" yaml:"pmid,omitempty"`

	Cluster int `json:"cluster" yaml:"cluster"`
}

// Link is a directed edge between two node IDs.
type Link struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Type   LinkType `json:"type" yaml:"type"`
}

// ClusterSummary is the per-cluster aggregate exposed to the presentation layer.
type ClusterSummary struct {
	ID       int      `json:"id" yaml:"id"`
	Size     int      `json:"size" yaml:"size"`
	Datasets []string `json:"datasets" yaml:"datasets"`
}

// Graph is the renderable payload relating publications to datasets and
// datasets to clusters.
type Graph struct {
	Nodes    []Node           `json:"nodes" yaml:"nodes"`
	Links    []Link           `json:"links" yaml:"links"`
	Clusters []ClusterSummary `json:"clusters" yaml:"clusters"`
}

// EmptyGraph returns a graph whose slices are non-nil so it encodes as
// empty JSON arrays.
func EmptyGraph() Graph {
	return Graph{Nodes: []Node{}, Links: []Link{}, Clusters: []ClusterSummary{}}
}

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// CountNodes returns the number of nodes of type t.
func (g Graph) CountNodes(t NodeType) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Type == t {
			n++
		}
	}
	return n
}

// CountLinks returns the number of links of type t.
func (g Graph) CountLinks(t LinkType) int {
	n := 0
	for _, l := range g.Links {
		if l.Type == t {
			n++
		}
	}
	return n
}
