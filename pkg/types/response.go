// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WarningKind classifies a per-identifier warning.
type WarningKind string

const (
	WarningNoDatasets  WarningKind = "no_datasets"
	WarningFetchFailed WarningKind = "fetch_failed"
)

// Warning reports an identifier that contributed no datasets.
type Warning struct {
	PMID    string      `json:"pmid" yaml:"pmid"`
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}

// DatasetView is a DatasetRecord enriched with its assigned cluster id.
type DatasetView struct {
	DatasetRecord `yaml:",inline"`
	Cluster       int `json:"cluster" yaml:"cluster"`
}

// SilhouetteScore records the mean silhouette coefficient of one candidate
// cluster count.
type SilhouetteScore struct {
	K     int     `json:"k" yaml:"k"`
	Score float64 `json:"score" yaml:"score"`
}

// Response is the outbound result of one pipeline run.
type Response struct {
	Datasets []DatasetView `json:"datasets" yaml:"datasets"`

	// PMIDAssociations maps each identifier that yielded datasets to the
	// dataset IDs it produced, in fetch order.
	PMIDAssociations map[string][]string `json:"pmid_associations" yaml:"pmid_associations"`

	Visualization Graph `json:"visualization" yaml:"visualization"`

	// ClusterCount is the chosen k; zero when there are no datasets.
	ClusterCount int `json:"cluster_count" yaml:"cluster_count"`

	// Scores lists the silhouette score of every candidate k that was evaluated.
	Scores []SilhouetteScore `json:"silhouette_scores,omitempty" yaml:"silhouette_scores,omitempty"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// EmptyResponse returns a Response with no datasets and an empty graph.
func EmptyResponse() *Response {
	return &Response{
		Datasets:         []DatasetView{},
		PMIDAssociations: map[string][]string{},
		Visualization:    EmptyGraph(),
	}
}

// Assignment returns the cluster assignment encoded in the dataset views.
func (r *Response) Assignment() ClusterAssignment {
	a := make(ClusterAssignment, len(r.Datasets))
	for _, d := range r.Datasets {
		a[d.ID] = d.Cluster
	}
	return a
}
