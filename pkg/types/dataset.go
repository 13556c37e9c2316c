// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the geo-cluster pipeline:
// dataset records returned by the record fetcher, the derived documents and
// feature vectors, the clustering result, and the visualization graph handed
// to the presentation layer.
package types

// DatasetRecord holds the descriptive fields of one GEO dataset.
// Records are created by the record fetcher and never modified by the
// clustering stages.
type DatasetRecord struct {
	// ID is the GEO accession (e.g. "GSE12345"), or the numeric GDS UID
	// when the summary carries no accession.
	ID string `json:"geo_id" yaml:"geo_id"`

	// UID is the numeric identifier in the NCBI gds database.
	UID string `json:"uid,omitempty" yaml:"uid,omitempty"`

	Title          string `json:"title" yaml:"title"`
	ExperimentType string `json:"experiment_type" yaml:"experiment_type"`
	Summary        string `json:"summary" yaml:"summary"`
	Organism       string `json:"organism" yaml:"organism"`
	OverallDesign  string `json:"overall_design" yaml:"overall_design"`

	// PublicationIDs lists the PMIDs this dataset was reached from. The first
	// entry is the originating identifier.
	PublicationIDs []string `json:"pmids" yaml:"pmids"`
}

// PublicationID returns the originating publication identifier, or "" when
// the record has not been tagged yet.
func (r DatasetRecord) PublicationID() string {
	if len(r.PublicationIDs) == 0 {
		return ""
	}
	return r.PublicationIDs[0]
}

// HasPublication reports whether pmid is already attached to the record.
func (r DatasetRecord) HasPublication(pmid string) bool {
	for _, p := range r.PublicationIDs {
		if p == pmid {
			return true
		}
	}
	return false
}

// Document is the composite, lower-cased text built from one DatasetRecord.
type Document string

// FeatureVector is a dense TF-IDF vector over a frozen corpus vocabulary.
type FeatureVector []float64

// IsZero reports whether every component of v is zero.
func (v FeatureVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// ClusterAssignment maps a dataset ID to its cluster id.
type ClusterAssignment map[string]int

// FetchOutcome distinguishes an empty fetch from a failed one.
type FetchOutcome string

const (
	FetchSuccess          FetchOutcome = "success"
	FetchEmpty            FetchOutcome = "empty"
	FetchTransientFailure FetchOutcome = "transient_failure"
)

// FetchResult is the tagged result of fetching datasets for one publication
// identifier. Records is non-empty only for FetchSuccess; Err is set only
// for FetchTransientFailure.
type FetchResult struct {
	Identifier string
	Outcome    FetchOutcome
	Records    []DatasetRecord
	Err        error
}
