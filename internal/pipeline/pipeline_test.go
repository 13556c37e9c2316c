// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/geo-cluster/internal/fetch"
	"github.com/pdiddy/geo-cluster/internal/graph"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

// fakeFetcher serves canned records per identifier.
type fakeFetcher struct {
	records map[string][]types.DatasetRecord
	errs    map[string]error
}

func (f fakeFetcher) Fetch(_ context.Context, id string) ([]types.DatasetRecord, error) {
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	return f.records[id], nil
}

func quietLogger() log.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func liver(id, title string) types.DatasetRecord {
	return types.DatasetRecord{
		ID:       id,
		Title:    title,
		Summary:  "Liver insulin signaling in obese mice fed a high fat diet.",
		Organism: "Mus musculus",
	}
}

func zebrafish(id, title string) types.DatasetRecord {
	return types.DatasetRecord{
		ID:       id,
		Title:    title,
		Summary:  "Zebrafish caudal fin regeneration and blastema formation after amputation.",
		Organism: "Danio rerio",
	}
}

func scenarioFetcher() fakeFetcher {
	return fakeFetcher{records: map[string][]types.DatasetRecord{
		"A": {
			liver("GSE1", "Hepatic insulin resistance"),
			liver("GSE2", "Hepatic insulin resistance time course"),
			zebrafish("GSE3", "Fin regeneration"),
		},
		"B": {
			zebrafish("GSE4", "Caudal fin regeneration"),
			zebrafish("GSE5", "Fin regeneration blastema"),
		},
	}}
}

func TestRunScenario(t *testing.T) {
	resp, err := Run(context.Background(), []string{"A", "B"}, scenarioFetcher(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, resp.ClusterCount, 2)
	a := resp.Assignment()
	assert.Equal(t, a["GSE1"], a["GSE2"])
	assert.Equal(t, a["GSE3"], a["GSE4"])
	assert.Equal(t, a["GSE3"], a["GSE5"])
	assert.NotEqual(t, a["GSE1"], a["GSE3"])

	g := resp.Visualization
	assert.Equal(t, 5, g.CountNodes(types.NodeDataset))
	assert.Equal(t, 2, g.CountNodes(types.NodePublication))
	assert.Equal(t, 5, g.CountLinks(types.LinkPublicationToDataset))

	for _, l := range g.Links {
		_, ok := g.Node(l.Source)
		assert.True(t, ok, "missing source %s", l.Source)
		_, ok = g.Node(l.Target)
		assert.True(t, ok, "missing target %s", l.Target)
	}
	for _, n := range g.Nodes {
		if n.Type == types.NodeDataset {
			assert.Equal(t, a[n.ID], n.Cluster)
		}
	}

	assert.Equal(t, map[string][]string{
		"A": {"GSE1", "GSE2", "GSE3"},
		"B": {"GSE4", "GSE5"},
	}, resp.PMIDAssociations)
	assert.Equal(t, "A", resp.Datasets[2].PublicationID())
	assert.Equal(t, "B", resp.Datasets[3].PublicationID())
	assert.Len(t, resp.Scores, 3)
	assert.Empty(t, resp.Warnings)
}

func TestRunTwoSeparatedGroups(t *testing.T) {
	f := fakeFetcher{records: map[string][]types.DatasetRecord{
		"1": {{ID: "G1", Title: "alpha beta gamma"}, {ID: "G2", Title: "alpha beta delta"}},
		"2": {{ID: "G3", Title: "omega sigma kappa"}, {ID: "G4", Title: "omega sigma lambda"}},
	}}
	resp, err := Run(context.Background(), []string{"1", "2"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ClusterCount)
	assert.Equal(t, types.ClusterAssignment{"G1": 0, "G2": 0, "G3": 1, "G4": 1}, resp.Assignment())
	assert.Equal(t, []types.ClusterSummary{
		{ID: 0, Size: 2, Datasets: []string{"G1", "G2"}},
		{ID: 1, Size: 2, Datasets: []string{"G3", "G4"}},
	}, resp.Visualization.Clusters)
}

func TestRunDeterministic(t *testing.T) {
	first, err := Run(context.Background(), []string{"A", "B"}, scenarioFetcher(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	second, err := Run(context.Background(), []string{"A", "B"}, scenarioFetcher(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunEmptyInput(t *testing.T) {
	resp, err := Run(context.Background(), nil, scenarioFetcher(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Zero(t, resp.ClusterCount)
	assert.Empty(t, resp.Datasets)
	assert.Empty(t, resp.Visualization.Nodes)
}

func TestRunAllIdentifiersEmpty(t *testing.T) {
	resp, err := Run(context.Background(), []string{"X", "Y"}, fakeFetcher{}, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Zero(t, resp.ClusterCount)
	assert.Empty(t, resp.Visualization.Nodes)
	require.Len(t, resp.Warnings, 2)
	assert.Equal(t, types.WarningNoDatasets, resp.Warnings[0].Kind)
	assert.Equal(t, "X", resp.Warnings[0].PMID)
}

func TestRunTransientFailureIsWarning(t *testing.T) {
	f := scenarioFetcher()
	f.errs = map[string]error{"C": errors.New("esummary.fcgi returned HTTP 500")}

	resp, err := Run(context.Background(), []string{"A", "C", "B"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, resp.Datasets, 5)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, types.Warning{PMID: "C", Kind: types.WarningFetchFailed, Message: "esummary.fcgi returned HTTP 500"}, resp.Warnings[0])
	_, ok := resp.Visualization.Node("C")
	assert.False(t, ok, "failed identifier must not become a node")
}

func TestRunUpstreamUnavailableIsFatal(t *testing.T) {
	f := scenarioFetcher()
	f.errs = map[string]error{"B": fmt.Errorf("dial tcp: %w", fetch.ErrUpstreamUnavailable)}

	resp, err := Run(context.Background(), []string{"A", "B"}, f, Options{Logger: quietLogger()})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, fetch.ErrUpstreamUnavailable)
}

func TestRunInsufficientTextSingleCluster(t *testing.T) {
	f := fakeFetcher{records: map[string][]types.DatasetRecord{
		"A": {{ID: "G1", Title: "the and of"}, {ID: "G2"}, {ID: "G3", Title: "ribosome"}},
	}}
	resp, err := Run(context.Background(), []string{"A"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ClusterCount)
	assert.Empty(t, resp.Scores)
	assert.Equal(t, types.ClusterAssignment{"G1": 0, "G2": 0, "G3": 0}, resp.Assignment())
	assert.Equal(t, []types.ClusterSummary{{ID: 0, Size: 3, Datasets: []string{"G1", "G2", "G3"}}}, resp.Visualization.Clusters)
}

func TestRunSingleRecord(t *testing.T) {
	f := fakeFetcher{records: map[string][]types.DatasetRecord{"A": {liver("GSE1", "Hepatic insulin")}}}
	resp, err := Run(context.Background(), []string{"A"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ClusterCount)
	assert.Equal(t, 0, resp.Datasets[0].Cluster)
}

func TestRunDuplicateIdentifiers(t *testing.T) {
	resp, err := Run(context.Background(), []string{"A", "A", "B"}, scenarioFetcher(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, resp.Datasets, 5)
	assert.Equal(t, 5, resp.Visualization.CountLinks(types.LinkPublicationToDataset))
}

func TestRunSharedDatasetAcrossPublications(t *testing.T) {
	f := scenarioFetcher()
	f.records["B"] = append(f.records["B"], zebrafish("GSE3", "Fin regeneration"))

	resp, err := Run(context.Background(), []string{"A", "B"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, resp.Datasets, 5)
	assert.Equal(t, []string{"A", "B"}, resp.Datasets[2].PublicationIDs)
	assert.Equal(t, 6, resp.Visualization.CountLinks(types.LinkPublicationToDataset))
	assert.Equal(t, []string{"GSE4", "GSE5", "GSE3"}, resp.PMIDAssociations["B"])
}

func TestRunIgnoresFetcherPublicationIDs(t *testing.T) {
	f := scenarioFetcher()
	gse1 := liver("GSE1", "Hepatic insulin resistance")
	gse1.PublicationIDs = []string{"999", "A"}
	f.records["A"][0] = gse1

	resp, err := Run(context.Background(), []string{"A", "B"}, f, Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, resp.Datasets[0].PublicationIDs)
	_, ok := resp.Visualization.Node("999")
	assert.False(t, ok)
	assert.Equal(t, 2, resp.Visualization.CountNodes(types.NodePublication))
	assert.Equal(t, 5, resp.Visualization.CountLinks(types.LinkPublicationToDataset))
	assert.NotContains(t, resp.PMIDAssociations, "999")
}

func TestRunClusterEdges(t *testing.T) {
	resp, err := Run(context.Background(), []string{"A", "B"}, scenarioFetcher(), Options{
		Graph:  graph.Options{ClusterEdges: true},
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	// One pair in the liver cluster, three in the zebrafish cluster.
	assert.Equal(t, 4, resp.Visualization.CountLinks(types.LinkSameCluster))
}

func TestRunLogsWarnings(t *testing.T) {
	logger, hook := test.NewNullLogger()
	_, err := Run(context.Background(), []string{"X"}, fakeFetcher{}, Options{Logger: logger})
	require.NoError(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Data["pmid"] == "X" {
			warned = true
		}
	}
	assert.True(t, warned)
}
