// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one clustering request end to end: fetch the
// datasets linked to each publication, build documents, vectorize, choose
// the cluster count, cut the dendrogram, and assemble the graph.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/geo-cluster/internal/cluster"
	"github.com/pdiddy/geo-cluster/internal/fetch"
	"github.com/pdiddy/geo-cluster/internal/graph"
	"github.com/pdiddy/geo-cluster/internal/textproc"
	"github.com/pdiddy/geo-cluster/internal/vectorize"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

// Options configures a run. The zero value uses the built-in English stop
// words, default fetch settings, no same-cluster links, and the standard
// logger.
type Options struct {
	StopWords textproc.StopWords
	Fetch     types.FetchConfig
	Graph     graph.Options
	Logger    log.FieldLogger
}

// Run clusters the datasets linked to identifiers. Identifiers that yield no
// datasets, or whose fetch fails transiently, are reported in
// Response.Warnings and otherwise ignored. The only error returned is a
// fatal fetch error (wrapping fetch.ErrUpstreamUnavailable) or cancellation
// of ctx.
func Run(ctx context.Context, identifiers []string, f fetch.Fetcher, opts Options) (*types.Response, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	stop := opts.StopWords
	if stop == nil {
		stop = textproc.EnglishStopWords()
	}

	if len(identifiers) == 0 {
		logger.Debug("no identifiers supplied")
		return types.EmptyResponse(), nil
	}

	start := time.Now()
	results, err := fetch.FetchAll(ctx, f, identifiers, opts.Fetch)
	if err != nil {
		return nil, fmt.Errorf("fetching datasets: %w", err)
	}

	records, assoc := fetch.Merge(results)
	warnings := fetch.Warnings(results)
	for _, w := range warnings {
		logger.WithFields(log.Fields{"pmid": w.PMID, "kind": w.Kind}).Warn(w.Message)
	}
	logger.WithFields(log.Fields{
		"identifiers": len(identifiers),
		"records":     len(records),
		"elapsed":     time.Since(start).Round(time.Millisecond),
	}).Info("fetched datasets")

	if len(records) == 0 {
		resp := types.EmptyResponse()
		resp.Warnings = warnings
		return resp, nil
	}

	res, err := Cluster(records, stop, logger)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(records, res.Labels, opts.Graph)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}

	resp := &types.Response{
		Datasets:         make([]types.DatasetView, len(records)),
		PMIDAssociations: assoc,
		Visualization:    g,
		ClusterCount:     res.K,
		Scores:           res.Scores,
		Warnings:         warnings,
	}
	for i, r := range records {
		resp.Datasets[i] = types.DatasetView{DatasetRecord: r, Cluster: res.Labels[i]}
	}

	logger.WithFields(log.Fields{
		"k":        res.K,
		"datasets": len(records),
		"nodes":    len(g.Nodes),
		"links":    len(g.Links),
		"elapsed":  time.Since(start).Round(time.Millisecond),
	}).Info("clustering complete")
	return resp, nil
}

// Cluster assigns a cluster to each record. A corpus without enough text to
// vectorize lands entirely in cluster 0.
func Cluster(records []types.DatasetRecord, stop textproc.StopWords, logger log.FieldLogger) (cluster.Result, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	docs := textproc.Normalize(records)

	model, err := vectorize.Fit(docs, stop)
	if errors.Is(err, vectorize.ErrInsufficientText) {
		logger.WithField("documents", len(docs)).Info("insufficient text, using a single cluster")
		return cluster.SingleCluster(len(records)), nil
	}
	if err != nil {
		return cluster.Result{}, fmt.Errorf("vectorizing documents: %w", err)
	}
	logger.WithFields(log.Fields{
		"documents":  len(docs),
		"vocabulary": model.Dimension(),
	}).Debug("vectorized corpus")

	res := cluster.Run(model.Transform(docs))
	for _, s := range res.Scores {
		logger.WithFields(log.Fields{"k": s.K, "silhouette": s.Score}).Debug("candidate scored")
	}
	return res, nil
}
