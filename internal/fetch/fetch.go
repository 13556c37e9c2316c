// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch fans publication identifiers out to a record fetcher and
// collects one tagged result per identifier.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// ErrUpstreamUnavailable marks a failure that makes the whole run pointless,
// such as the metadata service refusing connections. Fetchers wrap it; every
// other error is treated as a per-identifier failure.
var ErrUpstreamUnavailable = errors.New("fetch: upstream service unavailable")

// Fetcher returns the dataset records associated with one publication
// identifier. An empty slice with a nil error means the publication has no
// linked datasets.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) ([]types.DatasetRecord, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, identifier string) ([]types.DatasetRecord, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, identifier string) ([]types.DatasetRecord, error) {
	return f(ctx, identifier)
}

const defaultConcurrency = 3

// FetchAll fetches every identifier through f, at most cfg.Concurrency at a
// time, and returns the results in input order. Every returned record carries
// its identifier as the first publication ID.
//
// An error wrapping ErrUpstreamUnavailable, or cancellation of ctx, aborts
// the run and is returned. Other errors, including cfg.IdentifierTimeout
// expiring, are recorded as FetchTransientFailure for that identifier.
func FetchAll(ctx context.Context, f Fetcher, identifiers []string, cfg types.FetchConfig) ([]types.FetchResult, error) {
	results := make([]types.FetchResult, len(identifiers))
	if len(identifiers) == 0 {
		return results, nil
	}

	limit := cfg.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range identifiers {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := fetchOne(gctx, f, id, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil && !errors.Is(err, ErrUpstreamUnavailable) {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return results, nil
}

func fetchOne(ctx context.Context, f Fetcher, id string, cfg types.FetchConfig) (types.FetchResult, error) {
	fctx := ctx
	if cfg.IdentifierTimeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, cfg.IdentifierTimeout)
		defer cancel()
	}

	records, err := f.Fetch(fctx, id)
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		return types.FetchResult{}, fmt.Errorf("fetching %s: %w", id, err)
	case err != nil && ctx.Err() != nil:
		// The run itself was cancelled, not just this identifier.
		return types.FetchResult{}, ctx.Err()
	case err != nil:
		return types.FetchResult{Identifier: id, Outcome: types.FetchTransientFailure, Err: err}, nil
	case len(records) == 0:
		return types.FetchResult{Identifier: id, Outcome: types.FetchEmpty}, nil
	}

	// Each record belongs to the identifier that produced it, whatever the
	// fetcher filled in; Merge adds later originating identifiers.
	tagged := make([]types.DatasetRecord, len(records))
	for i, r := range records {
		r.PublicationIDs = []string{id}
		tagged[i] = r
	}
	return types.FetchResult{Identifier: id, Outcome: types.FetchSuccess, Records: tagged}, nil
}

// Merge flattens successful results into one record list, collapsing records
// that share a dataset ID. The first occurrence keeps its fields; later ones
// only contribute publication IDs. It also returns, per identifier, the
// dataset IDs that identifier produced in fetch order.
func Merge(results []types.FetchResult) ([]types.DatasetRecord, map[string][]string) {
	var records []types.DatasetRecord
	index := make(map[string]int)
	assoc := make(map[string][]string)

	for _, res := range results {
		if res.Outcome != types.FetchSuccess {
			continue
		}
		for _, r := range res.Records {
			if !contains(assoc[res.Identifier], r.ID) {
				assoc[res.Identifier] = append(assoc[res.Identifier], r.ID)
			}
			if at, ok := index[r.ID]; ok {
				for _, p := range r.PublicationIDs {
					if !records[at].HasPublication(p) {
						records[at].PublicationIDs = append(records[at].PublicationIDs, p)
					}
				}
				continue
			}
			index[r.ID] = len(records)
			r.PublicationIDs = append([]string(nil), r.PublicationIDs...)
			records = append(records, r)
		}
	}
	return records, assoc
}

// Warnings returns one warning per identifier that produced no records.
func Warnings(results []types.FetchResult) []types.Warning {
	var out []types.Warning
	for _, res := range results {
		switch res.Outcome {
		case types.FetchEmpty:
			out = append(out, types.Warning{
				PMID:    res.Identifier,
				Kind:    types.WarningNoDatasets,
				Message: "no GEO datasets linked to this publication",
			})
		case types.FetchTransientFailure:
			out = append(out, types.Warning{
				PMID:    res.Identifier,
				Kind:    types.WarningFetchFailed,
				Message: res.Err.Error(),
			})
		}
	}
	return out
}

// ParseIdentifiers splits raw input on commas and whitespace, dropping empty
// entries. Order and duplicates are preserved.
func ParseIdentifiers(raw ...string) []string {
	var out []string
	for _, r := range raw {
		for _, f := range strings.FieldsFunc(r, func(c rune) bool {
			return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
		}) {
			out = append(out, f)
		}
	}
	return out
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
