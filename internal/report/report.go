// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a clustering response for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/geo-cluster/pkg/types"
)

// Format names an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, or yaml)", s)
	}
}

// Write renders resp to w in the given format.
func Write(w io.Writer, resp *types.Response, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, resp)
	case FormatYAML:
		return WriteYAML(w, resp)
	default:
		return WriteTable(w, resp)
	}
}

// WriteJSON writes resp as indented JSON, the same document the HTTP API returns.
func WriteJSON(w io.Writer, resp *types.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// WriteYAML writes resp as YAML.
func WriteYAML(w io.Writer, resp *types.Response) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

const maxTitle = 60

// WriteTable writes a human-readable summary: the chosen k, the silhouette
// sweep, one row per dataset grouped by cluster, and any warnings.
func WriteTable(w io.Writer, resp *types.Response) error {
	fmt.Fprintf(w, "Datasets: %d  Clusters: %d  Publications: %d\n",
		len(resp.Datasets), resp.ClusterCount, resp.Visualization.CountNodes(types.NodePublication))

	if len(resp.Scores) > 0 {
		parts := make([]string, len(resp.Scores))
		for i, s := range resp.Scores {
			parts[i] = fmt.Sprintf("k=%d:%.3f", s.K, s.Score)
		}
		fmt.Fprintf(w, "Silhouette: %s\n", strings.Join(parts, " "))
	}

	if len(resp.Datasets) > 0 {
		rows := append([]types.DatasetView(nil), resp.Datasets...)
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Cluster < rows[j].Cluster })

		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CLUSTER\tDATASET\tPMIDS\tORGANISM\tTITLE")
		for _, d := range rows {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				d.Cluster, d.ID, strings.Join(d.PublicationIDs, ","), d.Organism, truncate(d.Title, maxTitle))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(resp.Warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range resp.Warnings {
			fmt.Fprintf(w, "warning: PMID %s: %s\n", warn.PMID, warn.Message)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
