// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geo-cluster/internal/eutils"
	"github.com/pdiddy/geo-cluster/internal/fetch"
	"github.com/pdiddy/geo-cluster/internal/graph"
	"github.com/pdiddy/geo-cluster/internal/pipeline"
	"github.com/pdiddy/geo-cluster/internal/report"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [pmid...]",
	Short: "Cluster the GEO datasets linked to PubMed IDs",
	Long: `Cluster fetches the GEO datasets linked to each PubMed ID, groups them by
the similarity of their descriptions, and prints the result.

PMIDs are taken from the arguments and from --file (one per line, or comma
separated; "-" reads standard input). The NCBI contact email comes from
--email, GEO_CLUSTER_NCBI_EMAIL, the config file, or .secrets/ncbi-email.`,
	RunE: runCluster,
}

func init() {
	clusterCmd.Flags().StringP("file", "f", "", "Read PMIDs from a file (\"-\" for stdin)")
	clusterCmd.Flags().String("email", "", "Contact email sent to NCBI")
	clusterCmd.Flags().String("format", "table", "Output format: table, json, or yaml")
	clusterCmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	clusterCmd.Flags().Bool("cluster-edges", false, "Add same_cluster links between datasets sharing a cluster")
	clusterCmd.Flags().Bool("no-cache", false, "Bypass the response cache")
	clusterCmd.Flags().Int("concurrency", 0, "Number of PMIDs fetched at once")

	viper.BindPFlag("ncbi.email", clusterCmd.Flags().Lookup("email"))
	viper.BindPFlag("graph.cluster_edges", clusterCmd.Flags().Lookup("cluster-edges"))
	viper.BindPFlag("cache.disabled", clusterCmd.Flags().Lookup("no-cache"))

	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}

	pmids := fetch.ParseIdentifiers(args...)
	if file := mustString(cmd, "file"); file != "" {
		fromFile, err := readIdentifiers(file)
		if err != nil {
			return err
		}
		pmids = append(pmids, fromFile...)
	}
	if len(pmids) == 0 {
		return fmt.Errorf("no PMIDs given: pass them as arguments or with --file")
	}

	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		cfg.Fetch.Concurrency = n
	}

	stop, err := buildStopWords(cfg.Vectorizer)
	if err != nil {
		return err
	}

	store, err := openCache(cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	client, err := eutils.NewClient(cfg.NCBI, fetcherOptions(store)...)
	if err != nil {
		return fmt.Errorf("%w: use --email or set GEO_CLUSTER_NCBI_EMAIL", err)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.WithField("pmids", len(pmids)).Info("clustering")
	resp, err := pipeline.Run(ctx, pmids, client, pipeline.Options{
		StopWords: stop,
		Fetch:     cfg.Fetch,
		Graph:     graph.Options{ClusterEdges: cfg.Graph.ClusterEdges},
	})
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if path := mustString(cmd, "output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return report.Write(out, resp, format)
}

// readIdentifiers reads PMIDs from path, or from stdin when path is "-".
func readIdentifiers(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening PMID file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ids []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		ids = append(ids, fetch.ParseIdentifiers(sc.Text())...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading PMID file: %w", err)
	}
	return ids, nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
