// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geo-cluster/internal/api"
	"github.com/pdiddy/geo-cluster/internal/eutils"
	"github.com/pdiddy/geo-cluster/internal/graph"
	"github.com/pdiddy/geo-cluster/internal/pipeline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the clustering pipeline over HTTP",
	Long: `Serve exposes POST /api/fetch-geo-data and GET /health. Each request
carries its own PMIDs and NCBI contact email; all requests share one NCBI
rate limiter and the response cache.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
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

	logger := log.StandardLogger()
	factory := eutils.NewFactory(cfg.NCBI, fetcherOptions(store)...)
	h := api.NewHandler(api.FetcherFactory(factory), pipeline.Options{
		StopWords: stop,
		Fetch:     cfg.Fetch,
		Graph:     graph.Options{ClusterEdges: cfg.Graph.ClusterEdges},
		Logger:    logger,
	}, cfg.Server.MaxIdentifiers, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(h, cfg.Server.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":  cfg.Server.Addr,
			"cors":  cfg.Server.CORSOrigins,
			"cache": !cfg.Cache.Disabled,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case sig := <-done:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
