// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/geo-cluster/internal/cache"
	"github.com/pdiddy/geo-cluster/internal/eutils"
	"github.com/pdiddy/geo-cluster/internal/secrets"
	"github.com/pdiddy/geo-cluster/internal/textproc"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

// setDefaults registers every config key so that environment variables
// and Unmarshal see them even when no config file sets them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("ncbi.timeout", d.NCBI.Timeout)
	v.SetDefault("ncbi.user_agent", d.NCBI.UserAgent)
	v.SetDefault("ncbi.max_retries", d.NCBI.MaxRetries)
	v.SetDefault("ncbi.base_url", d.NCBI.BaseURL)
	v.SetDefault("ncbi.email", d.NCBI.Email)
	v.SetDefault("ncbi.api_key", d.NCBI.APIKey)
	v.SetDefault("ncbi.tool", d.NCBI.Tool)
	v.SetDefault("ncbi.request_delay", d.NCBI.RequestDelay)

	v.SetDefault("fetch.concurrency", d.Fetch.Concurrency)
	v.SetDefault("fetch.identifier_timeout", d.Fetch.IdentifierTimeout)

	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("vectorizer.stop_words_file", d.Vectorizer.StopWordsFile)
	v.SetDefault("vectorizer.extra_stop_words", d.Vectorizer.ExtraStopWords)

	v.SetDefault("graph.cluster_edges", d.Graph.ClusterEdges)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.max_identifiers", d.Server.MaxIdentifiers)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// loadConfig decodes the effective configuration from v and fills empty
// NCBI credentials from the secrets directory.
func loadConfig(v *viper.Viper, secretValues map[string]string) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Fill(secretValues, secrets.NCBIEmail, &cfg.NCBI.Email)
	secrets.Fill(secretValues, secrets.NCBIAPIKey, &cfg.NCBI.APIKey)
	return cfg, nil
}

// buildStopWords returns the stop-word set for cfg: the file list when one
// is configured, otherwise the built-in English list, plus any extras.
func buildStopWords(cfg types.VectorizerConfig) (textproc.StopWords, error) {
	stop := textproc.EnglishStopWords()
	if cfg.StopWordsFile != "" {
		loaded, err := textproc.LoadStopWords(cfg.StopWordsFile)
		if err != nil {
			return nil, err
		}
		stop = loaded
	}
	stop.Add(cfg.ExtraStopWords...)
	return stop, nil
}

// openCache returns the response cache, or nil when caching is disabled.
func openCache(cfg types.CacheConfig) (*cache.Store, error) {
	if cfg.Disabled {
		return nil, nil
	}
	return cache.NewStore(cfg)
}

// fetcherOptions returns the E-utilities client options for a run. store
// may be nil.
func fetcherOptions(store *cache.Store) []eutils.Option {
	var opts []eutils.Option
	if store != nil {
		opts = append(opts, eutils.WithCache(store))
	}
	return opts
}
