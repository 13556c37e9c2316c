// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/geo-cluster/internal/secrets"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("GEO_CLUSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newViper(), nil)
	require.NoError(t, err)

	d := types.DefaultConfig()
	assert.Equal(t, d.NCBI, cfg.NCBI)
	assert.Equal(t, d.Fetch, cfg.Fetch)
	assert.Equal(t, d.Cache, cfg.Cache)
	assert.Equal(t, d.Server, cfg.Server)
	assert.False(t, cfg.Graph.ClusterEdges)
	assert.Empty(t, cfg.Vectorizer.ExtraStopWords)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo-cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ncbi:
  email: file@example.com
  timeout: 5s
  max_retries: 2
fetch:
  concurrency: 8
cache:
  ttl: 1h
vectorizer:
  extra_stop_words: [dataset, study]
graph:
  cluster_edges: true
server:
  cors_origins: ["https://example.org"]
`), 0o644))

	v := newViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", cfg.NCBI.Email)
	assert.Equal(t, 5*time.Second, cfg.NCBI.Timeout)
	assert.Equal(t, 2, cfg.NCBI.MaxRetries)
	assert.Equal(t, "geo-dataset-clustering", cfg.NCBI.Tool)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, []string{"dataset", "study"}, cfg.Vectorizer.ExtraStopWords)
	assert.True(t, cfg.Graph.ClusterEdges)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("GEO_CLUSTER_NCBI_EMAIL", "env@example.com")
	t.Setenv("GEO_CLUSTER_FETCH_CONCURRENCY", "5")

	cfg, err := loadConfig(newViper(), nil)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", cfg.NCBI.Email)
	assert.Equal(t, 5, cfg.Fetch.Concurrency)
}

func TestLoadConfigSecrets(t *testing.T) {
	s := map[string]string{secrets.NCBIEmail: "secret@example.com", secrets.NCBIAPIKey: "k"}

	cfg, err := loadConfig(newViper(), s)
	require.NoError(t, err)
	assert.Equal(t, "secret@example.com", cfg.NCBI.Email)
	assert.Equal(t, "k", cfg.NCBI.APIKey)

	t.Setenv("GEO_CLUSTER_NCBI_EMAIL", "env@example.com")
	cfg, err = loadConfig(newViper(), s)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", cfg.NCBI.Email, "explicit config wins over secrets")
}

func TestBuildStopWords(t *testing.T) {
	stop, err := buildStopWords(types.VectorizerConfig{ExtraStopWords: []string{"Dataset"}})
	require.NoError(t, err)
	assert.True(t, stop.Contains("the"))
	assert.True(t, stop.Contains("dataset"))

	path := filepath.Join(t.TempDir(), "stop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- gene\n- cell\n"), 0o644))
	stop, err = buildStopWords(types.VectorizerConfig{StopWordsFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"cell", "gene"}, stop.Words())

	_, err = buildStopWords(types.VectorizerConfig{StopWordsFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestOpenCacheDisabled(t *testing.T) {
	store, err := openCache(types.CacheConfig{Disabled: true})
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Empty(t, fetcherOptions(store))
}

func TestReadIdentifiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pmids.txt")
	require.NoError(t, os.WriteFile(path, []byte("111\n222, 333\n\n444\n"), 0o644))

	ids, err := readIdentifiers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"111", "222", "333", "444"}, ids)

	_, err = readIdentifiers(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
