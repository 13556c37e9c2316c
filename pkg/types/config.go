// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "geo-cluster/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 and transient 5xx
	// responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// NCBIConfig holds settings for the NCBI E-utilities record fetcher.
type NCBIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities endpoint prefix, ending in a slash.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Email is the contact address NCBI requires on every request.
	Email string `json:"email" yaml:"email" mapstructure:"email"`

	// APIKey is an optional NCBI API key; it raises the rate limit from 3 to
	// 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Tool identifies this application to NCBI.
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// RequestDelay is the minimum spacing between consecutive requests.
	// Zero selects 340ms, or 100ms when APIKey is set.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`
}

// FetchConfig controls how identifiers are fanned out to the record fetcher.
type FetchConfig struct {
	// Concurrency bounds the number of identifiers fetched at once (default 3).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// IdentifierTimeout bounds the fetch of a single identifier. A timeout is
	// reported as a failure for that identifier only.
	IdentifierTimeout time.Duration `json:"identifier_timeout" yaml:"identifier_timeout" mapstructure:"identifier_timeout"`
}

// CacheConfig holds settings for the upstream response cache.
type CacheConfig struct {
	// Disabled turns the cache off.
	Disabled bool `json:"disabled" yaml:"disabled" mapstructure:"disabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached response stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// VectorizerConfig holds tokenizer settings for the TF-IDF stage.
type VectorizerConfig struct {
	// StopWordsFile is an optional YAML file holding a list of stop words
	// that replaces the built-in English list.
	StopWordsFile string `json:"stop_words_file,omitempty" yaml:"stop_words_file,omitempty" mapstructure:"stop_words_file"`

	// ExtraStopWords are added to whichever list is in effect.
	ExtraStopWords []string `json:"extra_stop_words,omitempty" yaml:"extra_stop_words,omitempty" mapstructure:"extra_stop_words"`
}

// GraphConfig holds settings for the graph builder.
type GraphConfig struct {
	// ClusterEdges adds a same_cluster link between every pair of datasets
	// sharing a cluster.
	ClusterEdges bool `json:"cluster_edges" yaml:"cluster_edges" mapstructure:"cluster_edges"`
}

// ServerConfig holds settings for the HTTP boundary.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`

	// MaxIdentifiers caps the number of PMIDs accepted per request.
	MaxIdentifiers int `json:"max_identifiers" yaml:"max_identifiers" mapstructure:"max_identifiers"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Config groups all settings for the CLI and server.
type Config struct {
	NCBI       NCBIConfig       `json:"ncbi" yaml:"ncbi" mapstructure:"ncbi"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Cache      CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Vectorizer VectorizerConfig `json:"vectorizer" yaml:"vectorizer" mapstructure:"vectorizer"`
	Graph      GraphConfig      `json:"graph" yaml:"graph" mapstructure:"graph"`
	Server     ServerConfig     `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the settings used when no config file, environment
// variable, or flag overrides them.
func DefaultConfig() Config {
	return Config{
		NCBI: NCBIConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  "geo-cluster/0.1",
				MaxRetries: 5,
			},
			BaseURL: "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
			Tool:    "geo-dataset-clustering",
		},
		Fetch: FetchConfig{
			Concurrency:       3,
			IdentifierTimeout: 60 * time.Second,
		},
		Cache: CacheConfig{
			Path: "geo-cluster-cache.db",
			TTL:  24 * time.Hour,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			CORSOrigins:     []string{"http://localhost:3000"},
			MaxIdentifiers:  200,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
