// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package eutils retrieves GEO dataset records for PubMed identifiers from
// the NCBI E-utilities API: elink maps a PMID to gds UIDs, and esummary
// returns the descriptive fields of each UID.
package eutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/geo-cluster/internal/fetch"
	"github.com/pdiddy/geo-cluster/internal/httputil"
	"github.com/pdiddy/geo-cluster/pkg/types"
)

// ErrMissingEmail is returned by NewClient when no contact email is configured.
// NCBI asks every E-utilities caller to identify itself.
var ErrMissingEmail = errors.New("eutils: contact email required")

const (
	defaultInterval       = 340 * time.Millisecond
	defaultIntervalAPIKey = 100 * time.Millisecond
	maxBodyBytes          = 32 << 20
)

// Cache stores raw upstream payloads by key. *cache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Client talks to E-utilities. It implements fetch.Fetcher and is safe for
// concurrent use; all requests share one Limiter.
type Client struct {
	cfg     types.NCBIConfig
	http    *http.Client
	limiter *httputil.Limiter
	cache   Cache
	log     log.FieldLogger
}

var _ fetch.Fetcher = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimiter shares an existing Limiter, so several clients together stay
// within the NCBI request rate.
func WithLimiter(l *httputil.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger used for per-request diagnostics.
func WithLogger(l log.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// RequestInterval returns the request spacing for cfg: RequestDelay when
// set, otherwise 340ms, or 100ms with an API key.
func RequestInterval(cfg types.NCBIConfig) time.Duration {
	switch {
	case cfg.RequestDelay > 0:
		return cfg.RequestDelay
	case cfg.APIKey != "":
		return defaultIntervalAPIKey
	default:
		return defaultInterval
	}
}

// NewClient returns a Client for cfg.
func NewClient(cfg types.NCBIConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, ErrMissingEmail
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = types.DefaultConfig().NCBI.BaseURL
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	if cfg.Tool == "" {
		cfg.Tool = types.DefaultConfig().NCBI.Tool
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.limiter == nil {
		c.limiter = httputil.NewLimiter(RequestInterval(cfg))
	}
	if c.log == nil {
		c.log = log.StandardLogger()
	}
	return c, nil
}

// Fetch returns the dataset records linked to pmid. A publication without
// linked datasets yields an empty slice and a nil error.
func (c *Client) Fetch(ctx context.Context, pmid string) ([]types.DatasetRecord, error) {
	uids, err := c.LinkIDs(ctx, pmid)
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		c.log.WithField("pmid", pmid).Debug("no linked GEO datasets")
		return nil, nil
	}

	records, err := c.Summaries(ctx, uids)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(log.Fields{"pmid": pmid, "records": len(records)}).Debug("retrieved GEO datasets")
	return records, nil
}

// get sends one paced, retried GET to endpoint and returns the body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("retmode", "xml")
	params.Set("tool", c.cfg.Tool)
	params.Set("email", c.cfg.Email)
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	reqURL := c.cfg.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetryPaced(ctx, c.http, req, c.cfg.MaxRetries, c.limiter)
	if err != nil {
		if isDialError(err) {
			return nil, fmt.Errorf("%s: %v: %w", endpoint, err, fetch.ErrUpstreamUnavailable)
		}
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}

// isDialError reports whether err means the service could not be reached at
// all, as opposed to a slow or failed request.
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache read failed")
		return nil, false
	}
	return v, ok
}

func (c *Client) cachePut(ctx context.Context, key string, value []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Put(ctx, key, value); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

// NewFactory returns a function that builds one Client per contact email.
// The clients share a single Limiter, so together they respect the NCBI
// request rate, along with any cache or HTTP client passed in opts.
func NewFactory(cfg types.NCBIConfig, opts ...Option) func(email string) (fetch.Fetcher, error) {
	shared := httputil.NewLimiter(RequestInterval(cfg))
	opts = append([]Option{WithLimiter(shared)}, opts...)
	return func(email string) (fetch.Fetcher, error) {
		c := cfg
		c.Email = email
		return NewClient(c, opts...)
	}
}
