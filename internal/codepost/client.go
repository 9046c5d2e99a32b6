// Package codepost is a small read-only client for the codePost REST API.
package codepost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cpheatmap/cpheatmap/internal/contract"
	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultBackoff = 500 * time.Millisecond
	memoTTL        = 10 * time.Minute
	maxBodyBytes   = 32 << 20
)

// Client issues authenticated GET requests against one codePost API root.
type Client struct {
	baseURL    *url.URL
	cred       contract.Credential
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
	memo       *cache.Cache
	metrics    *clientMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root. Invalid URLs are ignored.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw == "" {
			return
		}
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		if u, err := url.Parse(raw); err == nil {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the base delay between retries; attempt k waits k times this.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithRegistry registers the request metrics on registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Client) {
		if registry != nil {
			c.metrics = newClientMetrics(registry)
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for cred.
func NewClient(cred contract.Credential, opts ...Option) *Client {
	base, _ := url.Parse(contract.DefaultBaseURL)
	c := &Client{
		baseURL:    base,
		cred:       cred,
		httpClient: &http.Client{Timeout: contract.DefaultTimeout},
		retries:    contract.DefaultRetries,
		backoff:    defaultBackoff,
		logger:     contract.DiscardLogger(),
		memo:       cache.New(memoTTL, 2*memoTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newClientMetrics(prometheus.NewRegistry())
	}
	c.logger.Debug("codePost client ready", "base_url", c.baseURL.String(), "api_key", cred.Redacted(), "source", cred.Source)
	return c
}

// NewClientFromConfig builds a client from a validated config, discovering the credential.
func NewClientFromConfig(cfg *contract.Config, logger *slog.Logger) (*Client, error) {
	cred, err := contract.DiscoverCredential(cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return NewClient(cred,
		WithBaseURL(cfg.BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithRetries(cfg.Retries),
		WithLogger(logger),
	), nil
}

// Stats returns the request counts observed so far.
func (c *Client) Stats() schema.FetchStats {
	stats, err := c.metrics.snapshot()
	if err != nil {
		c.logger.Warn("cannot gather request metrics", "error", err)
	}
	return stats
}

// GetJSON fetches endpoint, relative to the base URL, and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

// getMemo is GetJSON for resources that do not change during a pass.
func (c *Client) getMemo(ctx context.Context, endpoint string, out any) error {
	if cached, ok := c.memo.Get(endpoint); ok {
		c.metrics.observe(outcomeMemo, 0)
		return decode(endpoint, cached.([]byte), out)
	}
	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := decode(endpoint, body, out); err != nil {
		return err
	}
	c.memo.Set(endpoint, body, cache.DefaultExpiration)
	return nil
}

// fetch runs the request with bounded retries and returns the raw body.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr *FetchError
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * c.backoff
			c.logger.Debug("retrying request", "endpoint", endpoint, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.do(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !err.Retryable() {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, *FetchError) {
	target := c.resolve(endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Authorization", "Token "+c.cred.Key)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(outcomeTransport, time.Since(start))
		return nil, &FetchError{Endpoint: endpoint, Kind: KindTransport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(outcomeTransport, elapsed)
		return nil, &FetchError{Endpoint: endpoint, Kind: KindTransport, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(outcomeError, elapsed)
		return nil, classifyStatus(endpoint, resp.StatusCode)
	}
	if !json.Valid(body) {
		c.metrics.observe(outcomeError, elapsed)
		return nil, &FetchError{Endpoint: endpoint, Kind: KindDecode, StatusCode: resp.StatusCode, Err: errors.New("response is not valid JSON")}
	}

	c.metrics.observe(outcomeOK, elapsed)
	c.logger.Debug("fetched", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body), "elapsed", elapsed)
	return body, nil
}

// resolve joins endpoint below the base path, so "/comments/1/" stays under "/api/" roots.
func (c *Client) resolve(endpoint string) string {
	rel := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		rel = &url.URL{Path: strings.TrimPrefix(endpoint[:i], "/"), RawQuery: endpoint[i+1:]}
	}
	return c.baseURL.ResolveReference(rel).String()
}

func decode(endpoint string, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(out); err != nil {
		return &FetchError{Endpoint: endpoint, Kind: KindDecode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
