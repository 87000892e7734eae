package orcid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the public ORCID API.
	BaseURL = "https://pub.orcid.org/v3.0"

	// DefaultTimeout bounds each registry call.
	DefaultTimeout = 10 * time.Second

	// RateLimit stays under the public API's per-client request budget.
	RateLimit = 8.0

	maxBodyBytes = 16 << 20
)

// APIError is a non-success response from the registry.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orcid: GET %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Client reads public researcher records. Failures never escape the
// exported fetch methods: they are logged and reported as absent.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	baseURL    string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout. It applies to a copy of the HTTP
// client, whatever the option order.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets requests per second; zero or less disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the registry base URL in use.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchProfile returns the researcher's person record, or false when it
// could not be retrieved.
func (c *Client) FetchProfile(ctx context.Context, orcidID string) (Node, bool) {
	doc, err := c.get(ctx, "/"+url.PathEscape(orcidID))
	if err != nil {
		c.logger.Warn("orcid profile fetch failed", zap.String("orcid_id", orcidID), zap.Error(err))
		return Node{}, false
	}
	return doc, doc.Present()
}

// FetchWorks returns the researcher's work groups, or nil when the list
// could not be retrieved.
func (c *Client) FetchWorks(ctx context.Context, orcidID string) []Node {
	doc, err := c.get(ctx, "/"+url.PathEscape(orcidID)+"/works")
	if err != nil {
		c.logger.Warn("orcid works fetch failed", zap.String("orcid_id", orcidID), zap.Error(err))
		return nil
	}
	return doc.Get("group").List()
}

func (c *Client) get(ctx context.Context, path string) (Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Node{}, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return Node{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Node{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Node{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return Node{}, &APIError{StatusCode: resp.StatusCode, Path: path, Body: snippet}
	}

	doc, err := Parse(body)
	if err != nil {
		return Node{}, fmt.Errorf("decode response: %w", err)
	}
	return doc, nil
}
