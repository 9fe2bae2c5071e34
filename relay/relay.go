package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"blogscope/logger"
)

// ExhaustedError reports that every configured relay failed for one fetch.
// LastErr carries the last observed failure, if any.
type ExhaustedError struct {
	Target  string
	LastErr error
}

func (e *ExhaustedError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("all relays failed for %s (check connectivity or ad-blockers): %v", e.Target, e.LastErr)
	}
	return fmt.Sprintf("all relays failed for %s: check connectivity or ad-blockers", e.Target)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Config captures the relay client settings.
type Config struct {
	// Endpoints are ordered relay templates; the percent-encoded target
	// URL is appended to each. Earlier entries are tried first.
	Endpoints []string
	// Timeout bounds each relay attempt. Zero means 20 seconds.
	Timeout time.Duration
}

// Client fetches URLs through an ordered list of relay endpoints with
// sequential fallback.
type Client struct {
	endpoints  []string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		endpoints: cfg.Endpoints,
		timeout:   timeout,
		// Per-attempt deadlines come from the request context.
		httpClient: &http.Client{},
	}
}

// NewWithHTTPClient builds a Client using an already configured
// http.Client. httpClient being nil falls back to the default.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	c := New(cfg)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

// Fetch retrieves targetURL through the relay ladder and returns the
// response body. A millisecond timestamp is appended to the target before
// relaying so intermediate caches cannot serve stale error responses.
// Each attempt gets its own timeout; a failed attempt is logged and the
// next relay is tried. When every relay fails, an *ExhaustedError is
// returned carrying the last observed error.
func (c *Client) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	busted := cacheBust(targetURL)
	encoded := url.QueryEscape(busted)

	var lastErr error
	for i, endpoint := range c.endpoints {
		body, err := c.attempt(ctx, endpoint+encoded)
		if err == nil {
			return body, nil
		}
		lastErr = err
		logger.WarnWithFields("relay attempt failed", logger.Fields{
			"relay":  i,
			"target": targetURL,
			"error":  err.Error(),
		})
	}

	return nil, &ExhaustedError{Target: targetURL, LastErr: lastErr}
}

func (c *Client) attempt(ctx context.Context, relayURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, relayURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func cacheBust(targetURL string) string {
	sep := "?"
	if strings.Contains(targetURL, "?") {
		sep = "&"
	}
	return targetURL + sep + "t=" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
