// Package jukebox is an HTTP client for the jukebox media server API.
package jukebox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	jberrors "github.com/tessro/jukebox/internal/errors"
)

const (
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 10 * time.Second

	// Retry configuration for idempotent reads
	defaultRetries = 2
	baseRetryWait  = 250 * time.Millisecond
)

// Client talks to a jukebox server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithRetries sets how many times a failed GET is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base url %q must be an absolute http(s) URL", jberrors.ErrInvalidConfig, baseURL)
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimSuffix(u.String(), "/"),
		retries:    defaultRetries,
		log:        discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL for an API path.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// Response is a raw server response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK returns true for 2xx responses.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Empty returns true if the response carries no JSON document.
func (r *Response) Empty() bool {
	return r.StatusCode == http.StatusNoContent ||
		r.StatusCode == http.StatusResetContent ||
		len(bytes.TrimSpace(r.Body)) == 0
}

// Do performs a single request and returns the response regardless of its
// status. Only transport failures are errors.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).Debugf("request body: %s", jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodGet {
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"method": method, "path": path}).WithError(err).Debug("transport error")
		return nil, classifyTransportError(method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", jberrors.ErrNetworkError, path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("response")

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// Get performs a GET request and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request and decodes the JSON response into result.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

// request performs a request, retrying idempotent reads on transport and 5xx
// failures. Empty responses leave result untouched.
func (c *Client) request(ctx context.Context, method, path string, body any, result any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			c.log.WithField("path", path).Debugf("retry %d/%d after %v (last error: %v)", attempt, attempts-1, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		resp, err := c.Do(ctx, method, path, body)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			lastErr = err
			continue
		}

		if !resp.OK() {
			lastErr = newStatusError(method, path, resp)
			if resp.StatusCode >= 500 {
				continue
			}
			return lastErr
		}

		if result == nil || resp.Empty() {
			return nil
		}
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to parse response from %s: %w", path, err)
		}
		return nil
	}

	return lastErr
}

func classifyTransportError(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %w", jberrors.ErrTimeout, method, path, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", jberrors.ErrNetworkError, method, path, err)
}

// BuildURL appends query parameters to path. Spaces are encoded as %20.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return path + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
