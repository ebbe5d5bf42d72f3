package sleeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sleeper-trade-lab/internal/cache"
	"sleeper-trade-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.sleeper.app/v1"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// StatusError is a non-success HTTP status that is not a 404.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// retryable reports whether the status is worth another attempt.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// HTTPClient implements Gateway over the Sleeper REST API.
type HTTPClient struct {
	baseURL     string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	memo        *cache.Memo
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// WithCache routes every successful GET through the response cache.
func WithCache(m *cache.Memo) ClientOption {
	return func(c *HTTPClient) {
		c.memo = m
	}
}

// NewHTTPClient creates a new Sleeper API client. An empty baseURL uses DefaultBaseURL.
func NewHTTPClient(baseURL string, opts ...ClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:     baseURL,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Gateway = (*HTTPClient)(nil)

// fetch returns the raw body for path, through the cache when configured.
// endpoint labels metrics.
func (c *HTTPClient) fetch(ctx context.Context, endpoint, path string) ([]byte, error) {
	url := c.baseURL + path
	if c.memo == nil {
		return c.get(ctx, endpoint, url)
	}
	return c.memo.GetOrFetch(ctx, url, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint, url)
	})
}

// get performs a GET with retries and exponential backoff.
// 404 returns ErrNotFound immediately; 429 and 5xx are retried; other statuses are not.
func (c *HTTPClient) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		body, err := c.do(ctx, endpoint, url)
		if err == nil {
			return body, nil
		}
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *HTTPClient) do(ctx context.Context, endpoint, url string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "transport")
		return nil, fmt.Errorf("http request: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "transport")
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "")
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "not_found")
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "rate_limited")
	case resp.StatusCode >= 500:
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "server")
	default:
		observability.RecordUpstream(endpoint, time.Since(start).Seconds(), "client")
	}
	return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: truncate(string(body), 200)}
}

// getEntity decodes a single-entity body; a null body is ErrNotFound.
func (c *HTTPClient) getEntity(ctx context.Context, endpoint, path string, out interface{}) error {
	body, err := c.fetch(ctx, endpoint, path)
	if err != nil {
		return err
	}
	if isNull(body) {
		return fmt.Errorf("%s%s: %w", c.baseURL, path, ErrNotFound)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	return nil
}

// getList decodes a collection body; null decodes to an empty collection.
func (c *HTTPClient) getList(ctx context.Context, endpoint, path string, out interface{}) error {
	body, err := c.fetch(ctx, endpoint, path)
	if err != nil {
		return err
	}
	if isNull(body) {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	return nil
}

func isNull(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
