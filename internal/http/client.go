// Package http provides the retrying HTTP client shared by the Apprise and
// Pushgateway integrations.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/sharkusmanch/logon-notifier/pkg/version"
)

// RetryConfig configures retry behavior for the HTTP client.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps both the backoff and any Retry-After the server asks for.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry settings used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 5 * time.Second,
		MaxDelay:     30 * time.Second,
	}
}

// Client is an HTTP client with retry logic.
type Client struct {
	httpClient *http.Client
	retry      RetryConfig
	logger     *slog.Logger
	clock      clock.Clock
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock sets the clock used to wait between attempts.
func WithClock(cl clock.Clock) ClientOption {
	return func(c *Client) {
		c.clock = cl
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new HTTP client with retry capabilities.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry:     DefaultRetryConfig(),
		logger:    slog.Default(),
		clock:     clock.New(),
		userAgent: "logon-notifier/" + version.Get().Short(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retry.MaxAttempts < 1 {
		c.retry.MaxAttempts = 1
	}

	return c
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Do performs req, retrying transport errors and retryable status codes. When
// attempts run out on a retryable status the last response is returned without
// an error; only transport failures are reported as errors.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		resp, err := c.attempt(ctx, req, bodyBytes, attempt)
		last := attempt == c.retry.MaxAttempts

		switch {
		case err != nil:
			lastErr = err
			c.logger.Warn("HTTP request failed",
				"method", req.Method,
				"url", req.URL.Redacted(),
				"attempt", attempt,
				"error", err,
			)
			if last {
				break
			}
			if werr := c.sleep(ctx, c.calculateDelay(attempt)); werr != nil {
				return nil, werr
			}

		case c.shouldRetry(resp.StatusCode) && !last:
			delay := c.calculateDelay(attempt)
			if hint, ok := retryAfter(resp.Headers); ok {
				delay = min(hint, c.retry.MaxDelay)
			}
			c.logger.Warn("HTTP request returned retryable status",
				"url", req.URL.Redacted(),
				"status", resp.StatusCode,
				"attempt", attempt,
				"delay", delay,
			)
			if werr := c.sleep(ctx, delay); werr != nil {
				return nil, werr
			}

		default:
			return resp, nil
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

func (c *Client) attempt(ctx context.Context, req *http.Request, body []byte, n int) (*Response, error) {
	attemptReq := req.Clone(ctx)
	if body != nil {
		attemptReq.Body = io.NopCloser(bytes.NewReader(body))
		attemptReq.ContentLength = int64(len(body))
	}

	c.logger.Debug("HTTP request attempt",
		"method", req.Method,
		"url", req.URL.Redacted(),
		"attempt", n,
		"max_attempts", c.retry.MaxAttempts,
	)

	resp, err := c.httpClient.Do(attemptReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Headers:    resp.Header,
	}, nil
}

// sleep waits for d or until ctx is done.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.clock.After(d):
		return nil
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, url string, contentType string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(ctx, req)
}

// calculateDelay returns InitialDelay * 2^(attempt-1), capped at MaxDelay.
func (c *Client) calculateDelay(attempt int) time.Duration {
	delay := float64(c.retry.InitialDelay) * math.Pow(2, float64(attempt-1))

	if delay > float64(c.retry.MaxDelay) {
		return c.retry.MaxDelay
	}

	return time.Duration(delay)
}

// shouldRetry returns true if the status code indicates a retryable error.
func (c *Client) shouldRetry(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// retryAfter parses a Retry-After header given in seconds. HTTP-date values
// are ignored and fall back to the backoff.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// CheckConnectivity reports whether url answers a single GET with a 2xx status.
func (c *Client) CheckConnectivity(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return fmt.Errorf("connectivity check returned status %d", resp.StatusCode)
}
