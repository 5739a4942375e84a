package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"github.com/teemow/todoist-mcp/internal/instrumentation"
	"github.com/teemow/todoist-mcp/internal/logging"
)

// DefaultBaseURL is the root of the Todoist REST API v2.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// maxBackoff caps the wait between rate-limit retries.
const maxBackoff = 30 * time.Second

// Client is a thin HTTP client for the Todoist REST API v2.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL    string
	base       http.RoundTripper
	timeout    time.Duration
	maxRetries int
	logger     logging.Logger
	metrics    *instrumentation.Metrics
}

// WithBaseURL overrides the API root, e.g. for tests or a proxy.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTransport sets the underlying round tripper. The bearer token is
// always added on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.base = rt
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithMaxRetries enables retrying of HTTP 429 responses. The default of 0
// surfaces every failure once.
func WithMaxRetries(n int) Option {
	return func(o *clientOptions) {
		o.maxRetries = n
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics sets the recorder for API request metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}

// NewClient creates a new Todoist client authenticated with a personal API token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("todoist API token is empty")
	}

	o := clientOptions{
		baseURL: DefaultBaseURL,
		base:    http.DefaultTransport,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxRetries < 0 {
		return nil, fmt.Errorf("max retries must not be negative, got %d", o.maxRetries)
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	base, err := url.Parse(o.baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", o.baseURL)
	}

	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}),
		Base: o.base,
	}

	return &Client{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   o.timeout,
		},
		maxRetries: o.maxRetries,
		logger:     o.logger,
		metrics:    o.metrics,
	}, nil
}

// APIError is returned for any non-2xx response from Todoist.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("todoist API error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, body)
}

// call describes one REST request for metrics and tracing.
type call struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	body      any
}

func (c call) mutating() bool {
	return c.method != http.MethodGet
}

// do builds the request, handles rate limiting when enabled, and decodes the
// JSON response into result (which may be nil).
func (c *Client) do(ctx context.Context, req call, result any) (err error) {
	start := time.Now()
	status := 0

	var requestID string
	if req.mutating() {
		requestID = uuid.NewString()
	}

	ctx, span := instrumentation.StartTodoistAPISpan(ctx, req.resource, req.operation,
		attribute.String(instrumentation.SpanAttrRequestID, requestID),
	)
	defer func() {
		span.SetAttributes(attribute.Int(instrumentation.SpanAttrHTTPStatus, status))
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		span.End()
		c.metrics.RecordAPIRequest(ctx, req.resource, req.operation, status, time.Since(start))
	}()

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var payload []byte
	if req.body != nil {
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method, target, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if requestID != "" {
			httpReq.Header.Set("X-Request-Id", requestID)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return fmt.Errorf("failed to execute request %s %s: %w", req.method, req.path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		status = resp.StatusCode
		if readErr != nil {
			return fmt.Errorf("failed to read response body: %w", readErr)
		}

		apiErr := &APIError{StatusCode: resp.StatusCode, Method: req.method, Path: req.path, Body: string(respBody)}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			wait := retryAfterDuration(resp, attempt)
			lastErr = apiErr
			c.metrics.RecordAPIRetry(ctx, req.resource)
			c.logger.Warn("rate limited by todoist, retrying",
				logging.KeyResource, req.resource,
				logging.KeyRequestID, requestID,
				"attempt", attempt+1,
				"wait", wait,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			c.logger.Debug("todoist request failed",
				logging.KeyResource, req.resource,
				logging.KeyOperation, req.operation,
				logging.KeyStatus, resp.StatusCode,
			)
			return apiErr
		}

		if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response from %s %s: %w", req.method, req.path, err)
		}
		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and falls back to
// exponential backoff when it is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			return min(time.Duration(seconds)*time.Second, maxBackoff)
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	return min(backoff, maxBackoff)
}

func escape(id string) string {
	return url.PathEscape(id)
}
