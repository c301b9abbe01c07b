package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/iksnae/complaint-desk/internal"
	"github.com/pkg/errors"
)

// Error is a non-2xx response from the backend
type Error struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the backend rejected the credential
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsUnauthorized reports whether err carries a 401 from the backend
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// Client calls the complaint backend
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *retryablehttp.Client
}

type Option func(*Client)

// WithToken sets the bearer credential sent on every call
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithRetries sets how often idempotent calls are retried
func WithRetries(n int) Option {
	return func(c *Client) {
		c.http.RetryMax = n
	}
}

// WithTimeout bounds each HTTP attempt
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.HTTPClient.Timeout = d
	}
}

// WithRetryWait sets the backoff bounds between retries
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = min
		c.http.RetryWaitMax = max
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

type noRetryKey struct{}

func NewClient(baseURL string, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.RetryMax = 2
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = leveledLogger{}
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "complaint-desk",
		http:      rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer credential, e.g. after login
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// checkRetry retries connection errors and 5xx responses, except for
// requests marked as non-idempotent.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if noRetry, _ := ctx.Value(noRetryKey{}).(bool); noRetry {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	if method != http.MethodGet {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request")
		}
		body = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "failed to call newrequest")
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to execute %s request", strings.ToLower(method))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	internal.LogDebug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode >= 400 {
		return decodeError(resp, data, method, path)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func decodeError(resp *http.Response, data []byte, method, path string) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil || msg.Message == "" {
		msg.Message = http.StatusText(resp.StatusCode)
	}
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    msg.Message,
		Method:     method,
		Path:       path,
	}
}

// leveledLogger routes retryablehttp logs to the debug log
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	internal.LogDebug("http: %s %s", msg, formatKV(keysAndValues))
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	internal.LogDebug("http: %s %s", msg, formatKV(keysAndValues))
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	internal.LogDebug("http: %s %s", msg, formatKV(keysAndValues))
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	internal.LogWarn("http: %s %s", msg, formatKV(keysAndValues))
}

func formatKV(kv []interface{}) string {
	parts := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", kv[i], kv[i+1]))
	}
	return strings.Join(parts, " ")
}

// Ping checks that the backend answers at all. Any response below 500,
// including 404 for the bare root, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.get(ctx, "/", nil, nil)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return nil
	}
	return err
}
