// Package messages reads the total number of scanned messages from the
// dashboard backend and turns successive totals into counter runs.
package messages

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrBadStatus is returned when the endpoint answers with a non-2xx status
var ErrBadStatus = errors.New("unexpected status")

// countResponse is the body of the message-count endpoint
type countResponse struct {
	Count *int64 `json:"count"`
}

// statusError carries the HTTP status of a failed request
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrBadStatus, e.code, http.StatusText(e.code))
}

func (e *statusError) Unwrap() error { return ErrBadStatus }

// Client fetches the message total
type Client struct {
	endpoint string
	http     *http.Client
	attempts uint
	delay    time.Duration
	log      *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithAttempts sets the total number of tries per Count call
func WithAttempts(n uint) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryDelay sets the base backoff delay between tries
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.delay = d }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a client for endpoint with a per-request timeout
func NewClient(endpoint string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		attempts: 3,
		delay:    500 * time.Millisecond,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("messages")
	return c
}

// Endpoint returns the URL the client polls
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Count returns the current total. Transport errors and 5xx answers are
// retried with exponential backoff; 4xx answers and malformed bodies are not.
func (c *Client) Count(ctx context.Context) (int64, error) {
	var count int64
	err := retry.Do(
		func() error {
			n, err := c.fetch(ctx)
			if err != nil {
				return err
			}
			count = n
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("fetch failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *Client) fetch(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return 0, retry.Unrecoverable(errors.Wrap(err, "failed to build request"))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, &statusError{code: resp.StatusCode}
	}

	var body countResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, retry.Unrecoverable(errors.Wrap(err, "failed to decode count"))
	}
	if body.Count == nil {
		return 0, retry.Unrecoverable(errors.New("response has no count"))
	}
	if *body.Count < 0 {
		return 0, retry.Unrecoverable(errors.Errorf("negative count %d", *body.Count))
	}
	return *body.Count, nil
}

func retryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}
