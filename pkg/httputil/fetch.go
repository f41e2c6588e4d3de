package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches graph JSON over HTTP with retry on transient failures.
// The zero value is not usable; construct with [NewClient].
type Client struct {
	HTTPClient *http.Client
	Attempts   int
	Delay      time.Duration
}

// NewClient returns a Client with default timeouts and retry policy.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Attempts:   3,
		Delay:      time.Second,
	}
}

// IsURL reports whether s names an HTTP or HTTPS resource rather than a
// local file.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch performs a GET against url and returns the response body.
//
// Server errors (5xx) and rate limiting (429) are retried with backoff;
// client errors (4xx) fail immediately. The context bounds the whole
// operation including retries.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := Retry(ctx, c.Attempts, c.Delay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return &RetryableError{Err: err}
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("GET %s: status %d", url, resp.StatusCode)}
		default:
			return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
		}
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// DefaultClient is the client used by the package-level [Fetch].
var DefaultClient = NewClient()

// Fetch performs a GET against url using [DefaultClient].
func Fetch(ctx context.Context, url string) ([]byte, error) {
	return DefaultClient.Fetch(ctx, url)
}
