// Package http provides the timeout-bound client the PDF renderer backend is
// called through. The renderer runs headless Chromium and can stall on
// pathological documents, so every call carries a hard client-side timeout
// in addition to the per-request context deadline.
package http

import (
	"net/http"
	"time"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do executes the request. Deadline errors from the underlying client are
// returned as-is so callers can classify timeout against unreachable.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
