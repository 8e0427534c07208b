package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPTransport sends requests with a net/http client.
type HTTPTransport struct {
	Client *http.Client
}

// Compile-time check that HTTPTransport implements Transport.
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport using http.DefaultClient when c is nil.
func NewHTTPTransport(c *http.Client) *HTTPTransport {
	if c == nil {
		c = http.DefaultClient
	}
	return &HTTPTransport{Client: c}
}

// Do performs req. Non-2xx responses return the status with ErrStatus.
func (t *HTTPTransport) Do(ctx context.Context, req Request) (int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := t.Client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("post %s: %w", req.URL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return resp.StatusCode, nil
}
