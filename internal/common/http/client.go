// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of an upstream body is buffered.
const maxBodyBytes = 1 << 20

type Client struct {
	httpClient *http.Client
}

// Response is a fully read upstream reply.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewClient builds a client; a zero timeout leaves deadlines to the context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithTransport is used by tests and tracing wrappers.
func NewClientWithTransport(timeout time.Duration, rt http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// PostJSON marshals payload, posts it and reads the whole reply. Non-2xx
// statuses are not errors here; callers inspect StatusCode.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload interface{}) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}
