// internal/common/genai/client.go
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"parche-recommender/internal/common/config"
	httpclient "parche-recommender/internal/common/http"
	"parche-recommender/internal/models"
)

var (
	ErrRateLimited          = errors.New("RATE_LIMITED")
	ErrUpstreamUnavailable  = errors.New("UPSTREAM_UNAVAILABLE")
	ErrNotFound             = errors.New("ENDPOINT_NOT_FOUND")
	ErrClientError          = errors.New("CLIENT_ERROR")
	ErrNonJSON              = errors.New("NON_JSON_RESPONSE")
	ErrMalformedResponse    = errors.New("MALFORMED_RESPONSE")
	ErrEmptyCompletion      = errors.New("EMPTY_COMPLETION")
	ErrTransport            = errors.New("TRANSPORT_FAILED")
	errMissingConfiguration = errors.New("genai base url is empty")
)

// Error describes a failed completion call. StatusCode is set only when the
// endpoint answered with a non-2xx status.
type Error struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// HTTPStatus is the upstream status, or 0 when the endpoint never answered
// with a non-2xx status.
func (e *Error) HTTPStatus() int { return e.StatusCode }

// Reason is a short label used for fallback logging and metrics.
func (e *Error) Reason() string {
	switch {
	case errors.Is(e.Kind, ErrNotFound):
		return "not_found"
	case errors.Is(e.Kind, ErrClientError):
		return "client_error"
	case errors.Is(e.Kind, ErrNonJSON):
		return "non_json"
	case errors.Is(e.Kind, ErrMalformedResponse):
		return "malformed"
	case errors.Is(e.Kind, ErrEmptyCompletion):
		return "empty_completion"
	case errors.Is(e.Kind, ErrRateLimited):
		return "rate_limited"
	case errors.Is(e.Kind, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	default:
		return "transport"
	}
}

type Client struct {
	http     *httpclient.Client
	endpoint string
	apiKey   string
}

type chatRequest struct {
	Messages []models.ConversationTurn `json:"messages"`
}

type chatResponse struct {
	Completion *string `json:"completion"`
}

func NewClient(cfg config.GenAIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errMissingConfiguration
	}
	path := cfg.ChatPath
	if path == "" {
		path = "/api/chat"
	}
	return &Client{
		http:     httpclient.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"),
		apiKey:   cfg.APIKey,
	}, nil
}

// NewClientWithHTTP lets tests point the client at an httptest server.
func NewClientWithHTTP(endpoint, apiKey string, hc *httpclient.Client) *Client {
	return &Client{http: hc, endpoint: endpoint, apiKey: apiKey}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Complete sends the full conversation and returns the completion text.
func (c *Client) Complete(ctx context.Context, messages []models.ConversationTurn) (string, error) {
	ctx, span := otel.Tracer("parche-recommender/genai").Start(ctx, "genai.Complete")
	defer span.End()
	span.SetAttributes(
		attribute.Int("genai.messages", len(messages)),
		attribute.String("genai.endpoint", c.endpoint),
	)

	completion, err := c.complete(ctx, messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("genai.completion_length", len(completion)))
	return completion, nil
}

func (c *Client) complete(ctx context.Context, messages []models.ConversationTurn) (string, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint, headers, chatRequest{Messages: messages})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%w: %v", ctxErr, err)
		}
		return "", &Error{Kind: ErrTransport, Err: err}
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		return "", err
	}

	if isHTML(resp.ContentType) || !json.Valid(resp.Body) {
		return "", &Error{Kind: ErrNonJSON, Err: fmt.Errorf("content type %q", resp.ContentType)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", &Error{Kind: ErrMalformedResponse, Err: err}
	}
	if parsed.Completion == nil {
		return "", &Error{Kind: ErrMalformedResponse, Err: errors.New("missing completion field")}
	}
	if strings.TrimSpace(*parsed.Completion) == "" {
		return "", &Error{Kind: ErrEmptyCompletion}
	}
	return *parsed.Completion, nil
}

// classifyStatus maps non-2xx statuses. Callers surface 429 and 5xx; 404 and
// other 4xx are recovered.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return &Error{Kind: ErrRateLimited, StatusCode: status}
	case status >= http.StatusInternalServerError:
		return &Error{Kind: ErrUpstreamUnavailable, StatusCode: status}
	case status == http.StatusNotFound:
		return &Error{Kind: ErrNotFound, StatusCode: status}
	default:
		return &Error{Kind: ErrClientError, StatusCode: status}
	}
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html")
}
