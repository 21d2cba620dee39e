package convertapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultRequestTimeout = 2 * time.Minute

// Request describes one conversion submission.
type Request struct {
	From     string
	To       string
	FileName string
	Data     []byte
}

// Response carries the transport-level outcome and the parsed body. Payload
// is nil when the body was empty or not valid JSON.
type Response struct {
	OK      bool
	Payload any
}

// Client submits conversion requests to a remote endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option customizes a client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// New constructs a client for the conversion endpoint.
func New(endpoint string, opts ...Option) *Client {
	client := &Client{
		endpoint: strings.TrimSpace(endpoint),
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Endpoint returns the configured conversion URL, empty when unconfigured.
func (c *Client) Endpoint() string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// Submit issues one multipart conversion request. A JSON parse failure on the
// body yields a nil payload without an error; transport failures are returned
// as errors.
func (c *Client) Submit(ctx context.Context, req Request) (Response, error) {
	if c == nil || c.endpoint == "" {
		return Response{}, fmt.Errorf("convert client: endpoint is not configured")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("from", req.From); err != nil {
		return Response{}, fmt.Errorf("convert client: write from field: %w", err)
	}
	if err := writer.WriteField("to", req.To); err != nil {
		return Response{}, fmt.Errorf("convert client: write to field: %w", err)
	}
	field, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return Response{}, fmt.Errorf("convert client: create file field: %w", err)
	}
	if _, err := field.Write(req.Data); err != nil {
		return Response{}, fmt.Errorf("convert client: write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Response{}, fmt.Errorf("convert client: close multipart writer: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return Response{}, fmt.Errorf("convert client: build request: %w", err)
	}
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.Header.Set("Accept", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		return Response{}, fmt.Errorf("convert client: http request: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return Response{}, fmt.Errorf("convert client: read response: %w", err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		payload = nil
	}

	return Response{
		OK:      response.StatusCode >= 200 && response.StatusCode < 300,
		Payload: payload,
	}, nil
}
