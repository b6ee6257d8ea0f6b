package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout covers a full grounded search round trip.
const requestTimeout = 6 * time.Minute

// Client talks to a running mapscrape server.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a Client for baseURL, e.g. http://127.0.0.1:8080.
func NewClient(baseURL string) *Client {
	return &Client{base: baseURL, http: &http.Client{Timeout: requestTimeout}}
}

// Get decodes the JSON body of GET path into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.call(ctx, http.MethodGet, path, nil, result)
}

// Post sends body as JSON and decodes the reply into result. A nil result
// discards the reply.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.call(ctx, http.MethodPost, path, body, result)
}

// GetRaw returns the body and headers of GET path without decoding,
// for payloads like the CSV export.
func (c *Client) GetRaw(ctx context.Context, path string) ([]byte, http.Header, error) {
	return c.send(ctx, http.MethodGet, path, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	data, _, err := c.send(ctx, method, path, payload)
	if err != nil || result == nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) ([]byte, http.Header, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, resp.Header, newStatusError(resp.StatusCode, data)
	}
	return data, resp.Header, nil
}

// ErrorResponse is the server's JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusError reports a 4xx or 5xx reply.
type StatusError struct {
	Code    int
	Message string
}

func newStatusError(code int, body []byte) *StatusError {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return &StatusError{Code: code, Message: er.Error}
	}
	return &StatusError{Code: code, Message: string(body)}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
}
