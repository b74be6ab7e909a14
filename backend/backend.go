package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const statusSuccess = "success"

// Error is a failure reported by the backend API, either as a non-2xx
// status or as an error envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.StatusCode)
}

// Client talks JSON to the DeQRypt backend service. Requests are POSTs with
// JSON bodies; responses either carry the payload directly or wrap it in a
// {status, data, message} envelope.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(c *Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(c.BackendAPIURL, "/"),
		http: &http.Client{
			Timeout: time.Duration(c.BackendAPITimeout) * time.Second,
		},
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload := new(bytes.Buffer)
	if err := json.NewEncoder(payload).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode backend response: %w", err)
	}
	return nil
}

// errorMessage pulls the human-readable message out of an error body. The
// backend uses "message" in most places and FastAPI's "detail" in others.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}
