package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// errorResponse is the error body the tracker API returns on any failure.
type errorResponse struct {
	Message string `json:"message"`
}

// Client is a thin HTTP client for the tracker REST API. It handles
// Bearer token authentication, JSON marshaling, and maps HTTP failures
// onto the client's error taxonomy.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client. The baseURL should be the root of
// the API (e.g. https://tracker.example.com/api).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken installs the bearer token used on subsequent requests.
// An empty token clears authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// and JSON (de)serialization. Non-2xx statuses are mapped onto the
// typed errors in errors.go.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: err,
		}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapError(resp.StatusCode, respBody, method, path)
	}

	// No content to parse (e.g. 204 on delete).
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		)
	}

	return nil
}

// mapError converts a non-2xx response into a typed error. The server
// sends {"message": "..."} bodies; that wording is surfaced verbatim.
func (c *Client) mapError(status int, body []byte, method, path string) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	msg := er.Message

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = "authentication required"
		}
		return &AuthError{Message: msg}

	case status == http.StatusNotFound:
		return &NotFoundError{Message: msg}

	case status == http.StatusBadRequest ||
		status == http.StatusUnprocessableEntity ||
		status == http.StatusConflict:
		if msg == "" {
			msg = fmt.Sprintf("request rejected (%d)", status)
		}
		return &ValidationError{Message: msg}
	}

	if msg == "" {
		msg = string(body)
	}
	return fmt.Errorf(
		"unexpected status %d on %s %s: %s", status, method, path, msg,
	)
}
