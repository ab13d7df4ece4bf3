package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway"
)

// Client is a thin HTTP client for a Supabase project, covering the
// PostgREST row API under /rest/v1 and the GoTrue auth API under
// /auth/v1. It handles apikey/Bearer authentication, JSON marshaling,
// and automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	anonKey    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new Supabase HTTP client. The baseURL is the
// project root URL (e.g., https://abcdefgh.supabase.co); anonKey is the
// public API key sent with every request.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// SetToken installs the access token used for Bearer authentication.
// Before sign-in the anon key doubles as the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently installed access token, or "" when the
// client is unauthenticated.
func (c *Client) Token() string {
	return c.token
}

// errorResponse covers the error payload shapes of both PostgREST and
// GoTrue responses.
type errorResponse struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
}

// text returns the most specific human-readable message available.
func (e errorResponse) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, result)
}

// Post performs an HTTP POST request with a JSON body.
func (c *Client) Post(
	ctx context.Context,
	path string,
	headers map[string]string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, headers, body, result)
}

// Patch performs an HTTP PATCH request with a JSON body.
func (c *Client) Patch(
	ctx context.Context,
	path string,
	headers map[string]string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPatch, path, headers, body, result)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	headers map[string]string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		bearer := c.token
		if bearer == "" {
			bearer = c.anonKey
		}
		req.Header.Set("apikey", c.anonKey)
		req.Header.Set("Authorization", "Bearer "+bearer)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &gateway.Error{
				Op:      fmt.Sprintf("%s %s", method, path),
				Message: err.Error(),
			}
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = &gateway.Error{
				Op:      fmt.Sprintf("%s %s", method, path),
				Message: "rate limited (429)",
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			msg := "session expired or credentials rejected"
			var remote errorResponse
			if json.Unmarshal(respBody, &remote) == nil && remote.text() != "" {
				msg = remote.text()
			}
			return &gateway.AuthError{Message: msg}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var remote errorResponse
			if json.Unmarshal(respBody, &remote) == nil && remote.text() != "" {
				return &gateway.Error{
					Op:      fmt.Sprintf("%s %s", method, path),
					Message: remote.text(),
				}
			}
			return &gateway.Error{
				Op:      fmt.Sprintf("%s %s", method, path),
				Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(respBody)),
			}
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
