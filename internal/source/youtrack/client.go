package youtrack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/worktimer/internal/source"
)

// Client is a thin HTTP client for the YouTrack REST API.
// It handles Bearer token authentication and JSON marshaling. Each
// request is attempted once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new YouTrack HTTP client. The baseURL should be the
// root URL of the instance (e.g., https://example.youtrack.cloud).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	query url.Values,
	result interface{},
) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(
	ctx context.Context,
	path string,
	query url.Values,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, query, body, result)
}

// do builds the request, handles auth and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	result interface{},
) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &source.AuthError{
			Host:    c.baseURL,
			Message: "authentication failed (401): check your permanent token",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ytErr ErrorResponse
		if json.Unmarshal(respBody, &ytErr) == nil && ytErr.Error != "" {
			return fmt.Errorf(
				"youtrack API error (%d) on %s %s: %s: %s",
				resp.StatusCode, method, path,
				ytErr.Error, ytErr.ErrorDescription,
			)
		}
		return fmt.Errorf(
			"unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody),
		)
	}

	// No content to parse (e.g. 204).
	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf(
			"unmarshaling response from %s %s: %w",
			method, path, err,
		)
	}

	return nil
}
