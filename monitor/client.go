package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediaengine/types"
)

// Client reads job state from the media engine API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// BaseURL returns the API address
func (c *Client) BaseURL() string { return c.baseURL }

// ListJobs fetches all jobs, newest first
func (c *Client) ListJobs() ([]types.Job, error) {
	resp, err := c.client.Get(c.baseURL + "/api/jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Jobs []types.Job `json:"jobs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.Jobs, nil
}
