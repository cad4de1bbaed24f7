package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goatminify/goatminify/internal/api"
	"github.com/goatminify/goatminify/internal/config"
)

// DefaultClientTimeout bounds a single request to the daemon. It exceeds the
// daemon's own request timeout so the daemon's error reaches the caller.
const DefaultClientTimeout = 35 * time.Second

// Client provides methods to communicate with the gmd daemon
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new daemon client
func NewClient(cfg *config.Config) *Client {
	return NewClientWithURL(fmt.Sprintf("http://%s", cfg.Daemon.Address()))
}

// NewClientWithURL creates a client for the daemon at baseURL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultClientTimeout,
		},
	}
}

// BaseURL returns the daemon URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks if the daemon is healthy
func (c *Client) Health() (*api.HealthResponse, error) {
	var health api.HealthResponse
	if err := c.get("/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Config retrieves the daemon configuration
func (c *Client) Config() (*config.Config, error) {
	var resp api.ConfigResponse
	if err := c.get("/config", &resp); err != nil {
		return nil, err
	}
	return resp.Config, nil
}

// Minify sends req to the daemon's pipeline
func (c *Client) Minify(req api.MinifyRequest) (*api.MinifyResponse, error) {
	var resp api.MinifyResponse
	if err := c.post("/minify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Detect asks the daemon for the content type of req.Input
func (c *Client) Detect(req api.DetectRequest) (*api.DetectResponse, error) {
	var resp api.DetectResponse
	if err := c.post("/detect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// get performs a GET request and decodes the JSON response
func (c *Client) get(path string, result interface{}) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, result)
}

// post sends body as JSON and decodes the JSON response
func (c *Client) post(path string, body, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse(resp, result)
}

// decodeResponse turns non-200 responses into errors, preferring the
// daemon's APIError message when the body carries one.
func decodeResponse(resp *http.Response, result interface{}) error {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var apiErr api.APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("request failed (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
