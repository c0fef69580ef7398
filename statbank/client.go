// statbank/client.go
package statbank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gewnthar/covidash/config"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 32 << 20

// Client talks to the statistics API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	opts       RequestOptions
}

// NewClient creates a client for the configured API.
func NewClient(cfg config.StatbankConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		opts:       OptionsFromConfig(cfg),
	}
}

// Options returns the request options the client was configured with.
func (c *Client) Options() RequestOptions { return c.opts }

// post sends payload as JSON to path and returns the raw response body.
// Transport failures and non-2xx statuses are ErrUpstreamUnavailable.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: POST %s: %v", ErrUpstreamUnavailable, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading response from %s: %v", ErrUpstreamUnavailable, url, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, contentType, fmt.Errorf("%w: POST %s: status %d: %s",
			ErrUpstreamUnavailable, url, resp.StatusCode, upstreamErrorText(respBody, contentType))
	}

	log.Printf("Statbank: POST %s -> %d (%d bytes in %s)\n", path, resp.StatusCode, len(respBody), time.Since(start).Round(time.Millisecond))
	return respBody, contentType, nil
}
