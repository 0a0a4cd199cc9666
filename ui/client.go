package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/b0bbywan/go-powermenu/logger"
)

// APIClient makes HTTP requests to the local JSON API
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a new internal API client.
// It always connects to 127.0.0.1, which is guaranteed to be in the server's listen list.
func NewAPIClient(port int) *APIClient {
	return &APIClient{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *APIClient) GetServerInfo() (*ServerInfo, error) {
	var v ServerInfo
	if err := c.get("/server", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *APIClient) GetActions() ([]Action, error) {
	var v []Action
	if err := c.get("/power", &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Close asks the API to close the menu.
func (c *APIClient) Close() error {
	resp, err := c.client.Post(c.baseURL+"/close", "application/json", nil)
	if err != nil {
		return fmt.Errorf("/close: %w", err)
	}
	defer c.closeBody("/close", resp)
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("/close: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *APIClient) get(path string, v any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer c.closeBody(path, resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%s: decode failed: %w", path, err)
	}
	return nil
}

func (c *APIClient) closeBody(path string, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logger.Warn("[ui] failed to close response body for %s", path)
	}
}
