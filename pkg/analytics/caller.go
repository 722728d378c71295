// Package analytics implements the external analytics backend collaborator
// contract (spec.md §6 "External analytics backend"): an opaque
// query(method_name, params) -> rows | error caller, consumed only by the
// Scheduler.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Caller is the Scheduler-facing contract (scheduler.AnalyticsCaller).
type Caller interface {
	Query(ctx context.Context, method string, params map[string]string) (any, error)
}

// HTTPCaller queries a Dune-compatible analytics HTTP backend. Grounded on
// the teacher's pattern of thin typed HTTP clients for external MCP/agent
// tool calls (pkg/mcp/client.go), adapted to a single query endpoint.
type HTTPCaller struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewHTTPCaller builds an HTTPCaller with a bounded default timeout.
func NewHTTPCaller(baseURL, token string) *HTTPCaller {
	return &HTTPCaller{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Query implements Caller.
func (c *HTTPCaller) Query(ctx context.Context, method string, params map[string]string) (any, error) {
	body, err := json.Marshal(map[string]any{"method": method, "params": params})
	if err != nil {
		return nil, fmt.Errorf("analytics: encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/query", bytesReader(body))
	if err != nil {
		return nil, fmt.Errorf("analytics: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analytics: query %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analytics: query %s returned status %d", method, resp.StatusCode)
	}

	var result any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("analytics: decoding response for %s: %w", method, err)
	}
	return result, nil
}
