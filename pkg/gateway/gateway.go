// Package gateway implements the external exchange collaborator contract
// (spec.md §6 "Gateway health", §4.6 "Live executor"): harness.Gateway.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clmmsim/pipeline/pkg/harness"
	"github.com/clmmsim/pipeline/pkg/model"
)

// HTTPGateway implements harness.Gateway over a configured exchange
// gateway HTTP endpoint. Grounded on the teacher's cmd/tarsy/main.go
// bounded-timeout health-check pattern.
type HTTPGateway struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New builds an HTTPGateway with a sane default client timeout.
func New(baseURL, token string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Healthy probes the gateway's liveness endpoint with a bounded timeout
// (spec.md §6 "Gateway health: a simple liveness probe with bounded
// latency").
func (g *HTTPGateway) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Quote implements the "quote-then-execute" simulate step.
func (g *HTTPGateway) Quote(ctx context.Context, proposal model.Proposal, simulate bool) (harness.QuoteResult, error) {
	var out harness.QuoteResult
	if err := g.post(ctx, "/quote", quoteRequest{Proposal: proposal, Simulate: simulate}, &out); err != nil {
		return harness.QuoteResult{}, err
	}
	return out, nil
}

// Execute submits the real execution call.
func (g *HTTPGateway) Execute(ctx context.Context, proposal model.Proposal) (harness.ExecuteResult, error) {
	var out harness.ExecuteResult
	if err := g.post(ctx, "/execute", executeRequest{Proposal: proposal}, &out); err != nil {
		return harness.ExecuteResult{}, err
	}
	return out, nil
}

type quoteRequest struct {
	Proposal model.Proposal `json:"proposal"`
	Simulate bool           `json:"simulate"`
}

type executeRequest struct {
	Proposal model.Proposal `json:"proposal"`
}

func (g *HTTPGateway) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("gateway: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, jsonReader(data))
	if err != nil {
		return fmt.Errorf("gateway: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway: %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
