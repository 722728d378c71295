// Package execclient implements the CLMM executor collaborator contract
// (spec.md §6 "CLMM executor: provides execute_episode(proposal, ctx) ->
// EpisodeResult") as a remote harness.Executor, for deployments where
// episode execution runs in a separate service rather than in-process via
// pkg/harness.LiveExecutor + pkg/gateway.
package execclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/clmmsim/pipeline/pkg/model"
)

// HTTPExecutor calls a remote execute_episode endpoint and adapts its
// response into model.EpisodeResult.
type HTTPExecutor struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// New builds an HTTPExecutor with a bounded default timeout.
func New(baseURL, token string) *HTTPExecutor {
	return &HTTPExecutor{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type executeEpisodeRequest struct {
	Proposal model.Proposal `json:"proposal"`
	RunID    string         `json:"run_id"`
	Seed     int64          `json:"seed"`
	Regime   string         `json:"regime"`
}

// ExecuteEpisode implements harness.Executor.
func (e *HTTPExecutor) ExecuteEpisode(ctx context.Context, proposal model.Proposal, runID string, seed int64, regime string) (model.EpisodeResult, error) {
	body, err := json.Marshal(executeEpisodeRequest{Proposal: proposal, RunID: runID, Seed: seed, Regime: regime})
	if err != nil {
		return model.EpisodeResult{}, fmt.Errorf("execclient: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/execute_episode", newReader(body))
	if err != nil {
		return model.EpisodeResult{}, fmt.Errorf("execclient: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.Token != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return model.EpisodeResult{}, fmt.Errorf("execclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return model.EpisodeResult{}, fmt.Errorf("execclient: remote executor returned status %d", resp.StatusCode)
	}

	var result model.EpisodeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.EpisodeResult{}, fmt.Errorf("execclient: decoding response: %w", err)
	}
	return result, nil
}
