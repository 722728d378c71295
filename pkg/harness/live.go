package harness

import (
	"context"
	"fmt"

	"github.com/clmmsim/pipeline/pkg/model"
)

// Gateway is the external exchange collaborator contract (spec.md §6
// "CLMM executor"). Quote is always called with simulate=true first; only
// a quoting success clears the way for a real Execute call.
type Gateway interface {
	Quote(ctx context.Context, proposal model.Proposal, simulate bool) (QuoteResult, error)
	Execute(ctx context.Context, proposal model.Proposal) (ExecuteResult, error)
	Healthy(ctx context.Context) bool
}

// QuoteResult is the outcome of a simulated (or real) quote call.
type QuoteResult struct {
	Output   float64
	Reverted bool
	GasUsed  float64
}

// ExecuteResult is the outcome of a real execution call.
type ExecuteResult struct {
	Metrics       model.Metrics
	PositionAfter model.Position
}

// LiveExecutor wraps a Gateway behind the quote-then-execute pattern
// (spec.md §4.6 "Live executor").
type LiveExecutor struct {
	gateway     Gateway
	gasCeiling  float64
}

// NewLiveExecutor builds a LiveExecutor bounding any quote's gas usage by
// gasCeiling.
func NewLiveExecutor(gateway Gateway, gasCeiling float64) *LiveExecutor {
	return &LiveExecutor{gateway: gateway, gasCeiling: gasCeiling}
}

// GatewayHealthy reports whether the wrapped gateway is currently healthy,
// for use by executor selection ahead of ExecuteEpisode.
func (l *LiveExecutor) GatewayHealthy(ctx context.Context) bool {
	return l.gateway.Healthy(ctx)
}

// ExecuteEpisode implements Executor.
func (l *LiveExecutor) ExecuteEpisode(ctx context.Context, proposal model.Proposal, runID string, _ int64, _ string) (model.EpisodeResult, error) {
	base := model.EpisodeResult{
		EpisodeID: proposal.EpisodeID,
		RunID:     runID,
		ExecMode:  model.ExecModeReal,
		Sim:       model.SimEnvelope{Source: "live"},
	}

	if !l.gateway.Healthy(ctx) {
		base.Status = model.ResultStatusFailed
		base.Reason = ReasonHealthFailure
		return base, nil
	}

	quote, err := l.gateway.Quote(ctx, proposal, true)
	if err != nil {
		base.Status = model.ResultStatusFailed
		base.Reason = fmt.Sprintf("%s: %v", ReasonHealthFailure, err)
		return base, nil
	}
	if quote.Reverted {
		base.Status = model.ResultStatusSkipped
		base.Reason = ReasonRevert
		return base, nil
	}
	if quote.Output <= 0 {
		base.Status = model.ResultStatusSkipped
		base.Reason = ReasonUserBound
		return base, nil
	}
	if quote.GasUsed > l.gasCeiling {
		base.Status = model.ResultStatusSkipped
		base.Reason = ReasonUserBound
		return base, nil
	}

	result, err := l.gateway.Execute(ctx, proposal)
	if err != nil {
		base.Status = model.ResultStatusFailed
		base.Reason = fmt.Sprintf("%s: %v", ReasonHealthFailure, err)
		return base, nil
	}

	base.Status = model.ResultStatusSuccess
	base.Metrics = result.Metrics
	base.PositionAfter = result.PositionAfter
	return base, nil
}
