package harness

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"

	"github.com/clmmsim/pipeline/pkg/model"
)

// Regime names recognized by the mock executor's tick generator (spec.md
// §4.6 "regime-parameterized stochastic process").
const (
	RegimeMeanRevert = "mean_revert"
	RegimeTrend      = "trend"
	RegimeJumpy      = "jumpy"
)

// simSteps is the fixed number of ticks the mock executor simulates per
// episode — fixed so that output shape is independent of wall-clock
// behavior and identical runs produce identical step counts.
const simSteps = 60

// MockExecutor deterministically simulates one episode for a given
// (seed, proposal, regime): repeated invocation with identical inputs
// produces identical outputs (spec.md §4.6 "Mock executor").
type MockExecutor struct{}

// NewMockExecutor builds a MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// ExecuteEpisode implements Executor.
func (m *MockExecutor) ExecuteEpisode(_ context.Context, proposal model.Proposal, runID string, seed int64, regime string) (model.EpisodeResult, error) {
	rng := rand.New(rand.NewPCG(uint64(seed), seedFor(proposal.EpisodeID, regime)))

	prices := generateTickPath(rng, regime, simSteps)
	metrics, steps, position := simulate(proposal, prices)

	return model.EpisodeResult{
		EpisodeID: proposal.EpisodeID,
		RunID:     runID,
		ExecMode:  model.ExecModeMock,
		Status:    model.ResultStatusSuccess,
		Metrics:   metrics,
		Sim: model.SimEnvelope{
			Source: "mock",
			Steps:  steps,
		},
		PositionAfter: position,
	}, nil
}

// seedFor derives a stable second seed word from the episode id and regime
// so the PCG stream is fully determined by (seed, proposal, regime) and
// not accidentally shared across different episodes using the same seed.
func seedFor(episodeID, regime string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(episodeID))
	h.Write([]byte{0})
	h.Write([]byte(regime))
	return h.Sum64()
}

// generateTickPath produces simSteps relative price multipliers starting
// at 1.0, shaped by the named regime.
func generateTickPath(rng *rand.Rand, regime string, steps int) []float64 {
	prices := make([]float64, steps)
	price := 1.0

	for i := 0; i < steps; i++ {
		switch regime {
		case RegimeTrend:
			drift := 0.0015
			noise := (rng.Float64() - 0.5) * 0.004
			price *= 1 + drift + noise
		case RegimeJumpy:
			noise := (rng.Float64() - 0.5) * 0.003
			price *= 1 + noise
			if rng.Float64() < 0.05 {
				jump := (rng.Float64() - 0.5) * 0.08
				price *= 1 + jump
			}
		default: // RegimeMeanRevert and unrecognized regimes
			reversion := (1.0 - price) * 0.08
			noise := (rng.Float64() - 0.5) * 0.005
			price *= 1 + reversion + noise
		}
		if price <= 0 {
			price = 0.0001
		}
		prices[i] = price
	}
	return prices
}

// simulate walks the tick path applying the proposal's parameters to
// produce metrics, per-step timings, and the ending position. This is a
// simplified concentrated-liquidity fee/gas model, not a venue simulator:
// fees accrue while price stays within the proposed range, time-out-of-range
// accrues otherwise, and gas is charged once per rebalance crossing the
// rebalance threshold.
func simulate(proposal model.Proposal, prices []float64) (model.Metrics, []model.StepTiming, model.Position) {
	params := proposal.Params
	halfWidth := params.RangeWidthBps / 10000 / 2
	lower, upper := 1-halfWidth, 1+halfWidth

	var metrics model.Metrics
	var steps []model.StepTiming
	outOfRangeSteps := 0
	peak := 1.0
	maxDD := 0.0

	for i, p := range prices {
		steps = append(steps, model.StepTiming{Step: i, Millis: 0.01})

		if p > peak {
			peak = p
		}
		if dd := (peak - p) / peak; dd > maxDD {
			maxDD = dd
		}

		if p < lower || p > upper {
			outOfRangeSteps++
			continue
		}
		metrics.FeesEarned += params.OrderSize * (params.SpreadBps / 10000)

		if math.Abs(p-1) > params.RebalanceThreshold {
			metrics.GasCost += 0.002
			metrics.TradeCount++
		}
	}

	metrics.TimeOutOfRangeFrac = float64(outOfRangeSteps) / float64(len(prices))
	metrics.MaxDrawdown = maxDD
	metrics.RealizedPnL = metrics.FeesEarned - metrics.GasCost

	position := model.Position{
		Pool:           proposal.Pool,
		LiquidityUnits: params.MaxPosition,
		LowerPrice:     lower,
		UpperPrice:     upper,
	}
	return metrics, steps, position
}
