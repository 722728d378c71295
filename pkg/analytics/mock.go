package analytics

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"sort"
)

// MockCaller synthesizes deterministic analytics responses keyed by
// (method, params), for mock-mode runs and tests where no real analytics
// backend is configured. The Scheduler dispatches to it exactly like a
// real backend; only the data-generation strategy differs.
type MockCaller struct{}

// Query implements Caller.
func (MockCaller) Query(_ context.Context, method string, params map[string]string) (any, error) {
	rng := rand.New(rand.NewPCG(seedFor(method, params), 0))

	switch method {
	case "gas_regime":
		regimes := []string{"low", "medium", "high"}
		return regimes[rng.IntN(len(regimes))], nil
	case "volatility", "mev_risk", "pool_health_score":
		return rng.Float64(), nil
	case "whale_sentiment":
		sentiments := []string{"bullish", "neutral", "bearish"}
		return sentiments[rng.IntN(len(sentiments))], nil
	case "pool_metrics", "range_hint", "dynamic_config":
		return map[string]any{
			"score": rng.Float64(),
			"n":     rng.IntN(100),
		}, nil
	case "liquidity_heatmap":
		buckets := make([]float64, 5)
		for i := range buckets {
			buckets[i] = rng.Float64()
		}
		return map[string]any{"buckets": buckets}, nil
	default:
		return nil, nil
	}
}

func seedFor(method string, params map[string]string) uint64 {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	h.Write([]byte(method))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(params[k]))
	}
	return h.Sum64()
}
