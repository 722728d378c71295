package registry

import (
	"time"

	"github.com/clmmsim/pipeline/pkg/model"
)

// DefaultDescriptors returns the built-in query descriptor set (spec.md
// §4.3's nine named accessors). Seven are default-enabled and make up the
// scheduler's background refresh plan and the harness's decision-time
// snapshot; pool_health_score and dynamic_config are agent-facing only —
// reachable through Intelligence on demand but not refreshed in the
// background or read by the harness itself.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Method: "gas_regime", Priority: model.PriorityP0, Scope: model.ScopeGlobal,
			CostClass: model.CostCheap, TTL: 30 * time.Second, MaxAge: 5 * time.Minute,
			DefaultEnabled: true,
		},
		{
			Method: "volatility", Priority: model.PriorityP1, Scope: model.ScopePair, Windowed: true,
			CostClass: model.CostMedium, TTL: 5 * time.Minute, MaxAge: 30 * time.Minute,
			DefaultEnabled: true,
		},
		{
			Method: "pool_metrics", Priority: model.PriorityP1, Scope: model.ScopePool, Windowed: true,
			CostClass: model.CostMedium, TTL: 5 * time.Minute, MaxAge: 30 * time.Minute,
			DefaultEnabled: true,
		},
		{
			Method: "liquidity_heatmap", Priority: model.PriorityP2, Scope: model.ScopePool,
			CostClass: model.CostExpensive, TTL: 15 * time.Minute, MaxAge: time.Hour,
			DefaultEnabled: true,
		},
		{
			Method: "mev_risk", Priority: model.PriorityP1, Scope: model.ScopePool,
			CostClass: model.CostMedium, TTL: 5 * time.Minute, MaxAge: 30 * time.Minute,
			DefaultEnabled: true,
		},
		{
			Method: "whale_sentiment", Priority: model.PriorityP2, Scope: model.ScopePair,
			CostClass: model.CostMedium, TTL: 10 * time.Minute, MaxAge: time.Hour,
			DefaultEnabled: true,
		},
		{
			Method: "range_hint", Priority: model.PriorityP1, Scope: model.ScopePool,
			CostClass: model.CostCheap, TTL: 5 * time.Minute, MaxAge: 30 * time.Minute,
			DefaultEnabled: true,
		},
		{
			Method: "pool_health_score", Priority: model.PriorityP3, Scope: model.ScopePool,
			CostClass: model.CostExpensive, TTL: 15 * time.Minute, MaxAge: 2 * time.Hour,
			DefaultEnabled: false,
		},
		{
			Method: "dynamic_config", Priority: model.PriorityP0, Scope: model.ScopeGlobal,
			CostClass: model.CostCheap, Dependencies: []string{"gas_regime"},
			TTL: 10 * time.Minute, MaxAge: time.Hour, DefaultEnabled: false,
		},
	}
}

// NewDefault builds a Registry from DefaultDescriptors.
func NewDefault() *Registry {
	r, err := New(DefaultDescriptors())
	if err != nil {
		// DefaultDescriptors is a compile-time constant set; a validation
		// failure here means the built-in table itself is broken.
		panic(err)
	}
	return r
}
