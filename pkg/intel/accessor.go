// Package intel implements Intelligence (spec.md §4.3): the cache-first
// facade the agent and harness call during an episode's decision step. It
// never issues a foreground network call — on a cache miss it returns a
// missing-quality zero value and, optionally, appends to the trigger log
// for the Scheduler to pick up on its next tick.
package intel

import (
	"sync"
	"time"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/model"
	"github.com/clmmsim/pipeline/pkg/registry"
)

// TriggerSink receives advisory refresh requests (spec.md §4.5 "Trigger
// semantics"). The Scheduler's trigger log writer implements this.
type TriggerSink interface {
	Append(reason, pool, pair string) error
}

// Accessor is one decision-step instance of Intelligence. Create a fresh
// Accessor per episode — its snapshot accumulates for the lifetime of one
// decision step and is then extracted by the harness (spec.md §4.3
// "Snapshot recording").
type Accessor struct {
	store    *cachekv.Store
	reg      *registry.Registry
	triggers TriggerSink
	now      func() time.Time

	mu       sync.Mutex
	snapshot model.IntelSnapshot
}

// New builds an Accessor over store and reg. triggers may be nil, in which
// case cache misses are recorded but no refresh is requested.
func New(store *cachekv.Store, reg *registry.Registry, triggers TriggerSink) *Accessor {
	return &Accessor{
		store:    store,
		reg:      reg,
		triggers: triggers,
		now:      time.Now,
		snapshot: model.IntelSnapshot{},
	}
}

// GetVolatility implements get_volatility(pair, window).
func (a *Accessor) GetVolatility(pair string, windowMinutes int64) (float64, model.Quality) {
	window := WindowFromMinutes(windowMinutes)
	v, q := a.lookup("volatility", map[string]string{"pair": pair, "window": window}, "", pair)
	f, _ := v.(float64)
	return f, q
}

// GetPoolHealth implements get_pool_health(pool, pair, window).
func (a *Accessor) GetPoolHealth(pool, pair string, windowMinutes int64) (map[string]any, model.Quality) {
	window := WindowFromMinutes(windowMinutes)
	v, q := a.lookup("pool_metrics", map[string]string{"pool": pool, "window": window}, pool, pair)
	m, _ := v.(map[string]any)
	return m, q
}

// GetLiquidityHeatmap implements get_liquidity_heatmap(pool).
func (a *Accessor) GetLiquidityHeatmap(pool string) (any, model.Quality) {
	return a.lookup("liquidity_heatmap", map[string]string{"pool": pool}, pool, "")
}

// GetGasRegime implements get_gas_regime().
func (a *Accessor) GetGasRegime() (string, model.Quality) {
	v, q := a.lookup("gas_regime", nil, "", "")
	s, _ := v.(string)
	return s, q
}

// GetMEVRisk implements get_mev_risk(pool).
func (a *Accessor) GetMEVRisk(pool string) (float64, model.Quality) {
	v, q := a.lookup("mev_risk", map[string]string{"pool": pool}, pool, "")
	f, _ := v.(float64)
	return f, q
}

// GetWhaleSentiment implements get_whale_sentiment(pair).
func (a *Accessor) GetWhaleSentiment(pair string) (string, model.Quality) {
	v, q := a.lookup("whale_sentiment", map[string]string{"pair": pair}, "", pair)
	s, _ := v.(string)
	return s, q
}

// GetPoolHealthScore implements get_pool_health_score(pool). Agent-facing
// only: this descriptor is disabled by default and is not part of the
// harness's own decision-step snapshot.
func (a *Accessor) GetPoolHealthScore(pool string) (float64, model.Quality) {
	v, q := a.lookup("pool_health_score", map[string]string{"pool": pool}, pool, "")
	f, _ := v.(float64)
	return f, q
}

// GetRangeHint implements get_range_hint(pool).
func (a *Accessor) GetRangeHint(pool string) (map[string]any, model.Quality) {
	v, q := a.lookup("range_hint", map[string]string{"pool": pool}, pool, "")
	m, _ := v.(map[string]any)
	return m, q
}

// GetDynamicConfig implements get_dynamic_config(). Agent-facing only, like
// GetPoolHealthScore.
func (a *Accessor) GetDynamicConfig() (map[string]any, model.Quality) {
	v, q := a.lookup("dynamic_config", nil, "", "")
	m, _ := v.(map[string]any)
	return m, q
}

// Snapshot returns a copy of the intel snapshot accumulated so far.
func (a *Accessor) Snapshot() model.IntelSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(model.IntelSnapshot, len(a.snapshot))
	for k, v := range a.snapshot {
		out[k] = v
	}
	return out
}

// Hygiene derives the Hygiene summary from the accumulated snapshot.
func (a *Accessor) Hygiene() model.Hygiene {
	return model.ComputeHygiene(a.Snapshot())
}

// lookup is the shared accessor path: build the canonical key, classify
// freshness against the envelope (if any), record a snapshot entry, and
// advisory-trigger a refresh on anything less than fresh.
func (a *Accessor) lookup(method string, params map[string]string, pool, pair string) (any, model.Quality) {
	key := canonicalKey(method, params)
	now := a.now()

	var ttl, maxAge time.Duration
	if d, ok := a.reg.Get(method); ok {
		ttl, maxAge = d.TTL, d.MaxAge
	}

	env, found := a.store.Get(key)
	quality := classify(env, found, now, ttl, maxAge)

	a.mu.Lock()
	a.snapshot[key] = model.IntelEntry{
		Quality: quality,
		AgeSecs: ageSeconds(env, found, now),
		AsOf:    asOf(env, found),
	}
	a.mu.Unlock()

	if quality != model.QualityFresh && a.triggers != nil {
		_ = a.triggers.Append("cache_"+string(quality), pool, pair)
	}

	if !found || !env.OK {
		return nil, quality
	}
	return env.Data, quality
}
