package scheduler

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/intel"
	"github.com/clmmsim/pipeline/pkg/model"
	"github.com/clmmsim/pipeline/pkg/registry"
)

// item is an enumerated plan entry before freshness filtering.
type item struct {
	desc   registry.Descriptor
	key    string
	params map[string]string
	pool   string
	pair   string
}

// BuildPlan enumerates the needed query plan (spec.md §4.5 steps 2-4):
// cross every enabled descriptor with its scope over the active pool/pair
// set (plus any pool/pair named by a trigger) and the enumerated window
// vocabulary, then drop anything whose current envelope is already fresh —
// unless a trigger forces it.
func BuildPlan(reg *registry.Registry, active []PoolActivity, triggers []Trigger, store *cachekv.Store, now time.Time) []Job {
	withTriggered := make([]PoolActivity, 0, len(active)+len(triggers))
	withTriggered = append(withTriggered, active...)
	for _, trig := range triggers {
		if trig.Pool != "" || trig.Pair != "" {
			withTriggered = append(withTriggered, PoolActivity{Pool: trig.Pool, Pair: trig.Pair})
		}
	}
	active = withTriggered
	pairs := Pairs(active)
	forced := forcedKeys(reg, triggers)

	var items []item
	for _, d := range reg.Enabled() {
		items = append(items, enumerate(d, active, pairs)...)
	}

	var jobs []Job
	for _, it := range items {
		env, found := store.Get(it.key)
		quality := classifyForPlan(env, found, now, it.desc)

		_, isForced := forced[it.key]
		if quality == model.QualityFresh && !isForced {
			continue
		}

		jobs = append(jobs, Job{
			ID:         uuid.NewString(),
			Descriptor: it.desc,
			Key:        it.key,
			Params:     it.params,
			Reason:     quality,
		})
	}

	sortJobs(jobs)
	return jobs
}

func enumerate(d registry.Descriptor, active []PoolActivity, pairs []string) []item {
	windows := []string{""}
	if d.Windowed {
		windows = intel.EnabledWindows()
	}

	var out []item
	switch d.Scope {
	case model.ScopeGlobal:
		for _, w := range windows {
			out = append(out, buildItem(d, "", "", w))
		}
	case model.ScopePool:
		seen := map[string]bool{}
		for _, a := range active {
			if a.Pool == "" || seen[a.Pool] {
				continue
			}
			seen[a.Pool] = true
			for _, w := range windows {
				out = append(out, buildItem(d, a.Pool, "", w))
			}
		}
	case model.ScopePair:
		for _, pr := range pairs {
			for _, w := range windows {
				out = append(out, buildItem(d, "", pr, w))
			}
		}
	case model.ScopeWindowed:
		for _, w := range intel.EnabledWindows() {
			out = append(out, buildItem(d, "", "", w))
		}
	}
	return out
}

func buildItem(d registry.Descriptor, pool, pair, window string) item {
	params := map[string]string{}
	if pool != "" {
		params["pool"] = pool
	}
	if pair != "" {
		params["pair"] = pair
	}
	if window != "" {
		params["window"] = window
	}
	return item{
		desc:   d,
		key:    intel.CanonicalKey(d.Method, params),
		params: params,
		pool:   pool,
		pair:   pair,
	}
}

// classifyForPlan mirrors Intelligence's freshness computation so the plan
// and the read path never disagree about what counts as fresh.
func classifyForPlan(env model.Envelope, found bool, now time.Time, d registry.Descriptor) model.Quality {
	if !found || !env.OK {
		return model.QualityMissing
	}
	age := now.Sub(env.FetchedAt)
	switch {
	case age <= d.TTL:
		return model.QualityFresh
	case age <= d.MaxAge:
		return model.QualityStale
	default:
		return model.QualityTooOld
	}
}

// forcedKeys maps every key touched by an un-expired trigger to its
// reason, for P0/P1 force-refresh regardless of freshness (spec.md §4.5
// "Trigger semantics"). A trigger touches pool-scoped keys through its
// pool, pair-scoped keys through its pair, and global keys when it names
// neither.
func forcedKeys(reg *registry.Registry, triggers []Trigger) map[string]string {
	forced := map[string]string{}
	for _, d := range reg.Enabled() {
		if d.Priority != model.PriorityP0 && d.Priority != model.PriorityP1 {
			continue
		}
		for _, trig := range triggers {
			var scopes []map[string]string
			if trig.Pool != "" {
				scopes = append(scopes, map[string]string{"pool": trig.Pool})
			}
			if trig.Pair != "" {
				scopes = append(scopes, map[string]string{"pair": trig.Pair})
			}
			if len(scopes) == 0 {
				scopes = append(scopes, map[string]string{})
			}
			for _, params := range scopes {
				for _, w := range append([]string{""}, intel.EnabledWindows()...) {
					p := cloneParams(params)
					if w != "" {
						p["window"] = w
					}
					forced[intel.CanonicalKey(d.Method, p)] = trig.Reason
				}
			}
		}
	}
	return forced
}

func cloneParams(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// sortJobs orders jobs by (priority ascending, cost class ascending, key
// lexical) per spec.md §4.5 "Priority & tie-breaking".
func sortJobs(jobs []Job) {
	sort.Slice(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		if a.Descriptor.Priority.Rank() != b.Descriptor.Priority.Rank() {
			return a.Descriptor.Priority.Rank() < b.Descriptor.Priority.Rank()
		}
		if a.Descriptor.CostClass.Rank() != b.Descriptor.CostClass.Rank() {
			return a.Descriptor.CostClass.Rank() < b.Descriptor.CostClass.Rank()
		}
		return a.Key < b.Key
	})
}
