package scheduler

// PoolActivity is one observation used to rank pools for the active set —
// typically derived from recent episode proposals.
type PoolActivity struct {
	Pool         string
	Pair         string
	EpisodeCount int
}

// ActivePoolSet computes the top-K active pools (spec.md §4.5 step 2,
// §5 "Fairness"): either an explicit config override, or the K pools with
// the most recent-episode activity, capped at K to prevent query explosion
// on an expanding pool universe.
func ActivePoolSet(recent []PoolActivity, configured []string, k int) []PoolActivity {
	if k <= 0 {
		k = 3
	}
	if len(configured) > 0 {
		out := make([]PoolActivity, 0, len(configured))
		for _, p := range configured {
			out = append(out, PoolActivity{Pool: p})
		}
		if len(out) > k {
			out = out[:k]
		}
		return out
	}

	ranked := make([]PoolActivity, len(recent))
	copy(ranked, recent)
	// simple insertion sort by EpisodeCount descending — small K, small input.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].EpisodeCount > ranked[j-1].EpisodeCount; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Pairs extracts the distinct, non-empty pairs from an active pool set
// (spec.md §4.5 step 3 "pair: one item per active pair (derived from
// active pools)").
func Pairs(active []PoolActivity) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range active {
		if a.Pair == "" || seen[a.Pair] {
			continue
		}
		seen[a.Pair] = true
		out = append(out, a.Pair)
	}
	return out
}
