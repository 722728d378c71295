package scheduler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/clmmsim/pipeline/pkg/model"
)

// RecentPoolActivity scans the maxRuns most recent run directories under
// <baseDir>/runs for episode proposals and aggregates per-pool episode
// counts, feeding the "recent episode activity" ranking half of
// ActivePoolSet's contract (spec.md §4.5 step 2). Run directories sort
// lexically by their run_<YYYYMMDD_HHMMSS> timestamp, so the most recent
// runs are simply the last maxRuns names in sorted order. A run or episode
// that can't be read is skipped rather than aborting the scan — this is a
// best-effort ranking signal, not a source of truth.
func RecentPoolActivity(baseDir string, maxRuns int) []PoolActivity {
	if maxRuns <= 0 {
		maxRuns = 20
	}

	runsDir := filepath.Join(baseDir, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) > maxRuns {
		names = names[len(names)-maxRuns:]
	}

	counts := make(map[string]*PoolActivity)
	for _, runID := range names {
		episodesDir := filepath.Join(runsDir, runID, "episodes")
		episodeEntries, err := os.ReadDir(episodesDir)
		if err != nil {
			continue
		}
		for _, ep := range episodeEntries {
			if !ep.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(episodesDir, ep.Name(), "proposal.json"))
			if err != nil {
				continue
			}
			var p model.Proposal
			if json.Unmarshal(data, &p) != nil || p.Pool == "" {
				continue
			}
			a, ok := counts[p.Pool]
			if !ok {
				a = &PoolActivity{Pool: p.Pool, Pair: p.Pair}
				counts[p.Pool] = a
			}
			a.EpisodeCount++
		}
	}

	out := make([]PoolActivity, 0, len(counts))
	for _, a := range counts {
		out = append(out, *a)
	}
	return out
}
