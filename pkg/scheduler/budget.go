package scheduler

import (
	"golang.org/x/sync/semaphore"

	"github.com/clmmsim/pipeline/pkg/model"
)

// ApplyBudget enforces the per-tick expensive-class dispatch cap (spec.md
// §4.5 "Budget"): at most expensiveBudget expensive-class jobs are allowed
// through per tick. When hardP0Exempt is true, P0 items bypass the cap
// regardless of cost class (spec.md §9's named default for the open
// question of whether the P0 exemption is a hard rule or a soft heuristic);
// when false, P0 items are subject to the same cap as any other
// expensive-class job.
//
// A weighted semaphore sized to the budget enforces the cap; jobs that
// cannot acquire a slot are simply dropped from this tick's dispatch and
// will be recomputed (and may be dispatched) on a later tick.
func ApplyBudget(jobs []Job, expensiveBudget int, hardP0Exempt bool) []Job {
	if expensiveBudget < 0 {
		expensiveBudget = 0
	}
	sem := semaphore.NewWeighted(int64(expensiveBudget))

	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Descriptor.CostClass != model.CostExpensive {
			out = append(out, j)
			continue
		}
		if hardP0Exempt && j.Descriptor.Priority == model.PriorityP0 {
			out = append(out, j)
			continue
		}
		if sem.TryAcquire(1) {
			out = append(out, j)
		}
	}
	return out
}
