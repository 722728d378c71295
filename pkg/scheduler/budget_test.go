package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clmmsim/pipeline/pkg/model"
	"github.com/clmmsim/pipeline/pkg/registry"
)

func TestApplyBudgetCapsExpensiveNonP0Jobs(t *testing.T) {
	jobs := []Job{
		{Key: "e1", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP2}},
		{Key: "e2", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP2}},
		{Key: "cheap", Descriptor: registry.Descriptor{CostClass: model.CostCheap, Priority: model.PriorityP1}},
	}
	out := ApplyBudget(jobs, 1, true)

	expensiveCount := 0
	for _, j := range out {
		if j.Descriptor.CostClass == model.CostExpensive {
			expensiveCount++
		}
	}
	assert.Equal(t, 1, expensiveCount)
	assert.Len(t, out, 2) // one expensive + the cheap job
}

func TestApplyBudgetExemptsP0ExpensiveJobs(t *testing.T) {
	jobs := []Job{
		{Key: "p0-expensive", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP0}},
		{Key: "p2-expensive-1", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP2}},
		{Key: "p2-expensive-2", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP2}},
	}
	out := ApplyBudget(jobs, 1, true)
	assert.Len(t, out, 2) // the P0 exempt job + one budget slot
}

func TestApplyBudgetCapsP0WhenExemptionDisabled(t *testing.T) {
	jobs := []Job{
		{Key: "p0-expensive-1", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP0}},
		{Key: "p0-expensive-2", Descriptor: registry.Descriptor{CostClass: model.CostExpensive, Priority: model.PriorityP0}},
	}
	out := ApplyBudget(jobs, 1, false)
	assert.Len(t, out, 1) // no exemption: P0 is capped like any other expensive job
}
