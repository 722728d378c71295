package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmmsim/pipeline/pkg/cachekv"
	"github.com/clmmsim/pipeline/pkg/model"
	"github.com/clmmsim/pipeline/pkg/registry"
)

func TestBuildPlanOnColdCacheEnumeratesAllEnabledDescriptors(t *testing.T) {
	store, err := cachekv.Open(filepath.Join(t.TempDir(), "quality.kv"))
	require.NoError(t, err)
	reg := registry.NewDefault()
	active := []PoolActivity{{Pool: "0xABC", Pair: "ETH-USDC"}}

	jobs := BuildPlan(reg, active, nil, store, time.Now())
	assert.NotEmpty(t, jobs)
	for _, j := range jobs {
		assert.Equal(t, model.QualityMissing, j.Reason)
	}
}

func TestBuildPlanSkipsFreshEnvelopes(t *testing.T) {
	store, err := cachekv.Open(filepath.Join(t.TempDir(), "quality.kv"))
	require.NoError(t, err)
	reg := registry.NewDefault()
	now := time.Now()

	require.NoError(t, store.Set("gas_regime()", model.Envelope{OK: true, Data: "low", FetchedAt: now}))

	jobs := BuildPlan(reg, nil, nil, store, now)
	for _, j := range jobs {
		assert.NotEqual(t, "gas_regime()", j.Key)
	}
}

func TestBuildPlanForcesTriggeredKeyEvenIfFresh(t *testing.T) {
	store, err := cachekv.Open(filepath.Join(t.TempDir(), "quality.kv"))
	require.NoError(t, err)
	reg := registry.NewDefault()
	now := time.Now()
	require.NoError(t, store.Set("gas_regime()", model.Envelope{OK: true, Data: "low", FetchedAt: now}))

	triggers := []Trigger{{Reason: "operator", At: now}}
	jobs := BuildPlan(reg, nil, triggers, store, now)

	found := false
	for _, j := range jobs {
		if j.Key == "gas_regime()" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSortJobsOrdersByPriorityThenCostThenKey(t *testing.T) {
	jobs := []Job{
		{Key: "z", Descriptor: registry.Descriptor{Priority: model.PriorityP2, CostClass: model.CostCheap}},
		{Key: "a", Descriptor: registry.Descriptor{Priority: model.PriorityP0, CostClass: model.CostCheap}},
		{Key: "m", Descriptor: registry.Descriptor{Priority: model.PriorityP0, CostClass: model.CostExpensive}},
	}
	sortJobs(jobs)
	assert.Equal(t, "a", jobs[0].Key)
	assert.Equal(t, "m", jobs[1].Key)
	assert.Equal(t, "z", jobs[2].Key)
}
