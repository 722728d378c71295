package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeHygieneMatchesRoundTripLaw(t *testing.T) {
	snap := IntelSnapshot{
		"a": {Quality: QualityFresh},
		"b": {Quality: QualityStale},
		"c": {Quality: QualityMissing},
		"d": {Quality: QualityTooOld},
		"e": {Quality: QualityFresh},
		"f": {Quality: QualityMissing},
		"g": {Quality: QualityMissing},
	}
	h := ComputeHygiene(snap)
	assert.Equal(t, 7, h.TotalQueries)
	assert.Equal(t, h.TotalQueries, h.FreshCount+h.StaleCount+h.MissingOrTooOldCount)
	assert.InDelta(t, 28.6, h.FreshPercent, 0.05)
}

func TestComputeHygieneEmptySnapshot(t *testing.T) {
	h := ComputeHygiene(IntelSnapshot{})
	assert.Equal(t, 0, h.TotalQueries)
	assert.Equal(t, 0.0, h.FreshPercent)
}

func TestPriorityRankOrdersAscending(t *testing.T) {
	assert.Less(t, PriorityP0.Rank(), PriorityP1.Rank())
	assert.Less(t, PriorityP1.Rank(), PriorityP2.Rank())
	assert.Less(t, PriorityP2.Rank(), PriorityP3.Rank())
}

func TestCostClassRankOrdersAscending(t *testing.T) {
	assert.Less(t, CostCheap.Rank(), CostMedium.Rank())
	assert.Less(t, CostMedium.Rank(), CostExpensive.Rank())
}

func TestResultStatusIsValid(t *testing.T) {
	assert.True(t, ResultStatusSuccess.IsValid())
	assert.False(t, ResultStatus("bogus").IsValid())
}
