package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmmsim/pipeline/pkg/model"
)

func TestNewDefaultHasSevenEnabledDescriptors(t *testing.T) {
	r := NewDefault()
	assert.Len(t, r.Enabled(), 7)
	assert.Len(t, r.All(), 9)
}

func TestNewRejectsDuplicateMethod(t *testing.T) {
	_, err := New([]Descriptor{
		{Method: "gas_regime"},
		{Method: "gas_regime"},
	})
	assert.Error(t, err)
}

func TestNewRejectsUnknownDependency(t *testing.T) {
	_, err := New([]Descriptor{
		{Method: "dynamic_config", Dependencies: []string{"no_such_method"}},
	})
	assert.Error(t, err)
}

func TestGetReturnsKnownDescriptor(t *testing.T) {
	r := NewDefault()
	d, ok := r.Get("pool_metrics")
	require.True(t, ok)
	assert.Equal(t, model.ScopePool, d.Scope)
	assert.True(t, d.Windowed)
}

func TestEnabledOrdersByPriorityThenCostThenMethod(t *testing.T) {
	r := NewDefault()
	enabled := r.Enabled()
	for i := 1; i < len(enabled); i++ {
		prev, cur := enabled[i-1], enabled[i]
		if prev.Priority.Rank() != cur.Priority.Rank() {
			assert.Less(t, prev.Priority.Rank(), cur.Priority.Rank())
			continue
		}
		if prev.CostClass.Rank() != cur.CostClass.Rank() {
			assert.Less(t, prev.CostClass.Rank(), cur.CostClass.Rank())
			continue
		}
		assert.Less(t, prev.Method, cur.Method)
	}
}
