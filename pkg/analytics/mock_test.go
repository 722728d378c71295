package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCallerIsDeterministicPerMethodAndParams(t *testing.T) {
	c := MockCaller{}
	params := map[string]string{"pool": "0xABC", "window": "1h"}

	v1, err := c.Query(context.Background(), "pool_metrics", params)
	require.NoError(t, err)
	v2, err := c.Query(context.Background(), "pool_metrics", params)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}

func TestMockCallerDiffersByParams(t *testing.T) {
	c := MockCaller{}
	v1, err := c.Query(context.Background(), "mev_risk", map[string]string{"pool": "0xABC"})
	require.NoError(t, err)
	v2, err := c.Query(context.Background(), "mev_risk", map[string]string{"pool": "0xDEF"})
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}
