package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmmsim/pipeline/pkg/model"
)

func validProposal() model.Proposal {
	return model.Proposal{
		EpisodeID: "ep_1",
		Pool:      "0x1234567890123456789012345678901234567890",
		Params: model.ParamBundle{
			RangeWidthBps:       200,
			RefreshIntervalSecs: 60,
			SpreadBps:           10,
			OrderSize:           1000,
			RebalanceThreshold:  0.05,
			MaxPosition:         5000,
		},
	}
}

func TestValidateAcceptsWellFormedProposal(t *testing.T) {
	v := New(DefaultBounds())
	assert.NoError(t, v.Validate("ethereum", validProposal()))
}

func TestValidateRejectsUnrecognizedChain(t *testing.T) {
	v := New(DefaultBounds())
	err := v.Validate("doge-chain", validProposal())
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "chain", verr.Field)
}

func TestValidateRejectsMalformedPoolAddress(t *testing.T) {
	v := New(DefaultBounds())
	p := validProposal()
	p.Pool = "not-an-address"
	err := v.Validate("ethereum", p)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "pool", verr.Field)
}

func TestValidateRejectsOutOfRangeSpread(t *testing.T) {
	v := New(DefaultBounds())
	p := validProposal()
	p.Params.SpreadBps = 10000
	assert.Error(t, v.Validate("ethereum", p))
}

func TestValidateRejectsNaN(t *testing.T) {
	v := New(DefaultBounds())
	p := validProposal()
	p.Params.OrderSize = nan()
	err := v.Validate("ethereum", p)
	require.Error(t, err)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "order_size", verr.Field)
}

func nan() float64 {
	var zero float64
	return zero / zero
}
