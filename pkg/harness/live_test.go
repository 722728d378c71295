package harness

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clmmsim/pipeline/pkg/model"
)

type stubGateway struct {
	healthy  bool
	quote    QuoteResult
	quoteErr error
	execErr  error
}

func (s *stubGateway) Quote(ctx context.Context, proposal model.Proposal, simulate bool) (QuoteResult, error) {
	return s.quote, s.quoteErr
}

func (s *stubGateway) Execute(ctx context.Context, proposal model.Proposal) (ExecuteResult, error) {
	if s.execErr != nil {
		return ExecuteResult{}, s.execErr
	}
	return ExecuteResult{Metrics: model.Metrics{RealizedPnL: 5}}, nil
}

func (s *stubGateway) Healthy(ctx context.Context) bool { return s.healthy }

func TestLiveExecutorFailsWhenGatewayUnhealthy(t *testing.T) {
	gw := &stubGateway{healthy: false}
	exec := NewLiveExecutor(gw, 100)

	r, err := exec.ExecuteEpisode(context.Background(), testProposal(), "run_1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.ResultStatusFailed, r.Status)
	assert.Equal(t, ReasonHealthFailure, r.Reason)
}

func TestLiveExecutorSkipsOnRevert(t *testing.T) {
	gw := &stubGateway{healthy: true, quote: QuoteResult{Reverted: true}}
	exec := NewLiveExecutor(gw, 100)

	r, err := exec.ExecuteEpisode(context.Background(), testProposal(), "run_1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.ResultStatusSkipped, r.Status)
	assert.Equal(t, ReasonRevert, r.Reason)
}

func TestLiveExecutorSkipsWhenGasExceedsCeiling(t *testing.T) {
	gw := &stubGateway{healthy: true, quote: QuoteResult{Output: 1, GasUsed: 500}}
	exec := NewLiveExecutor(gw, 100)

	r, err := exec.ExecuteEpisode(context.Background(), testProposal(), "run_1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.ResultStatusSkipped, r.Status)
	assert.Equal(t, ReasonUserBound, r.Reason)
}

func TestLiveExecutorSucceedsOnGoodQuoteAndExecute(t *testing.T) {
	gw := &stubGateway{healthy: true, quote: QuoteResult{Output: 1, GasUsed: 10}}
	exec := NewLiveExecutor(gw, 100)

	r, err := exec.ExecuteEpisode(context.Background(), testProposal(), "run_1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.ResultStatusSuccess, r.Status)
	assert.Equal(t, 5.0, r.Metrics.RealizedPnL)
}

func TestLiveExecutorFailsOnExecuteError(t *testing.T) {
	gw := &stubGateway{healthy: true, quote: QuoteResult{Output: 1, GasUsed: 10}, execErr: errors.New("boom")}
	exec := NewLiveExecutor(gw, 100)

	r, err := exec.ExecuteEpisode(context.Background(), testProposal(), "run_1", 0, "")
	require.NoError(t, err)
	assert.Equal(t, model.ResultStatusFailed, r.Status)
}

func TestSelectForcesMockRegardlessOfEnvironment(t *testing.T) {
	var mock, live Executor = &MockExecutor{}, &LiveExecutor{}
	picked, mode, err := Select(mock, live, true, "real", true, false)
	require.NoError(t, err)
	assert.Equal(t, mock, picked)
	assert.Equal(t, model.ExecModeMock, mode)
}
