package gateway

import (
	"context"

	"github.com/clmmsim/pipeline/pkg/harness"
	"github.com/clmmsim/pipeline/pkg/model"
)

// Mock implements harness.Gateway with canned responses, for tests and
// mock-mode runs that still want to exercise the live-executor code path.
type Mock struct {
	IsHealthy   bool
	QuoteResult harness.QuoteResult
	QuoteErr    error
	ExecResult  harness.ExecuteResult
	ExecErr     error
}

func (m *Mock) Healthy(context.Context) bool { return m.IsHealthy }

func (m *Mock) Quote(context.Context, model.Proposal, bool) (harness.QuoteResult, error) {
	return m.QuoteResult, m.QuoteErr
}

func (m *Mock) Execute(context.Context, model.Proposal) (harness.ExecuteResult, error) {
	return m.ExecResult, m.ExecErr
}
