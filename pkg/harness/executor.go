// Package harness implements execute_episode(proposal, ctx) → result
// (spec.md §4.6): a mock executor for deterministic simulation and a live
// executor wrapping an external exchange gateway, selected by the
// execution-mode toggle.
package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/clmmsim/pipeline/pkg/config"
	"github.com/clmmsim/pipeline/pkg/model"
)

// Executor drives one episode to completion.
type Executor interface {
	ExecuteEpisode(ctx context.Context, proposal model.Proposal, runID string, seed int64, regime string) (model.EpisodeResult, error)
}

// Reason strings surfaced on non-success results (spec.md §4.6 "Failure
// taxonomy").
const (
	ReasonRevert        = "revert"
	ReasonHealthFailure = "gateway_unhealthy"
	ReasonUserBound     = "user_bound_violation"
	ReasonTimeout       = "executor_timeout"
)

// ErrNoExecutorAvailable is returned by Select when neither mock nor live
// execution is permitted for the requested configuration.
var ErrNoExecutorAvailable = errors.New("harness: no executor available for requested mode")

// Select implements the execution-mode selection rules (spec.md §4.6
// "Selection rules"):
//
//	forceMock        -> always mock.
//	environment=real && gateway healthy -> live.
//	environment=real && gateway unhealthy && allowDegrade -> mock.
//	environment=real && gateway unhealthy && !allowDegrade -> error.
//	any other environment (mock) -> mock.
func Select(mock, live Executor, forceMock bool, environment config.Environment, gatewayHealthy, allowDegradeToMock bool) (Executor, model.ExecMode, error) {
	if forceMock {
		return mock, model.ExecModeMock, nil
	}
	if environment == config.EnvironmentReal {
		if gatewayHealthy {
			return live, model.ExecModeReal, nil
		}
		if allowDegradeToMock {
			return mock, model.ExecModeMock, nil
		}
		return nil, "", fmt.Errorf("%w: live gateway unhealthy and degrade-to-mock disabled", ErrNoExecutorAvailable)
	}
	return mock, model.ExecModeMock, nil
}
