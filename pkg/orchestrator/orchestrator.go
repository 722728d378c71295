// Package orchestrator drives the per-episode state machine (spec.md
// §4.2): Created -> Proposed -> [Validated] -> Executed -> Completed, with
// agent, executor-selection, validation and harness failures writing a
// failure.json so the caller can move on to the next episode. Errors
// creating the episode directory or writing its artifacts are returned to
// the caller instead.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/clmmsim/pipeline/pkg/artifact"
	"github.com/clmmsim/pipeline/pkg/config"
	"github.com/clmmsim/pipeline/pkg/gate"
	"github.com/clmmsim/pipeline/pkg/harness"
	"github.com/clmmsim/pipeline/pkg/intel"
	"github.com/clmmsim/pipeline/pkg/model"
)

// AgentClient invokes the external learning agent for one episode. A
// non-nil error signals agent failure (spec.md §6 "non-zero exit code
// signals agent failure").
type AgentClient interface {
	Propose(ctx context.Context, runID, episodeID string) (model.Proposal, error)
}

// Failure is the shape written to failure.json (spec.md §4.2 "Failure
// signalling").
type Failure struct {
	Stage        string    `json:"stage"`
	Error        string    `json:"error"`
	ExitCode     int       `json:"exit_code"`
	ConfigHash   string    `json:"config_hash"`
	AgentVersion string    `json:"agent_version"`
	ExecMode     model.ExecMode `json:"exec_mode"`
	Timestamp    time.Time `json:"timestamp"`
}

// Orchestrator ties the Artifact Writer, agent client, real-mode Validator,
// and Harness together for one episode at a time.
type Orchestrator struct {
	writer    *artifact.Writer
	agent     AgentClient
	validator *gate.Validator
	chain     string

	mock Harness
	live Harness

	environment  config.Environment
	forceMock    bool
	allowDegrade bool
	triggers     intel.TriggerSink
	newAccessor  func() *intel.Accessor
}

// Harness is the subset of harness.Executor the orchestrator drives.
type Harness = harness.Executor

// Params configures one Orchestrator instance.
type Params struct {
	Writer       *artifact.Writer
	Agent        AgentClient
	Validator    *gate.Validator
	Chain        string
	Mock         Harness
	Live         Harness
	Environment  config.Environment
	ForceMock    bool
	AllowDegrade bool
	Triggers     intel.TriggerSink
	// NewAccessor builds a fresh Intelligence accessor for one episode's
	// decision step (spec.md §4.3 "create a fresh Accessor per episode").
	NewAccessor func() *intel.Accessor
}

// New builds an Orchestrator from Params.
func New(p Params) *Orchestrator {
	return &Orchestrator{
		writer:       p.Writer,
		agent:        p.Agent,
		validator:    p.Validator,
		chain:        p.Chain,
		mock:         p.Mock,
		live:         p.Live,
		environment:  p.Environment,
		forceMock:    p.ForceMock,
		allowDegrade: p.AllowDegrade,
		triggers:     p.Triggers,
		newAccessor:  p.NewAccessor,
	}
}

// decisionWindowMinutes is the lookback window the decision step requests
// for windowed descriptors, matching spec.md §8 Scenario 5's "1h" window.
const decisionWindowMinutes = 60

// runDecisionStep queries the enumerated default-enabled accessor set
// (spec.md §4.3, §8 Scenario 1: "7 per the enumerated accessor set") against
// a fresh per-episode Accessor, then extracts its snapshot and hygiene for
// metadata (spec.md §4.3 "the harness extracts this snapshot after its
// decision step").
func runDecisionStep(accessor *intel.Accessor, pool, pair string) (model.IntelSnapshot, model.Hygiene) {
	accessor.GetGasRegime()
	accessor.GetVolatility(pair, decisionWindowMinutes)
	accessor.GetPoolHealth(pool, pair, decisionWindowMinutes)
	accessor.GetLiquidityHeatmap(pool)
	accessor.GetMEVRisk(pool)
	accessor.GetWhaleSentiment(pair)
	accessor.GetRangeHint(pool)

	return accessor.Snapshot(), accessor.Hygiene()
}

// gatewayHealthChecker is implemented by the live Harness when it can
// report gateway health ahead of executor selection.
type gatewayHealthChecker interface {
	GatewayHealthy(ctx context.Context) bool
}

// RunEpisode drives one episode through Created -> Completed (or a Failed
// branch), writing proposal.json, metadata.json, and either result.json or
// failure.json. Agent, executor-selection, validation and harness failures
// are captured as failure.json and RunEpisode returns nil for them, so the
// caller can proceed to the next episode. A failure to create the episode
// directory or to write one of its artifacts (failure.json included) is
// not captured: RunEpisode returns it as an error.
func (o *Orchestrator) RunEpisode(ctx context.Context, runID, episodeID string, seed int64) error {
	start := time.Now()
	if err := o.writer.CreateEpisode(runID, episodeID); err != nil {
		return fmt.Errorf("orchestrator: creating episode dir: %w", err)
	}

	proposeStart := time.Now()
	proposal, err := o.agent.Propose(ctx, runID, episodeID)
	if err != nil {
		return o.fail(runID, episodeID, "agent", err, "", model.ExecModeMock)
	}
	if err := o.writer.WriteArtifact(runID, episodeID, artifact.KindProposal, proposal); err != nil {
		return fmt.Errorf("orchestrator: writing proposal: %w", err)
	}
	proposeSecs := time.Since(proposeStart).Seconds()

	gatewayHealthy := false
	if hc, ok := o.live.(gatewayHealthChecker); ok {
		gatewayHealthy = hc.GatewayHealthy(ctx)
	}
	exec, execMode, err := harness.Select(o.mock, o.live, o.forceMock, o.environment, gatewayHealthy, o.allowDegrade)
	if err != nil {
		return o.fail(runID, episodeID, "executor_selection_failed", err, proposal.Meta.AgentVersion, model.ExecModeMock)
	}

	baseMeta := map[string]any{
		"episode_id":    episodeID,
		"run_id":        runID,
		"exec_mode":     string(execMode),
		"agent_version": proposal.Meta.AgentVersion,
		"config_hash":   proposal.Meta.ConfigHash,
		"seed":          seed,
		"regime_key":    proposal.Meta.Regime,
	}
	if err := o.writer.MergeMetadata(runID, episodeID, baseMeta); err != nil {
		return fmt.Errorf("orchestrator: writing initial metadata: %w", err)
	}

	validateStart := time.Now()
	if execMode == model.ExecModeReal && o.validator != nil {
		if verr := o.validator.Validate(o.chain, proposal); verr != nil {
			return o.fail(runID, episodeID, "validation", verr, proposal.Meta.AgentVersion, execMode)
		}
	}
	validateSecs := time.Since(validateStart).Seconds()

	if o.newAccessor != nil {
		accessor := o.newAccessor()
		snapshot, hygiene := runDecisionStep(accessor, proposal.Pool, proposal.Pair)
		if err := o.writer.MergeMetadata(runID, episodeID, map[string]any{
			"extra": map[string]any{
				"intel_snapshot": snapshot,
				"intel_hygiene":  hygiene,
			},
		}); err != nil {
			return fmt.Errorf("orchestrator: merging intel snapshot into metadata: %w", err)
		}
	}

	executeStart := time.Now()
	result, err := exec.ExecuteEpisode(ctx, proposal, runID, seed, proposal.Meta.Regime)
	if err != nil {
		return o.fail(runID, episodeID, "harness_failed", err, proposal.Meta.AgentVersion, execMode)
	}
	result.RunID = runID
	result.EpisodeID = episodeID
	result.ExecMode = execMode
	executeSecs := time.Since(executeStart).Seconds()

	if err := o.writer.WriteArtifact(runID, episodeID, artifact.KindResult, result); err != nil {
		return fmt.Errorf("orchestrator: writing result: %w", err)
	}

	timings := model.WallTimings{
		ProposeSecs:  proposeSecs,
		ValidateSecs: validateSecs,
		ExecuteSecs:  executeSecs,
		TotalSecs:    time.Since(start).Seconds(),
	}
	if err := o.writer.WriteArtifact(runID, episodeID, artifact.KindTimings, timings); err != nil {
		return fmt.Errorf("orchestrator: writing timings: %w", err)
	}
	if err := o.writer.MergeMetadata(runID, episodeID, map[string]any{"timings": timings}); err != nil {
		return fmt.Errorf("orchestrator: merging timings into metadata: %w", err)
	}

	return nil
}

// fail writes failure.json and a best-effort metadata.json, satisfying
// spec.md §4.2 "On entry to any Failed state, the orchestrator invokes the
// Artifact Writer to ensure metadata.json ... and failure.json exist". It
// always returns nil: a per-episode failure must not abort the run.
func (o *Orchestrator) fail(runID, episodeID, stage string, cause error, agentVersion string, execMode model.ExecMode) error {
	f := Failure{
		Stage:        stage,
		Error:        cause.Error(),
		ExitCode:     1,
		AgentVersion: agentVersion,
		ExecMode:     execMode,
		Timestamp:    time.Now(),
	}
	if err := o.writer.WriteArtifact(runID, episodeID, artifact.KindFailure, f); err != nil {
		return fmt.Errorf("orchestrator: writing failure artifact: %w", err)
	}
	_ = o.writer.MergeMetadata(runID, episodeID, map[string]any{
		"episode_id": episodeID,
		"run_id":     runID,
		"exec_mode":  string(execMode),
	})
	return nil
}
