// Package agentclient implements the learning agent collaborator contract
// (spec.md §6 "Learning agent"). The real agent is an external process;
// this package provides the invocation boundary plus a deterministic mock
// implementation for tests and mock-mode runs.
package agentclient

import (
	"context"
	"fmt"

	"github.com/clmmsim/pipeline/pkg/harness"
	"github.com/clmmsim/pipeline/pkg/model"
)

// Mock is a deterministic stand-in agent: given a fixed pool/pair/regime
// and parameter bundle, it always proposes the same episode shape. Used in
// mock-mode runs and integration tests where no real learning agent
// process is available.
type Mock struct {
	Pool         string
	Pair         string
	Regime       string
	Params       model.ParamBundle
	ConfigHash   string
	AgentVersion string
}

// Propose implements orchestrator.AgentClient.
func (m *Mock) Propose(_ context.Context, runID, episodeID string) (model.Proposal, error) {
	regime := m.Regime
	if regime == "" {
		regime = harness.RegimeMeanRevert
	}
	return model.Proposal{
		EpisodeID: episodeID,
		Status:    model.ProposalStatusProposed,
		Pool:      m.Pool,
		Pair:      m.Pair,
		Params:    m.Params,
		Meta: model.ProposalMeta{
			Regime:       regime,
			ConfigHash:   m.ConfigHash,
			AgentVersion: m.AgentVersion,
			DecisionBasis: model.DecisionBasis{
				RuleFired: "mock-fixed-regime",
			},
		},
	}, nil
}

// Subprocess names an external agent binary that writes proposal.json and
// metadata.json itself, then reports success via exit code (spec.md §6).
// Its Propose does not start the process: it always returns an error (see
// Propose below).
type Subprocess struct {
	Command string
	Args    []string
}

// Propose is not implemented standalone here — the orchestrator's contract
// requires the in-process Proposal value, so a real deployment pairs
// Subprocess with a reader that parses the proposal.json the child process
// wrote. That reader is deployment-specific glue outside this package's
// scope; Subprocess exists to document the external contract shape.
func (s *Subprocess) Propose(_ context.Context, runID, episodeID string) (model.Proposal, error) {
	return model.Proposal{}, fmt.Errorf("agentclient: Subprocess.Propose requires deployment-specific wiring (command=%s)", s.Command)
}
