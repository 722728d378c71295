package model

import "time"

// ParamBundle is the agent-proposed pool configuration for one episode
// (spec.md §3).
type ParamBundle struct {
	RangeWidthBps       float64 `json:"range_width_bps"`
	RefreshIntervalSecs int64   `json:"refresh_interval_seconds"`
	SpreadBps           float64 `json:"spread_bps"`
	OrderSize           float64 `json:"order_size"`
	RebalanceThreshold  float64 `json:"rebalance_threshold"`
	MaxPosition         float64 `json:"max_position"`
}

// DecisionBasis records the inputs, rule, and thresholds behind the agent's
// choice of regime — an opaque, agent-owned record the pipeline only
// carries (spec.md §3).
type DecisionBasis struct {
	Inputs     map[string]any `json:"inputs,omitempty"`
	RuleFired  string         `json:"rule_fired,omitempty"`
	Thresholds map[string]any `json:"thresholds,omitempty"`
}

// ProposalMeta carries provenance fields for a Proposal.
type ProposalMeta struct {
	Regime        string        `json:"regime"`
	ConfigHash    string        `json:"config_hash"`
	AgentVersion  string        `json:"agent_version"`
	DecisionBasis DecisionBasis `json:"decision_basis"`
}

// Proposal describes what to do for one episode. Immutable after write
// (spec.md §3).
type Proposal struct {
	EpisodeID       string         `json:"episode_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Status          ProposalStatus `json:"status"`
	Pool            string         `json:"pool"`
	Pair            string         `json:"pair"`
	Params          ParamBundle    `json:"params"`
	Meta            ProposalMeta   `json:"meta"`
}
