package config

// RunDefaults holds the enumerated per-campaign toggles named in spec.md §6.
// All fields are named options with documented defaults; no ambient state
// beyond these toggles may influence orchestrator or scheduler decisions.
type RunDefaults struct {
	// Environment selects mock or real execution. Default "mock".
	Environment Environment `yaml:"environment"`

	// ForceMock overrides Environment and always selects the mock executor.
	ForceMock bool `yaml:"force_mock"`

	// LearnFromMock permits learning-state updates while running in mock
	// mode (normally learning only applies in real mode).
	LearnFromMock bool `yaml:"learn_from_mock"`

	// IntelSource selects the MarketIntel backend the scheduler refreshes
	// the cache from.
	IntelSource IntelSource `yaml:"intel_source"`

	// Seed is loaded from configuration but not consulted: the episode and
	// campaign commands take their seed from --seed (default 0), and no
	// random seed is generated when it is nil.
	Seed *int64 `yaml:"seed"`

	// DisablePoolValidation is loaded from configuration but not consulted:
	// the orchestrator runs the real-mode Validator gate regardless of it.
	DisablePoolValidation bool `yaml:"disable_pool_validation"`

	// RiskAcknowledged is loaded from configuration but not consulted: the
	// live executor does not check it before quoting and executing.
	RiskAcknowledged bool `yaml:"risk_acknowledged"`
}

// DefaultRunDefaults returns the built-in run-level defaults.
func DefaultRunDefaults() *RunDefaults {
	return &RunDefaults{
		Environment:           EnvironmentMock,
		ForceMock:             false,
		LearnFromMock:         false,
		IntelSource:           IntelSourceMock,
		DisablePoolValidation: false,
		RiskAcknowledged:      false,
	}
}
